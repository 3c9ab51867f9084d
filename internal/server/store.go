package server

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ironsheep/raster-algebra-mcp/internal/raster"
)

// ErrNotFound is returned for ids that name no stored raster.
var ErrNotFound = errors.New("raster not found")

// Store holds the rasters created during a session, keyed by ids "r1",
// "r2", ... in creation order. Ids are never reused, even after Delete.
//
// Store is safe for concurrent use. The rasters themselves are not; callers
// must serialize mutation of a stored raster.
type Store struct {
	mu      sync.RWMutex
	next    int
	rasters map[string]raster.Raster
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		rasters: make(map[string]raster.Raster),
	}
}

// Put stores r under a fresh id and returns the id.
func (st *Store) Put(r raster.Raster) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.next++
	id := "r" + strconv.Itoa(st.next)
	st.rasters[id] = r
	return id
}

// Get returns the raster stored under id.
func (st *Store) Get(id string) (raster.Raster, error) {
	st.mu.RLock()
	r, ok := st.rasters[id]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return r, nil
}

// Delete removes id and reports whether it was present.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.rasters[id]; !ok {
		return false
	}
	delete(st.rasters, id)
	return true
}

// Len returns the number of stored rasters.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.rasters)
}

// IDs returns the stored ids in creation order.
func (st *Store) IDs() []string {
	st.mu.RLock()
	ids := make([]string, 0, len(st.rasters))
	for id := range st.rasters {
		ids = append(ids, id)
	}
	st.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool {
		return idNumber(ids[i]) < idNumber(ids[j])
	})
	return ids
}

func idNumber(id string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(id, "r"))
	return n
}
