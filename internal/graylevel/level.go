package graylevel

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Level is one of five gray levels. Only the values White through Black are
// valid; operators never produce anything else.
type Level uint8

const (
	White Level = iota
	LightGray
	MidGray
	DarkGray
	Black
)

// Count is the number of distinct levels.
const Count = int(Black) + 1

// maxRank is the rank of Black.
const maxRank = Count - 1

var names = [Count]string{"white", "light_gray", "mid_gray", "dark_gray", "black"}

// All returns every level in rank order, lightest first.
func All() []Level {
	return []Level{White, LightGray, MidGray, DarkGray, Black}
}

// FromRank returns the level with the given rank.
func FromRank(r int) (Level, error) {
	if r < 0 || r > maxRank {
		return White, fmt.Errorf("rank %d outside [0,%d]", r, maxRank)
	}
	return Level(r), nil
}

// clampRank maps any integer onto a valid level, saturating at both ends.
func clampRank(r int) Level {
	if r < 0 {
		return White
	}
	if r > maxRank {
		return Black
	}
	return Level(r)
}

// Rank returns the ordinal position of l, 0 for White up to 4 for Black.
func (l Level) Rank() int {
	return int(l)
}

// Valid reports whether l is one of the five defined levels.
func (l Level) Valid() bool {
	return int(l) <= maxRank
}

// IsWhite reports whether l is the lightest level.
func (l Level) IsWhite() bool { return l == White }

// IsBlack reports whether l is the darkest level.
func (l Level) IsBlack() bool { return l == Black }

// Invert mirrors l around the middle of the scale.
func (l Level) Invert() Level {
	return Level(maxRank - l.Rank())
}

// Lighten returns the next lighter level. White is returned unchanged.
func (l Level) Lighten() Level {
	return clampRank(l.Rank() - 1)
}

// Darken returns the next darker level. Black is returned unchanged.
func (l Level) Darken() Level {
	return clampRank(l.Rank() + 1)
}

// Add returns the saturating sum of the two ranks.
func (l Level) Add(o Level) Level {
	return clampRank(l.Rank() + o.Rank())
}

// Subtract returns the saturating difference of the two ranks.
func (l Level) Subtract(o Level) Level {
	return clampRank(l.Rank() - o.Rank())
}

// Xor returns the level whose rank is the absolute difference of the two
// ranks. Equal inputs give White.
func (l Level) Xor(o Level) Level {
	d := l.Rank() - o.Rank()
	if d < 0 {
		d = -d
	}
	return Level(d)
}

// RandomPick returns White or Black, each with probability one half.
func RandomPick(src rand.Source) Level {
	if src.Uint64()&1 == 0 {
		return White
	}
	return Black
}

// String returns the lower-case name of l, e.g. "mid_gray".
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
	return names[l]
}

// ParseLevel parses a level name. Matching is case-insensitive and accepts
// '-' or ' ' in place of '_'.
func ParseLevel(s string) (Level, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for i, n := range names {
		if n == norm {
			return Level(i), nil
		}
	}
	return White, fmt.Errorf("unknown gray level %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid gray level %d", uint8(l))
	}
	return []byte(names[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
