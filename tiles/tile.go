// Package tiles holds the domino pieces themselves: the tile type, the full
// double-six set, and the hand and stock collections that hold tiles.
package tiles

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxPip is the highest pip value on a double-six set.
	MaxPip = 6
	// NumPipValues is the number of distinct pip values, 0 through MaxPip.
	NumPipValues = MaxPip + 1
	// FullSetSize is the number of unique tiles in a double-six set.
	FullSetSize = NumPipValues * (NumPipValues + 1) / 2
	// HandSize is how many tiles each player is dealt.
	HandSize = 7
)

var ErrBadTile = errors.New("bad tile")

// Tile is an unordered pair of pip values. It is always stored with
// Lo <= Hi, so two tiles are the same piece iff they compare equal.
type Tile struct {
	Lo uint8 `json:"lo"`
	Hi uint8 `json:"hi"`
}

// NewTile normalizes the pip order. It does not validate the range; use
// Parse for user input.
func NewTile(a, b uint8) Tile {
	if a > b {
		a, b = b, a
	}
	return Tile{Lo: a, Hi: b}
}

func (t Tile) IsDouble() bool {
	return t.Lo == t.Hi
}

// Has returns true if either half of the tile shows pip.
func (t Tile) Has(pip uint8) bool {
	return t.Lo == pip || t.Hi == pip
}

// Other returns the pip on the other half from pip. It assumes t.Has(pip).
func (t Tile) Other(pip uint8) uint8 {
	if t.Lo == pip {
		return t.Hi
	}
	return t.Lo
}

// Pips is the total number of pips on the tile.
func (t Tile) Pips() int {
	return int(t.Lo) + int(t.Hi)
}

// Index is a dense index from 0 to FullSetSize-1, in FullSet order.
func (t Tile) Index() int {
	lo, hi := int(t.Lo), int(t.Hi)
	// Tiles with a smaller Lo come first; there are (NumPipValues - i) of
	// them for every i < lo.
	return lo*NumPipValues - lo*(lo-1)/2 + (hi - lo)
}

func (t Tile) Valid() bool {
	return t.Lo <= t.Hi && t.Hi <= MaxPip
}

func (t Tile) String() string {
	return fmt.Sprintf("[%d|%d]", t.Lo, t.Hi)
}

// FullSet returns all 28 tiles, ordered (0,0), (0,1) ... (0,6), (1,1) ... (6,6).
func FullSet() []Tile {
	set := make([]Tile, 0, FullSetSize)
	for i := uint8(0); i <= MaxPip; i++ {
		for j := i; j <= MaxPip; j++ {
			set = append(set, Tile{Lo: i, Hi: j})
		}
	}
	return set
}

// Parse reads a tile written as "3|5", "[3|5]", "3-5", "3,5" or "35".
func Parse(s string) (Tile, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	var halves []string
	if idx := strings.IndexAny(s, "|-,"); idx >= 0 {
		halves = []string{s[:idx], s[idx+1:]}
	} else if len(s) == 2 {
		halves = []string{s[:1], s[1:]}
	} else {
		return Tile{}, fmt.Errorf("%w: %q", ErrBadTile, s)
	}
	var pips [2]uint8
	for i, h := range halves {
		v, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return Tile{}, fmt.Errorf("%w: %q", ErrBadTile, s)
		}
		if v < 0 || v > MaxPip {
			return Tile{}, fmt.Errorf("%w: pip %d out of range", ErrBadTile, v)
		}
		pips[i] = uint8(v)
	}
	return NewTile(pips[0], pips[1]), nil
}

// MustParse is Parse for tests and fixed tables. It panics on bad input.
func MustParse(s string) Tile {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}
