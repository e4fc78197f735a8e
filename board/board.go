// Package board implements the domino layout: a line of oriented tiles with
// two exposed ends, and the rules for what may be placed on each end.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/dominoes/tiles"
)

// End is one of the two extremities of the line of play.
type End uint8

const (
	Left End = iota
	Right
)

// Ends lists both ends in the order moves are generated.
var Ends = [2]End{Left, Right}

var ErrIllegalPlacement = errors.New("tile does not match that end")

func (e End) String() string {
	if e == Left {
		return "left"
	}
	return "right"
}

// Opposite returns the other end.
func (e End) Opposite() End {
	return 1 - e
}

func (e End) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *End) UnmarshalText(b []byte) error {
	v, err := ParseEnd(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ParseEnd reads l, left, r or right, in any case.
func ParseEnd(s string) (End, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	}
	return Left, fmt.Errorf("%q is not an end; use left or right", s)
}

// Placed is a tile laid on the board with a definite orientation.
type Placed struct {
	Left  uint8 `json:"left"`
	Right uint8 `json:"right"`
}

func (p Placed) Tile() tiles.Tile {
	return tiles.NewTile(p.Left, p.Right)
}

func (p Placed) String() string {
	return fmt.Sprintf("[%d|%d]", p.Left, p.Right)
}

// Board is the line of play. For every adjacent pair, the right pip of the
// left tile equals the left pip of the right tile. The zero value is an
// empty board.
type Board struct {
	Tiles []Placed `json:"tiles"`
}

// FromPlaced builds a board from oriented tiles, checking adjacency.
func FromPlaced(ps ...Placed) (Board, error) {
	b := Board{Tiles: append([]Placed(nil), ps...)}
	if !b.Valid() {
		return Board{}, errors.New("adjacent tiles do not match")
	}
	return b, nil
}

func (b Board) IsEmpty() bool {
	return len(b.Tiles) == 0
}

func (b Board) Len() int {
	return len(b.Tiles)
}

// LeftPip is the exposed pip on the left end. Only meaningful when the
// board is not empty.
func (b Board) LeftPip() uint8 {
	return b.Tiles[0].Left
}

// RightPip is the exposed pip on the right end. Only meaningful when the
// board is not empty.
func (b Board) RightPip() uint8 {
	return b.Tiles[len(b.Tiles)-1].Right
}

// ExposedPip returns the pip showing at end e.
func (b Board) ExposedPip(e End) uint8 {
	if e == Left {
		return b.LeftPip()
	}
	return b.RightPip()
}

// IsLegal returns whether t may be played at end e. Anything may be played
// on an empty board.
func (b Board) IsLegal(t tiles.Tile, e End) bool {
	if b.IsEmpty() {
		return true
	}
	return t.Has(b.ExposedPip(e))
}

// Place returns a new board with t added at end e, oriented so its matching
// pip touches the existing end. The receiver is left untouched. On an empty
// board the tile is laid as-is and e is ignored.
func (b Board) Place(t tiles.Tile, e End) (Board, error) {
	if b.IsEmpty() {
		return Board{Tiles: []Placed{{Left: t.Lo, Right: t.Hi}}}, nil
	}
	if !b.IsLegal(t, e) {
		return b, fmt.Errorf("%w: %v at %v (showing %d)", ErrIllegalPlacement,
			t, e, b.ExposedPip(e))
	}
	nt := make([]Placed, 0, len(b.Tiles)+1)
	if e == Left {
		pip := b.LeftPip()
		nt = append(nt, Placed{Left: t.Other(pip), Right: pip})
		nt = append(nt, b.Tiles...)
	} else {
		pip := b.RightPip()
		nt = append(nt, b.Tiles...)
		nt = append(nt, Placed{Left: pip, Right: t.Other(pip)})
	}
	return Board{Tiles: nt}, nil
}

// Valid checks the adjacency invariant.
func (b Board) Valid() bool {
	for i := 1; i < len(b.Tiles); i++ {
		if b.Tiles[i-1].Right != b.Tiles[i].Left {
			return false
		}
	}
	return true
}

// TileSet returns the tiles on the board without orientation.
func (b Board) TileSet() []tiles.Tile {
	ts := make([]tiles.Tile, len(b.Tiles))
	for i, p := range b.Tiles {
		ts[i] = p.Tile()
	}
	return ts
}

func (b Board) Copy() Board {
	return Board{Tiles: append([]Placed(nil), b.Tiles...)}
}

func (b Board) ToDisplayText() string {
	if b.IsEmpty() {
		return "(empty)"
	}
	var sb strings.Builder
	for _, p := range b.Tiles {
		sb.WriteString(p.String())
	}
	return sb.String()
}
