package move

import (
	"fmt"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/tiles"
)

// MoveType is a type of move; a play, a draw from the stock, or a pass.
type MoveType uint8

const (
	MoveTypePlay MoveType = iota
	MoveTypeDraw
	MoveTypePass
)

func (t MoveType) String() string {
	switch t {
	case MoveTypePlay:
		return "play"
	case MoveTypeDraw:
		return "draw"
	case MoveTypePass:
		return "pass"
	}
	return "unknown"
}

func (t MoveType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *MoveType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "play":
		*t = MoveTypePlay
	case "draw":
		*t = MoveTypeDraw
	case "pass":
		*t = MoveTypePass
	default:
		return fmt.Errorf("unknown move type %q", string(b))
	}
	return nil
}

// Move is a single action. For a play, the tile and the end it goes on; for
// a draw, the tile drawn. A pass carries nothing.
type Move struct {
	action MoveType
	tile   tiles.Tile
	end    board.End
}

func NewPlayMove(t tiles.Tile, e board.End) Move {
	return Move{action: MoveTypePlay, tile: t, end: e}
}

func NewDrawMove(t tiles.Tile) Move {
	return Move{action: MoveTypeDraw, tile: t}
}

func NewPassMove() Move {
	return Move{action: MoveTypePass}
}

func (m Move) Action() MoveType {
	return m.action
}

func (m Move) Tile() tiles.Tile {
	return m.tile
}

func (m Move) End() board.End {
	return m.end
}

// ShortDescription provides a short description, useful for logging or
// user display.
func (m Move) ShortDescription() string {
	switch m.action {
	case MoveTypePlay:
		return fmt.Sprintf("%v %v", m.tile, m.end)
	case MoveTypeDraw:
		return fmt.Sprintf("(draw %v)", m.tile)
	case MoveTypePass:
		return "(pass)"
	}
	return "UNHANDLED"
}

// String provides a string just for debugging purposes.
func (m Move) String() string {
	return fmt.Sprintf("<action: %v %v>", m.action, m.ShortDescription())
}
