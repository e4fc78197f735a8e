package game

import (
	"fmt"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/move"
	"github.com/domino14/dominoes/tiles"
)

// Event is one accepted action. Tile and End are only meaningful for the
// action types that carry them; a pass has neither.
type Event struct {
	Turn   int           `json:"turn"`
	Player Player        `json:"player"`
	Type   move.MoveType `json:"type"`
	Tile   tiles.Tile    `json:"tile"`
	End    board.End     `json:"end"`
}

func (e Event) String() string {
	var what string
	switch e.Type {
	case move.MoveTypePlay:
		what = fmt.Sprintf("plays %v on the %v", e.Tile, e.End)
	case move.MoveTypeDraw:
		what = "draws"
		if e.Player == PlayerHuman {
			what = fmt.Sprintf("draws %v", e.Tile)
		}
	case move.MoveTypePass:
		what = "passes"
	}
	return fmt.Sprintf("%3d. %-5s %s", e.Turn+1, e.Player, what)
}

// addEvent appends e to a private copy of the history, so states that share
// a backing array never see each other's events.
func (s State) addEvent(p Player, m move.Move) State {
	h := make([]Event, len(s.History), len(s.History)+1)
	copy(h, s.History)
	s.History = append(h, Event{
		Turn:   s.Turn,
		Player: p,
		Type:   m.Action(),
		Tile:   m.Tile(),
		End:    m.End(),
	})
	s.Turn++
	return s
}
