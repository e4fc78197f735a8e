// Package game holds the rules of a two-player domino game between a
// human and the computer. Every operation takes a State and returns a new
// one; a State is never modified in place.
package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/movegen"
	"github.com/domino14/dominoes/tiles"
)

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrInvalidState = errors.New("action not allowed now")
)

type State struct {
	Board   board.Board   `json:"board"`
	Hands   [2]tiles.Hand `json:"hands"`
	Stock   tiles.Stock   `json:"stock"`
	OnTurn  Player        `json:"onturn"`
	Turn    int           `json:"turn"`
	Seed    int64         `json:"seed,omitempty"`
	History []Event       `json:"history,omitempty"`
}

// NewGame shuffles and deals a new game. The same non-zero seed always
// deals the same game; seed 0 picks one at random. The human moves first.
func NewGame(seed int64) State {
	if seed == 0 {
		seed = int64(frand.Uint64n(1<<62)) + 1
	}
	rng := rand.New(rand.NewSource(seed))
	human, ai, stock := tiles.Deal(rng)
	log.Debug().Int64("seed", seed).Str("human", human.String()).
		Int("stock", len(stock)).Msg("new-game")
	return State{
		Hands:  [2]tiles.Hand{human, ai},
		Stock:  stock,
		OnTurn: PlayerHuman,
		Seed:   seed,
	}
}

// NewFromPosition builds a state out of explicit parts. The tiles need not
// add up to a full set, but no tile may appear twice.
func NewFromPosition(b board.Board, human, ai tiles.Hand, stock tiles.Stock,
	onTurn Player) (State, error) {

	if !b.Valid() {
		return State{}, fmt.Errorf("%w: board is not a connected line", ErrInvalidState)
	}
	if onTurn != PlayerHuman && onTurn != PlayerAI {
		return State{}, fmt.Errorf("%w: bad player %d", ErrInvalidState, onTurn)
	}
	s := State{
		Board:  b.Copy(),
		Hands:  [2]tiles.Hand{human.Copy(), ai.Copy()},
		Stock:  stock.Copy(),
		OnTurn: onTurn,
	}
	if _, err := s.tileCounts(); err != nil {
		return State{}, err
	}
	return s, nil
}

// Copy returns a deep copy.
func (s State) Copy() State {
	c := s
	c.Board = s.Board.Copy()
	c.Hands = [2]tiles.Hand{s.Hands[0].Copy(), s.Hands[1].Copy()}
	c.Stock = s.Stock.Copy()
	if s.History != nil {
		c.History = make([]Event, len(s.History))
		copy(c.History, s.History)
	}
	return c
}

func (s State) Hand(p Player) tiles.Hand {
	return s.Hands[p]
}

// Blocked is true when the stock is empty and neither hand can play.
func (s State) Blocked() bool {
	return len(s.Stock) == 0 &&
		!movegen.HasAnyLegalMove(s.Board, s.Hands[PlayerHuman]) &&
		!movegen.HasAnyLegalMove(s.Board, s.Hands[PlayerAI])
}

// GameStatus works the status out from the position alone.
func GameStatus(s State) Status {
	switch {
	case len(s.Hands[PlayerHuman]) == 0:
		return PlayerWins
	case len(s.Hands[PlayerAI]) == 0:
		return AIWins
	case s.Blocked():
		return Draw
	}
	return InProgress
}

func (s State) Status() Status {
	return GameStatus(s)
}

// tileCounts counts every tile in the state by index, failing on the first
// duplicate.
func (s State) tileCounts() ([tiles.FullSetSize]bool, error) {
	var seen [tiles.FullSetSize]bool
	check := func(where string, ts []tiles.Tile) error {
		for _, t := range ts {
			if !t.Valid() {
				return fmt.Errorf("%w: %v in %s", tiles.ErrBadTile, t, where)
			}
			if seen[t.Index()] {
				return fmt.Errorf("%w: %v appears twice (again in %s)", ErrInvalidState, t, where)
			}
			seen[t.Index()] = true
		}
		return nil
	}
	if err := check("board", s.Board.TileSet()); err != nil {
		return seen, err
	}
	if err := check("human hand", s.Hands[PlayerHuman]); err != nil {
		return seen, err
	}
	if err := check("ai hand", s.Hands[PlayerAI]); err != nil {
		return seen, err
	}
	if err := check("stock", s.Stock); err != nil {
		return seen, err
	}
	return seen, nil
}

// CheckPartition verifies that the board, both hands and the stock hold
// every tile of the set exactly once.
func (s State) CheckPartition() error {
	seen, err := s.tileCounts()
	if err != nil {
		return err
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: %v is missing", ErrInvalidState, tiles.FullSet()[i])
		}
	}
	if !s.Board.Valid() {
		return fmt.Errorf("%w: board is not a connected line", ErrInvalidState)
	}
	return nil
}

// IndexedMove is a legal play for the human, naming the tile by its
// position in the hand.
type IndexedMove struct {
	TileIndex int       `json:"tile-index"`
	End       board.End `json:"end"`
}

// PlayerLegalMoves lists the human's legal plays, in hand order and left
// before right.
func PlayerLegalMoves(s State) []IndexedMove {
	var ims []IndexedMove
	for i, t := range s.Hands[PlayerHuman] {
		for _, e := range movegen.LegalEnds(s.Board, t) {
			ims = append(ims, IndexedMove{TileIndex: i, End: e})
		}
	}
	return ims
}
