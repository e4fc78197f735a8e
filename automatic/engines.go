package automatic

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/minimax"
	"github.com/domino14/dominoes/move"
	"github.com/domino14/dominoes/movegen"
	"github.com/domino14/dominoes/tiles"
)

const (
	RandomPlayer = "random"
)

// PlayerSpec names an engine. It looks like "pass", "extreme:2" or
// "random": a stuck policy with an optional search depth, or the random
// engine.
type PlayerSpec struct {
	Random bool
	Policy minimax.StuckPolicy
	Depth  int
}

func ParsePlayerSpec(s string, defaultDepth int) (PlayerSpec, error) {
	name, depthStr, hasDepth := strings.Cut(strings.ToLower(s), ":")
	if name == RandomPlayer {
		if hasDepth {
			return PlayerSpec{}, fmt.Errorf("the random player takes no depth")
		}
		return PlayerSpec{Random: true}, nil
	}
	p, err := minimax.ParseStuckPolicy(name)
	if err != nil {
		return PlayerSpec{}, err
	}
	spec := PlayerSpec{Policy: p, Depth: defaultDepth}
	if hasDepth {
		spec.Depth, err = strconv.Atoi(depthStr)
		if err != nil {
			return PlayerSpec{}, fmt.Errorf("bad depth in %q: %w", s, err)
		}
	}
	return spec, nil
}

func (p PlayerSpec) String() string {
	if p.Random {
		return RandomPlayer
	}
	return fmt.Sprintf("%v:%d", p.Policy, p.Depth)
}

// engine picks a move for whoever holds ourHand.
type engine interface {
	ChooseMove(ctx context.Context, b board.Board, ourHand, theirHand tiles.Hand,
		stock tiles.Stock) (move.Move, error)
	// reseed is called before every game.
	reseed(seed int64)
}

type searchEngine struct {
	*minimax.Solver
}

func (e searchEngine) reseed(int64) {}

// randomEngine plays a uniformly random legal move.
type randomEngine struct {
	rng *rand.Rand
}

func (e *randomEngine) reseed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

func (e *randomEngine) ChooseMove(ctx context.Context, b board.Board, ourHand, theirHand tiles.Hand,
	stock tiles.Stock) (move.Move, error) {

	moves := movegen.LegalMoves(b, ourHand)
	if len(moves) == 0 {
		return move.Move{}, minimax.ErrNoMoveAvailable
	}
	return moves[e.rng.Intn(len(moves))], nil
}

func newEngine(spec PlayerSpec, memoFraction float64) (engine, error) {
	if spec.Random {
		e := &randomEngine{}
		e.reseed(1)
		return e, nil
	}
	s := &minimax.Solver{}
	s.Init()
	if err := s.SetDepth(spec.Depth); err != nil {
		return nil, err
	}
	s.SetStuckPolicy(spec.Policy)
	if memoFraction > 0 {
		s.SetMemoryFraction(memoFraction)
	} else {
		s.SetMemoization(false)
	}
	return searchEngine{s}, nil
}
