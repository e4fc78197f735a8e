// Package turnplayer drives a game between a human and the computer for a
// user interface: the human acts, and the computer answers right away.
package turnplayer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/game"
	"github.com/domino14/dominoes/minimax"
	"github.com/domino14/dominoes/move"
	"github.com/domino14/dominoes/movegen"
	"github.com/domino14/dominoes/tiles"
)

// DirectionChooser asks the human which end to play a tile on when it fits
// both. It may block.
type DirectionChooser interface {
	ChooseDirection(b board.Board, t tiles.Tile) (board.End, error)
}

// DirectionChooserFunc adapts a function to a DirectionChooser.
type DirectionChooserFunc func(b board.Board, t tiles.Tile) (board.End, error)

func (f DirectionChooserFunc) ChooseDirection(b board.Board, t tiles.Tile) (board.End, error) {
	return f(b, t)
}

type TurnPlayer struct {
	state   game.State
	solver  *minimax.Solver
	chooser DirectionChooser
	opts    *GameOptions
}

// NewTurnPlayer deals a new game using opts.Seed.
func NewTurnPlayer(opts *GameOptions, chooser DirectionChooser) (*TurnPlayer, error) {
	solver, err := opts.NewSolver()
	if err != nil {
		return nil, err
	}
	p := &TurnPlayer{solver: solver, chooser: chooser, opts: opts}
	p.state = game.NewGame(opts.Seed)
	return p, nil
}

// NewGame throws away the current game and deals another.
func (p *TurnPlayer) NewGame(seed int64) {
	p.state = game.NewGame(seed)
}

func (p *TurnPlayer) State() game.State {
	return p.state
}

// SetState replaces the current game, for instance with one built by
// game.NewFromPosition.
func (p *TurnPlayer) SetState(s game.State) {
	p.state = s
}

func (p *TurnPlayer) Solver() *minimax.Solver {
	return p.solver
}

func (p *TurnPlayer) Options() *GameOptions {
	return p.opts
}

// ApplyOptions reconfigures the solver after opts has changed.
func (p *TurnPlayer) ApplyOptions() error {
	return p.opts.Configure(p.solver)
}

func (p *TurnPlayer) Status() game.Status {
	return game.GameStatus(p.state)
}

func (p *TurnPlayer) ToDisplayText() string {
	return p.state.ToDisplayText()
}

// PlayTile plays the tile at hand position idx (0-based). If it fits only
// one end it goes there; if it fits both, the direction chooser decides.
// The computer then replies, and its report is returned (nil if the game
// ended with the human's play).
func (p *TurnPlayer) PlayTile(ctx context.Context, idx int) (*game.AITurnReport, error) {
	hand := p.state.Hand(game.PlayerHuman)
	if idx < 0 || idx >= len(hand) {
		return nil, fmt.Errorf("%w: no tile at position %d", game.ErrIllegalMove, idx+1)
	}
	t := hand[idx]
	ends := movegen.LegalEnds(p.state.Board, t)
	var end board.End
	switch {
	case len(ends) == 0:
		return nil, fmt.Errorf("%w: %v does not fit either end", game.ErrIllegalMove, t)
	case len(ends) == 1 || p.state.Board.IsEmpty():
		// on an empty board both ends give the same line
		end = ends[0]
	default:
		if p.chooser == nil {
			return nil, fmt.Errorf("%w: %v fits both ends; say which", game.ErrIllegalMove, t)
		}
		var err error
		end, err = p.chooser.ChooseDirection(p.state.Board, t)
		if err != nil {
			return nil, err
		}
	}
	return p.PlayTileAt(ctx, idx, end)
}

// PlayTileAt plays the tile at hand position idx on end e, then lets the
// computer reply.
func (p *TurnPlayer) PlayTileAt(ctx context.Context, idx int, e board.End) (*game.AITurnReport, error) {
	s, err := game.ApplyPlayerMove(p.state, idx, e)
	if err != nil {
		return nil, err
	}
	p.state = s
	return p.aiReply(ctx)
}

// Draw takes a tile from the stock for the human. The human stays on turn.
func (p *TurnPlayer) Draw() (tiles.Tile, error) {
	s, err := game.PlayerDraw(p.state)
	if err != nil {
		return tiles.Tile{}, err
	}
	p.state = s
	h := s.Hand(game.PlayerHuman)
	return h[len(h)-1], nil
}

// Pass passes the human's turn and lets the computer reply.
func (p *TurnPlayer) Pass(ctx context.Context) (*game.AITurnReport, error) {
	s, err := game.PlayerPass(p.state)
	if err != nil {
		return nil, err
	}
	p.state = s
	return p.aiReply(ctx)
}

func (p *TurnPlayer) aiReply(ctx context.Context) (*game.AITurnReport, error) {
	if p.state.OnTurn != game.PlayerAI || game.GameStatus(p.state).Over() {
		return nil, nil
	}
	s, report, err := game.RunAITurn(ctx, p.state, p.solver)
	if err != nil {
		return nil, err
	}
	p.state = s
	log.Debug().Str("report", report.String()).Str("status", game.GameStatus(s).String()).
		Msg("ai-replied")
	return &report, nil
}

// Hint returns the play the solver would make in the human's seat.
func (p *TurnPlayer) Hint(ctx context.Context) (move.Move, error) {
	s := p.state
	return p.solver.ChooseMove(ctx, s.Board, s.Hand(game.PlayerHuman), s.Hand(game.PlayerAI), s.Stock)
}

// Evaluate scores every legal play for the human.
func (p *TurnPlayer) Evaluate(ctx context.Context) ([]minimax.Candidate, error) {
	s := p.state
	return p.solver.Evaluate(ctx, minimax.Position{
		Board:   s.Board,
		AIHand:  s.Hand(game.PlayerHuman),
		OppHand: s.Hand(game.PlayerAI),
		Stock:   s.Stock,
	})
}
