package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/minimax"
	"github.com/domino14/dominoes/move"
	"github.com/domino14/dominoes/movegen"
	"github.com/domino14/dominoes/tiles"
)

// MoveChooser picks the computer's play. It returns
// minimax.ErrNoMoveAvailable when aiHand has nothing to play.
type MoveChooser interface {
	ChooseMove(ctx context.Context, b board.Board, aiHand, oppHand tiles.Hand,
		stock tiles.Stock) (move.Move, error)
}

// AITurnReport says what the computer did on its turn.
type AITurnReport struct {
	Drawn  []tiles.Tile
	Played *move.Move
	Passed bool
}

func (r AITurnReport) String() string {
	var desc string
	if len(r.Drawn) > 0 {
		desc = fmt.Sprintf("drew %d tile(s), ", len(r.Drawn))
	}
	switch {
	case r.Played != nil:
		desc += "played " + r.Played.ShortDescription()
	case r.Passed:
		desc += "passed"
	default:
		desc += "could not move"
	}
	return desc
}

func checkTurn(s State, p Player) error {
	if st := GameStatus(s); st.Over() {
		return fmt.Errorf("%w: the game is over (%v)", ErrInvalidState, st)
	}
	if s.OnTurn != p {
		return fmt.Errorf("%w: it is not the %v's turn", ErrInvalidState, p)
	}
	return nil
}

// play moves tile t from p's hand to end e. t must be in the hand.
func (s State) play(p Player, t tiles.Tile, e board.End) (State, error) {
	nb, err := s.Board.Place(t, e)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}
	s.Board = nb
	s.Hands[p] = s.Hands[p].Remove(t)
	s = s.addEvent(p, move.NewPlayMove(t, e))
	if !GameStatus(s).Over() {
		s.OnTurn = p.Other()
	}
	log.Debug().Str("player", p.String()).Str("tile", t.String()).
		Str("end", e.String()).Str("board", s.Board.ToDisplayText()).Msg("played")
	return s, nil
}

func (s State) draw(p Player) (State, tiles.Tile, error) {
	t, rest, err := s.Stock.Draw()
	if err != nil {
		return s, t, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	s.Stock = rest
	s.Hands[p] = s.Hands[p].Add(t)
	s = s.addEvent(p, move.NewDrawMove(t))
	log.Debug().Str("player", p.String()).Int("stock", len(s.Stock)).Msg("drew")
	return s, t, nil
}

func (s State) pass(p Player) State {
	s = s.addEvent(p, move.NewPassMove())
	s.OnTurn = p.Other()
	log.Debug().Str("player", p.String()).Msg("passed")
	return s
}

// ApplyPlayerMove plays the human's tile at hand position tileIndex onto
// end e. On any error the returned state is s, unchanged.
func ApplyPlayerMove(s State, tileIndex int, e board.End) (State, error) {
	if err := checkTurn(s, PlayerHuman); err != nil {
		return s, err
	}
	hand := s.Hands[PlayerHuman]
	if tileIndex < 0 || tileIndex >= len(hand) {
		return s, fmt.Errorf("%w: no tile at position %d", ErrIllegalMove, tileIndex+1)
	}
	t := hand[tileIndex]
	if !s.Board.IsLegal(t, e) {
		return s, fmt.Errorf("%w: %v does not fit the %v end", ErrIllegalMove, t, e)
	}
	return s.play(PlayerHuman, t, e)
}

// PlayerDraw takes one tile from the stock for the human, who must have no
// legal play. The human stays on turn.
func PlayerDraw(s State) (State, error) {
	if err := checkTurn(s, PlayerHuman); err != nil {
		return s, err
	}
	if movegen.HasAnyLegalMove(s.Board, s.Hands[PlayerHuman]) {
		return s, fmt.Errorf("%w: you have a legal play", ErrInvalidState)
	}
	ns, _, err := s.draw(PlayerHuman)
	if err != nil {
		return s, err
	}
	return ns, nil
}

// PlayerPass gives the turn to the computer. It is only allowed when the
// human cannot play and the stock is empty.
func PlayerPass(s State) (State, error) {
	if err := checkTurn(s, PlayerHuman); err != nil {
		return s, err
	}
	if movegen.HasAnyLegalMove(s.Board, s.Hands[PlayerHuman]) {
		return s, fmt.Errorf("%w: you have a legal play", ErrInvalidState)
	}
	if len(s.Stock) > 0 {
		return s, fmt.Errorf("%w: you must draw while the stock has tiles", ErrInvalidState)
	}
	return s.pass(PlayerHuman), nil
}

// RunAITurn plays one full computer turn. While the computer has no play it
// draws from the stock. With the stock empty it passes, unless the human
// cannot play either; then the game is a draw and the hands are untouched.
func RunAITurn(ctx context.Context, s State, chooser MoveChooser) (State, AITurnReport, error) {
	var report AITurnReport
	if len(s.Hands[PlayerHuman]) == 0 || len(s.Hands[PlayerAI]) == 0 {
		return s, report, fmt.Errorf("%w: the game is over (%v)", ErrInvalidState, GameStatus(s))
	}
	if s.OnTurn != PlayerAI {
		return s, report, fmt.Errorf("%w: it is not the ai's turn", ErrInvalidState)
	}
	orig := s
	for {
		m, err := chooser.ChooseMove(ctx, s.Board, s.Hands[PlayerAI], s.Hands[PlayerHuman], s.Stock)
		if err == nil {
			if m.Action() != move.MoveTypePlay || !s.Hands[PlayerAI].Has(m.Tile()) {
				return orig, AITurnReport{}, fmt.Errorf("%w: chooser returned %v", ErrIllegalMove, m)
			}
			ns, err := s.play(PlayerAI, m.Tile(), m.End())
			if err != nil {
				return orig, AITurnReport{}, err
			}
			report.Played = &m
			return ns, report, nil
		}
		if !errors.Is(err, minimax.ErrNoMoveAvailable) {
			return orig, AITurnReport{}, err
		}
		if len(s.Stock) > 0 {
			var t tiles.Tile
			s, t, _ = s.draw(PlayerAI)
			report.Drawn = append(report.Drawn, t)
			continue
		}
		if !movegen.HasAnyLegalMove(s.Board, s.Hands[PlayerHuman]) {
			log.Debug().Msg("blocked-game")
			return s, report, nil
		}
		report.Passed = true
		return s.pass(PlayerAI), report, nil
	}
}
