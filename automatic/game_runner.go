// Package automatic plays the computer against itself, so different
// search settings can be compared over many games.
package automatic

import (
	"context"
	"errors"
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/domino14/dominoes/config"
	"github.com/domino14/dominoes/game"
	"github.com/domino14/dominoes/minimax"
	"github.com/domino14/dominoes/move"
)

// maxSteps bounds a single game. A game can't legitimately get near it:
// every tile is drawn at most once and played at most once, and passes
// alternate with moves.
const maxSteps = 200

var errRunaway = errors.New("game did not finish")

// GameResult is the outcome of one game from player 1's point of view.
type GameResult struct {
	GameID  string
	GameNum int
	Seed   int64
	// P1First is true when player 1 sat in the first seat.
	P1First bool
	Status  game.Status
	// Winner is 1 or 2, or 0 for a draw.
	Winner int
	// Margin is player 2's tiles left minus player 1's.
	Margin int
	Turns  int
}

// GameRunner is the master struct here for the automatic game logic.
type GameRunner struct {
	config  *config.Config
	logchan chan string
	players [2]PlayerSpec
	engines [2]engine

	state   game.State
	p1First bool
}

// NewGameRunner just instantiates and initializes a game runner, pitting
// the configured stuck policy against itself.
func NewGameRunner(logchan chan string, cfg *config.Config) *GameRunner {
	r := &GameRunner{logchan: logchan, config: cfg}
	name := cfg.GetString(config.ConfigSearchStuckPolicy)
	if err := r.Init(name, name); err != nil {
		log.Err(err).Msg("game-runner-init")
	}
	return r
}

// Init sets up the two engines from player specs such as "pass:3".
func (r *GameRunner) Init(player1, player2 string) error {
	depth := r.config.GetInt(config.ConfigSearchDepth)
	memoFraction := -1.0
	if r.config.GetBool(config.ConfigSearchMemo) {
		memoFraction = r.config.GetFloat64(config.ConfigSearchMemoMemoryFraction)
	}
	for i, name := range []string{player1, player2} {
		spec, err := ParsePlayerSpec(name, depth)
		if err != nil {
			return err
		}
		e, err := newEngine(spec, memoFraction)
		if err != nil {
			return err
		}
		r.players[i] = spec
		r.engines[i] = e
	}
	return nil
}

func (r *GameRunner) Players() [2]PlayerSpec {
	return r.players
}

// State is the position of the game being played, or the final position of
// the last one.
func (r *GameRunner) State() game.State {
	return r.state
}

// GameSeed derives a deal seed from a batch seed and a game number, so a
// batch can be replayed game by game.
func GameSeed(batch uint64, gameNum int) int64 {
	h := xxhash.Sum64String(fmt.Sprintf("%d/%d", batch, gameNum))
	// keep it positive and non-zero
	return int64(h>>1) | 1
}

// seatOf returns the seat player idx (0 or 1) occupies.
func seatOf(idx int, p1First bool) game.Player {
	if (idx == 0) == p1First {
		return game.PlayerHuman
	}
	return game.PlayerAI
}

// PlayGame plays one game to the end. Player 1 takes the first seat when
// p1First is set.
func (r *GameRunner) PlayGame(ctx context.Context, gameID string, seed int64,
	p1First bool) (GameResult, error) {

	r.state = game.NewGame(seed)
	r.p1First = p1First
	for i := range r.engines {
		r.engines[i].reseed(seed + int64(i))
	}
	// engine for each seat
	var seats [2]int
	for i := range seats {
		seats[seatOf(i, p1First)] = i
	}

	for step := 0; !game.GameStatus(r.state).Over(); step++ {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		if step >= maxSteps {
			return GameResult{}, fmt.Errorf("%w: %s after %d steps", errRunaway, gameID, step)
		}
		seat := r.state.OnTurn
		idx := seats[seat]
		before := r.state
		var err error
		if seat == game.PlayerHuman {
			r.state, err = r.humanSeatTurn(ctx, idx)
		} else {
			r.state, _, err = game.RunAITurn(ctx, r.state, r.engines[idx])
		}
		if err != nil {
			return GameResult{}, err
		}
		if err := r.state.CheckPartition(); err != nil {
			return GameResult{}, fmt.Errorf("%s step %d: %w", gameID, step, err)
		}
		r.logEvents(gameID, before, idx)
	}

	res := GameResult{
		GameID:  gameID,
		Seed:    seed,
		P1First: p1First,
		Status:  game.GameStatus(r.state),
		Turns:   r.state.Turn,
	}
	p1Seat, p2Seat := seatOf(0, p1First), seatOf(1, p1First)
	res.Margin = len(r.state.Hand(p2Seat)) - len(r.state.Hand(p1Seat))
	switch res.Status {
	case game.PlayerWins:
		res.Winner = seatWinner(game.PlayerHuman, p1Seat)
	case game.AIWins:
		res.Winner = seatWinner(game.PlayerAI, p1Seat)
	}
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%s,%d,,end,%v,,%d,%d,%d\n", gameID, r.state.Turn,
			res.Status, len(r.state.Hand(p1Seat)), len(r.state.Hand(p2Seat)), len(r.state.Stock))
	}
	log.Debug().Str("game", gameID).Str("status", res.Status.String()).
		Int("margin", res.Margin).Msg("game-over")
	return res, nil
}

func seatWinner(winningSeat, p1Seat game.Player) int {
	if winningSeat == p1Seat {
		return 1
	}
	return 2
}

// humanSeatTurn drives the first seat through the same actions a person
// would take: play, else draw, else pass.
func (r *GameRunner) humanSeatTurn(ctx context.Context, idx int) (game.State, error) {
	s := r.state
	hand := s.Hand(game.PlayerHuman)
	m, err := r.engines[idx].ChooseMove(ctx, s.Board, hand, s.Hand(game.PlayerAI), s.Stock)
	switch {
	case err == nil:
		return game.ApplyPlayerMove(s, hand.IndexOf(m.Tile()), m.End())
	case errors.Is(err, minimax.ErrNoMoveAvailable) && len(s.Stock) > 0:
		return game.PlayerDraw(s)
	case errors.Is(err, minimax.ErrNoMoveAvailable):
		return game.PlayerPass(s)
	}
	return s, err
}

// logEvents sends every event added since before to the log channel, as
// CSV rows:
// gameID,turn,player,action,tile,end,p1tiles,p2tiles,stock
func (r *GameRunner) logEvents(gameID string, before game.State, idx int) {
	if r.logchan == nil {
		return
	}
	p1Seat := seatOf(0, r.p1First)
	for _, e := range r.state.History[len(before.History):] {
		var tile, end string
		switch e.Type {
		case move.MoveTypePlay:
			tile, end = e.Tile.String(), e.End.String()
		case move.MoveTypeDraw:
			tile = e.Tile.String()
		}
		r.logchan <- fmt.Sprintf("%s,%d,p%d,%v,%s,%s,%d,%d,%d\n",
			gameID, e.Turn, idx+1, e.Type, tile, end,
			len(r.state.Hand(p1Seat)), len(r.state.Hand(p1Seat.Other())), len(r.state.Stock))
	}
}
