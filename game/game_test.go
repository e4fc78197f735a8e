package game

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/minimax"
	"github.com/domino14/dominoes/move"
	"github.com/domino14/dominoes/tiles"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newSolver(depth int) *minimax.Solver {
	s := &minimax.Solver{}
	s.Init()
	if err := s.SetDepth(depth); err != nil {
		panic(err)
	}
	return s
}

func mustPosition(b board.Board, human, ai string, stock string, onTurn Player) State {
	s, err := NewFromPosition(b, tiles.MustHand(human), tiles.MustHand(ai),
		tiles.Stock(tiles.MustHand(stock)), onTurn)
	if err != nil {
		panic(err)
	}
	return s
}

func twoFive() board.Board {
	b, err := board.FromPlaced(board.Placed{Left: 2, Right: 5})
	if err != nil {
		panic(err)
	}
	return b
}

// scripted returns the moves it was given, in order, then reports no move.
type scripted struct {
	moves []move.Move
}

func (c *scripted) ChooseMove(ctx context.Context, b board.Board, aiHand, oppHand tiles.Hand,
	stock tiles.Stock) (move.Move, error) {

	if len(c.moves) == 0 {
		return move.Move{}, minimax.ErrNoMoveAvailable
	}
	m := c.moves[0]
	c.moves = c.moves[1:]
	return m, nil
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	s := NewGame(42)
	is.NoErr(s.CheckPartition())
	is.Equal(len(s.Hands[PlayerHuman]), tiles.HandSize)
	is.Equal(len(s.Hands[PlayerAI]), tiles.HandSize)
	is.Equal(len(s.Stock), tiles.FullSetSize-2*tiles.HandSize)
	is.True(s.Board.IsEmpty())
	is.Equal(s.OnTurn, PlayerHuman)
	is.Equal(GameStatus(s), InProgress)

	again := NewGame(42)
	is.Equal(again.Hands, s.Hands)
	is.Equal(again.Stock, s.Stock)

	random := NewGame(0)
	is.True(random.Seed != 0)
	is.NoErr(random.CheckPartition())
}

func TestOnlyMatchingTileIsLegal(t *testing.T) {
	is := is.New(t)
	s := mustPosition(twoFive(), "5|1 0|0", "6|6 4|4", "3|3", PlayerHuman)

	is.Equal(PlayerLegalMoves(s), []IndexedMove{{TileIndex: 0, End: board.Right}})

	ns, err := ApplyPlayerMove(s, 1, board.Left)
	is.True(errors.Is(err, ErrIllegalMove))
	is.Equal(ns.Board.ToDisplayText(), "[2|5]")
	is.Equal(ns.Hands[PlayerHuman], s.Hands[PlayerHuman])

	_, err = ApplyPlayerMove(s, 0, board.Left)
	is.True(errors.Is(err, ErrIllegalMove))
	_, err = ApplyPlayerMove(s, 5, board.Right)
	is.True(errors.Is(err, ErrIllegalMove))

	ns, err = ApplyPlayerMove(s, 0, board.Right)
	is.NoErr(err)
	is.Equal(ns.Board.ToDisplayText(), "[2|5][5|1]")
	is.Equal(ns.Hands[PlayerHuman], tiles.MustHand("0|0"))
	is.Equal(ns.OnTurn, PlayerAI)
	is.Equal(len(ns.History), 1)
	is.Equal(ns.History[0].Type, move.MoveTypePlay)
	// the original is untouched
	is.Equal(s.Board.ToDisplayText(), "[2|5]")
	is.Equal(len(s.History), 0)
}

func TestDrawWhenStuck(t *testing.T) {
	is := is.New(t)
	s := mustPosition(twoFive(), "0|0", "6|6", "1|3 4|4", PlayerHuman)

	_, err := PlayerPass(s)
	is.True(errors.Is(err, ErrInvalidState))

	ns, err := PlayerDraw(s)
	is.NoErr(err)
	is.Equal(len(ns.Hands[PlayerHuman]), 2)
	is.Equal(ns.Hands[PlayerHuman][1], tiles.MustParse("1|3"))
	is.Equal(len(ns.Stock), 1)
	is.Equal(ns.OnTurn, PlayerHuman)

	// can't draw while holding a legal tile
	withPlay := mustPosition(twoFive(), "5|1", "6|6", "1|3", PlayerHuman)
	_, err = PlayerDraw(withPlay)
	is.True(errors.Is(err, ErrInvalidState))
}

func TestPassOnlyWithEmptyStock(t *testing.T) {
	is := is.New(t)
	s := mustPosition(twoFive(), "0|0", "6|5", "", PlayerHuman)
	_, err := PlayerDraw(s)
	is.True(errors.Is(err, ErrInvalidState))
	is.True(errors.Is(err, tiles.ErrEmptyStock))

	ns, err := PlayerPass(s)
	is.NoErr(err)
	is.Equal(ns.OnTurn, PlayerAI)
	is.Equal(ns.History[0].Type, move.MoveTypePass)
}

func TestBlockedIsDraw(t *testing.T) {
	is := is.New(t)
	s := mustPosition(twoFive(), "0|0 1|1", "6|6", "", PlayerAI)
	ns, report, err := RunAITurn(context.Background(), s, newSolver(3))
	is.NoErr(err)
	is.Equal(GameStatus(ns), Draw)
	is.Equal(ns.Hands, s.Hands)
	is.True(report.Played == nil)
	is.True(!report.Passed)
	is.Equal(len(report.Drawn), 0)

	// nothing else is allowed afterwards
	_, err = PlayerPass(ns)
	is.True(errors.Is(err, ErrInvalidState))
}

func TestAIPassesWhenHumanCanPlay(t *testing.T) {
	is := is.New(t)
	s := mustPosition(twoFive(), "5|1", "6|6", "", PlayerAI)
	ns, report, err := RunAITurn(context.Background(), s, newSolver(3))
	is.NoErr(err)
	is.True(report.Passed)
	is.Equal(ns.OnTurn, PlayerHuman)
	is.Equal(GameStatus(ns), InProgress)
}

func TestAIDrawsUntilItCanPlay(t *testing.T) {
	is := is.New(t)
	s := mustPosition(twoFive(), "4|4", "0|0", "1|1 2|6 3|3", PlayerAI)
	ns, report, err := RunAITurn(context.Background(), s, newSolver(3))
	is.NoErr(err)
	is.Equal(report.Drawn, []tiles.Tile{tiles.MustParse("1|1"), tiles.MustParse("2|6")})
	is.True(report.Played != nil)
	is.Equal(report.Played.Tile(), tiles.MustParse("2|6"))
	is.Equal(ns.Board.ToDisplayText(), "[6|2][2|5]")
	is.Equal(ns.Hands[PlayerAI], tiles.MustHand("0|0 1|1"))
	is.Equal(ns.Stock, tiles.Stock(tiles.MustHand("3|3")))
	is.Equal(ns.OnTurn, PlayerHuman)
	is.Equal(len(ns.History), 3)
}

func TestAIOpensWithDouble(t *testing.T) {
	is := is.New(t)
	s := mustPosition(board.Board{}, "0|1 2|4", "3|3", "", PlayerAI)
	ns, report, err := RunAITurn(context.Background(), s, newSolver(3))
	is.NoErr(err)
	is.Equal(report.Played.Tile(), tiles.MustParse("3|3"))
	is.Equal(ns.Board.ToDisplayText(), "[3|3]")
	is.Equal(GameStatus(ns), AIWins)
}

func TestWinEndsGame(t *testing.T) {
	is := is.New(t)
	s := mustPosition(twoFive(), "5|3", "6|6 0|0", "1|1", PlayerHuman)
	ns, err := ApplyPlayerMove(s, 0, board.Right)
	is.NoErr(err)
	is.Equal(GameStatus(ns), PlayerWins)
	is.Equal(ns.OnTurn, PlayerHuman)

	_, _, err = RunAITurn(context.Background(), ns, newSolver(3))
	is.True(errors.Is(err, ErrInvalidState))
	_, err = PlayerDraw(ns)
	is.True(errors.Is(err, ErrInvalidState))
}

func TestOutOfTurn(t *testing.T) {
	is := is.New(t)
	s := mustPosition(twoFive(), "5|3 0|0", "6|6 0|2", "1|1", PlayerAI)
	_, err := ApplyPlayerMove(s, 0, board.Right)
	is.True(errors.Is(err, ErrInvalidState))

	s.OnTurn = PlayerHuman
	_, _, err = RunAITurn(context.Background(), s, newSolver(3))
	is.True(errors.Is(err, ErrInvalidState))
}

func TestBadChooserMoveRejected(t *testing.T) {
	is := is.New(t)
	s := mustPosition(twoFive(), "5|3", "6|6 0|2", "1|1", PlayerAI)
	c := &scripted{moves: []move.Move{move.NewPlayMove(tiles.MustParse("6|6"), board.Left)}}
	ns, _, err := RunAITurn(context.Background(), s, c)
	is.True(errors.Is(err, ErrIllegalMove))
	is.Equal(ns.Board.ToDisplayText(), "[2|5]")

	c = &scripted{moves: []move.Move{move.NewPlayMove(tiles.MustParse("4|4"), board.Left)}}
	_, _, err = RunAITurn(context.Background(), s, c)
	is.True(errors.Is(err, ErrIllegalMove))
}

func TestNewFromPositionRejectsDuplicates(t *testing.T) {
	is := is.New(t)
	_, err := NewFromPosition(twoFive(), tiles.MustHand("2|5"), nil, nil, PlayerHuman)
	is.True(errors.Is(err, ErrInvalidState))
	_, err = NewFromPosition(board.Board{}, tiles.MustHand("1|1"), tiles.MustHand("1|1"), nil, PlayerAI)
	is.True(errors.Is(err, ErrInvalidState))
}

// playHuman makes a simple human move: the first legal play, else a draw,
// else a pass.
func playHuman(s State) (State, error) {
	if ims := PlayerLegalMoves(s); len(ims) > 0 {
		return ApplyPlayerMove(s, ims[0].TileIndex, ims[0].End)
	}
	if len(s.Stock) > 0 {
		return PlayerDraw(s)
	}
	return PlayerPass(s)
}

func TestFullGamesKeepPartition(t *testing.T) {
	is := is.New(t)
	solver := newSolver(2)
	for seed := int64(1); seed <= 25; seed++ {
		s := NewGame(seed)
		for step := 0; !GameStatus(s).Over(); step++ {
			is.True(step < 200)
			var err error
			if s.OnTurn == PlayerHuman {
				s, err = playHuman(s)
			} else {
				s, _, err = RunAITurn(context.Background(), s, solver)
			}
			is.NoErr(err)
			is.NoErr(s.CheckPartition())
		}
		st := GameStatus(s)
		switch st {
		case PlayerWins:
			is.Equal(len(s.Hands[PlayerHuman]), 0)
		case AIWins:
			is.Equal(len(s.Hands[PlayerAI]), 0)
		case Draw:
			is.True(s.Blocked())
		}
		is.Equal(len(s.History), s.Turn)
	}
}

func TestDisplay(t *testing.T) {
	is := is.New(t)
	s := mustPosition(twoFive(), "5|1 0|0", "6|6 4|4", "3|3", PlayerHuman)
	is.Equal(s.ToDisplayText(), "Board: [2|5]\n"+
		"Ends:  2 ... 5\n"+
		"AI tiles: 2   Stock: 1\n"+
		"Your hand: 1:[1|5] 2:[0|0]\n"+
		"You are on turn.\n")
}

func TestStateJSON(t *testing.T) {
	is := is.New(t)
	s := NewGame(3)
	s, err := ApplyPlayerMove(s, 0, board.Left)
	is.NoErr(err)
	s, _, err = RunAITurn(context.Background(), s, newSolver(1))
	is.NoErr(err)

	dat, err := json.Marshal(s)
	is.NoErr(err)
	var back State
	is.NoErr(json.Unmarshal(dat, &back))
	is.Equal(back, s)
	is.Equal(GameStatus(back), GameStatus(s))
}
