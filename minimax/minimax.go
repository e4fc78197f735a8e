// Package minimax picks moves for the computer player with a plain
// fixed-depth minimax search over domino positions.
package minimax

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/move"
	"github.com/domino14/dominoes/movegen"
	"github.com/domino14/dominoes/tiles"
	"github.com/domino14/dominoes/zobrist"
)

/*
function minimax(node, depth, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, minimax(child, depth − 1, FALSE))
        return value
    else (* minimizing player *)
        value := +∞
        for each child of node do
            value := min(value, minimax(child, depth − 1, TRUE))
        return value
*/

// Infinity stands in for an unbounded score. Real scores are tile-count
// differences and never come close.
const Infinity = 1 << 20

const DefaultDepth = 3

var ErrNoMoveAvailable = errors.New("no legal move available")

// StuckPolicy decides how the search scores a position where the side to
// move has tiles but nothing it can play.
type StuckPolicy int

const (
	// StuckPass lets the stuck side pass. If the other side is stuck too the
	// position is blocked and is scored like a leaf.
	StuckPass StuckPolicy = iota
	// StuckExtreme scores the position as the empty max or min: -Infinity
	// when the computer is stuck, +Infinity when its opponent is.
	StuckExtreme
)

func (p StuckPolicy) String() string {
	if p == StuckExtreme {
		return "extreme"
	}
	return "pass"
}

func ParseStuckPolicy(s string) (StuckPolicy, error) {
	switch strings.ToLower(s) {
	case "pass":
		return StuckPass, nil
	case "extreme":
		return StuckExtreme, nil
	}
	return StuckPass, fmt.Errorf("%q is not a stuck policy; use pass or extreme", s)
}

// ScoreString shows a score, spelling out the infinite sentinels.
func ScoreString(v int) string {
	switch {
	case v >= Infinity:
		return "+inf"
	case v <= -Infinity:
		return "-inf"
	}
	return fmt.Sprintf("%d", v)
}

// Position is what the search sees. AIHand belongs to the side the search
// is choosing a move for. The stock is carried along for completeness but
// look-ahead never draws from it.
type Position struct {
	Board   board.Board
	AIHand  tiles.Hand
	OppHand tiles.Hand
	Stock   tiles.Stock
}

// Candidate is one root move and the value the search gave it.
type Candidate struct {
	Move  move.Move
	Score int
	Nodes uint64
}

type Solver struct {
	zobrist *zobrist.Zobrist
	memo    *MemoTable

	depth        int
	policy       StuckPolicy
	threads      int
	memoOptim    bool
	memoFraction float64

	nodes     atomic.Uint64
	logStream io.Writer
}

// Init initializes the solver with the default depth and policy, a single
// thread, and memoization on.
func (s *Solver) Init() {
	s.depth = DefaultDepth
	s.policy = StuckPass
	s.threads = 1
	s.memoFraction = 0.001
	s.SetMemoization(true)
}

func (s *Solver) Depth() int {
	return s.depth
}

func (s *Solver) SetDepth(d int) error {
	if d < 1 || d > zobrist.MaxDepth {
		return fmt.Errorf("depth must be between 1 and %d", zobrist.MaxDepth)
	}
	s.depth = d
	return nil
}

func (s *Solver) StuckPolicy() StuckPolicy {
	return s.policy
}

func (s *Solver) SetStuckPolicy(p StuckPolicy) {
	if p != s.policy && s.memo != nil {
		// remembered values were computed under the old policy
		s.memo.Reset(s.memoFraction)
	}
	s.policy = p
}

func (s *Solver) SetThreads(t int) {
	if t < 1 {
		t = 1
	}
	s.threads = t
	if s.memo != nil {
		s.setMemoLock()
	}
}

func (s *Solver) SetMemoryFraction(f float64) {
	s.memoFraction = f
	if s.memo != nil {
		s.memo.Reset(f)
	}
}

func (s *Solver) SetMemoization(on bool) {
	s.memoOptim = on
	if !on {
		s.memo = nil
		return
	}
	if s.zobrist == nil {
		s.zobrist = &zobrist.Zobrist{}
		s.zobrist.Initialize()
	}
	if s.memo == nil {
		s.memo = &MemoTable{}
		s.setMemoLock()
		s.memo.Reset(s.memoFraction)
	}
}

func (s *Solver) setMemoLock() {
	if s.threads > 1 {
		s.memo.SetMultiThreadedMode()
	} else {
		s.memo.SetSingleThreadedMode()
	}
}

// SetLogStream makes the solver write a YAML record of every root search
// to w.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

// Nodes is the total number of positions visited by this solver.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// searcher carries per-goroutine counters so concurrent root searches do
// not contend on them.
type searcher struct {
	s     *Solver
	nodes uint64
}

// Search returns the minimax value of pos searched depth plies deep.
// maximizing is true when the side holding pos.AIHand is to move. The leaf
// value is len(OppHand) - len(AIHand).
func (s *Solver) Search(pos Position, depth int, maximizing bool) int {
	var key uint64
	if s.memo != nil {
		key = s.zobrist.Hash(pos.Board, pos.AIHand, pos.OppHand, !maximizing, depth)
	}
	sr := &searcher{s: s}
	v := sr.search(pos.Board, pos.AIHand, pos.OppHand, depth, maximizing, key)
	s.nodes.Add(sr.nodes)
	return v
}

func (sr *searcher) search(b board.Board, ai, opp tiles.Hand, depth int,
	maximizing bool, key uint64) int {

	sr.nodes++
	if depth == 0 || len(ai) == 0 || len(opp) == 0 {
		return len(opp) - len(ai)
	}
	memo := sr.s.memo
	if memo != nil {
		if v, ok := memo.lookup(key); ok {
			return v
		}
	}

	mover := ai
	if !maximizing {
		mover = opp
	}
	moves := movegen.LegalMoves(b, mover)

	var value int
	if len(moves) == 0 {
		value = sr.stuck(b, ai, opp, depth, maximizing, key)
	} else if maximizing {
		value = -Infinity
		for _, m := range moves {
			nb, childKey := sr.play(b, m, maximizing, depth, key)
			value = max(value, sr.search(nb, ai.Remove(m.Tile()), opp, depth-1, false, childKey))
		}
	} else {
		value = Infinity
		for _, m := range moves {
			nb, childKey := sr.play(b, m, maximizing, depth, key)
			value = min(value, sr.search(nb, ai, opp.Remove(m.Tile()), depth-1, true, childKey))
		}
	}

	if memo != nil {
		memo.store(key, value)
	}
	return value
}

// play places m on a fresh copy of b.
func (sr *searcher) play(b board.Board, m move.Move, maximizing bool, depth int,
	key uint64) (board.Board, uint64) {

	nb, err := b.Place(m.Tile(), m.End())
	if err != nil {
		// LegalMoves only returns placeable moves.
		panic(err)
	}
	if sr.s.memo != nil {
		key = sr.s.zobrist.AddPlay(key, b, nb, m.Tile(), maximizing, depth)
	}
	return nb, key
}

func (sr *searcher) stuck(b board.Board, ai, opp tiles.Hand, depth int,
	maximizing bool, key uint64) int {

	if sr.s.policy == StuckExtreme {
		if maximizing {
			return -Infinity
		}
		return Infinity
	}
	other := opp
	if !maximizing {
		other = ai
	}
	if !movegen.HasAnyLegalMove(b, other) {
		// blocked: nobody can move, so this is as good as a leaf.
		return len(opp) - len(ai)
	}
	if sr.s.memo != nil {
		key = sr.s.zobrist.AddPass(key, depth)
	}
	return sr.search(b, ai, opp, depth-1, !maximizing, key)
}

// Evaluate scores every legal root move for pos.AIHand, in the order
// movegen.LegalMoves produces them. Each is searched to the solver's depth,
// counting the root move itself as the first ply.
func (s *Solver) Evaluate(ctx context.Context, pos Position) ([]Candidate, error) {
	moves := movegen.LegalMoves(pos.Board, pos.AIHand)
	if len(moves) == 0 {
		return nil, ErrNoMoveAvailable
	}
	start := time.Now()
	var rootKey uint64
	if s.memo != nil {
		rootKey = s.zobrist.Hash(pos.Board, pos.AIHand, pos.OppHand, false, s.depth)
	}
	cands := make([]Candidate, len(moves))

	scoreMove := func(i int) {
		m := moves[i]
		sr := &searcher{s: s}
		nb, childKey := sr.play(pos.Board, m, true, s.depth, rootKey)
		v := sr.search(nb, pos.AIHand.Remove(m.Tile()), pos.OppHand, s.depth-1, false, childKey)
		cands[i] = Candidate{Move: m, Score: v, Nodes: sr.nodes}
		s.nodes.Add(sr.nodes)
	}

	if s.threads > 1 && len(moves) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.threads)
		for i := range moves {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				scoreMove(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range moves {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			scoreMove(i)
		}
	}

	for _, c := range cands {
		log.Debug().Str("play", c.Move.ShortDescription()).
			Str("score", ScoreString(c.Score)).
			Uint64("nodes", c.Nodes).Msg("minimax-candidate")
	}
	ev := log.Debug().Int("depth", s.depth).
		Str("policy", s.policy.String()).
		Int("candidates", len(cands)).
		Dur("elapsed", time.Since(start))
	if s.memo != nil {
		_, lookups, hits, _ := s.memo.Stats()
		ev = ev.Uint64("memo-lookups", lookups).Uint64("memo-hits", hits)
	}
	ev.Msg("minimax-evaluated")
	return cands, nil
}

// Best returns the index of the first candidate with the greatest score.
func Best(cands []Candidate) int {
	best := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].Score > cands[best].Score {
			best = i
		}
	}
	return best
}

// ChooseMove returns the best move for aiHand: the root move with the
// strictly greatest score, the earliest one on ties. It returns
// ErrNoMoveAvailable if aiHand has nothing to play. The stock is never
// drawn from during look-ahead.
func (s *Solver) ChooseMove(ctx context.Context, b board.Board, aiHand, oppHand tiles.Hand,
	stock tiles.Stock) (move.Move, error) {

	pos := Position{Board: b, AIHand: aiHand, OppHand: oppHand, Stock: stock}
	cands, err := s.Evaluate(ctx, pos)
	if err != nil {
		return move.Move{}, err
	}
	best := cands[Best(cands)]
	if s.logStream != nil {
		if err := s.writeLog(pos, cands, best); err != nil {
			log.Err(err).Msg("error-writing-search-log")
		}
	}
	return best.Move, nil
}

type logCandidate struct {
	Play  string `yaml:"play"`
	Score string `yaml:"score"`
	Nodes uint64 `yaml:"nodes"`
}

type logEntry struct {
	Board      string         `yaml:"board"`
	Hand       string         `yaml:"hand"`
	OppTiles   int            `yaml:"opp-tiles"`
	StockTiles int            `yaml:"stock-tiles"`
	Depth      int            `yaml:"depth"`
	Policy     string         `yaml:"policy"`
	Candidates []logCandidate `yaml:"candidates"`
	Chosen     string         `yaml:"chosen"`
}

func (s *Solver) writeLog(pos Position, cands []Candidate, best Candidate) error {
	entry := logEntry{
		Board:      pos.Board.ToDisplayText(),
		Hand:       pos.AIHand.String(),
		OppTiles:   len(pos.OppHand),
		StockTiles: len(pos.Stock),
		Depth:      s.depth,
		Policy:     s.policy.String(),
		Chosen:     best.Move.ShortDescription(),
	}
	for _, c := range cands {
		entry.Candidates = append(entry.Candidates, logCandidate{
			Play:  c.Move.ShortDescription(),
			Score: ScoreString(c.Score),
			Nodes: c.Nodes,
		})
	}
	out, err := yaml.Marshal([]logEntry{entry})
	if err != nil {
		return err
	}
	_, err = s.logStream.Write(out)
	return err
}
