// Package movegen enumerates the legal plays for a hand against a board.
package movegen

import (
	"github.com/samber/lo"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/move"
	"github.com/domino14/dominoes/tiles"
)

// MoveGenerator is anything that can list the plays available to a hand.
type MoveGenerator interface {
	GenAll(b board.Board, h tiles.Hand) []move.Move
}

// Generator is the standard MoveGenerator.
type Generator struct{}

func (Generator) GenAll(b board.Board, h tiles.Hand) []move.Move {
	return LegalMoves(b, h)
}

// HasAnyLegalMove returns true iff some tile in h can go on either end.
func HasAnyLegalMove(b board.Board, h tiles.Hand) bool {
	if b.IsEmpty() {
		return len(h) > 0
	}
	return lo.ContainsBy(h, func(t tiles.Tile) bool {
		return t.Has(b.LeftPip()) || t.Has(b.RightPip())
	})
}

// LegalEnds returns the ends at which t may be played, left first.
func LegalEnds(b board.Board, t tiles.Tile) []board.End {
	ends := make([]board.End, 0, 2)
	for _, e := range board.Ends {
		if b.IsLegal(t, e) {
			ends = append(ends, e)
		}
	}
	return ends
}

// LegalMoves lists every (tile, end) pair that may be played, in hand
// order and left before right. A tile that fits both ends appears twice;
// which end to use is a real choice (on an empty board every tile appears
// twice).
func LegalMoves(b board.Board, h tiles.Hand) []move.Move {
	moves := make([]move.Move, 0, 2*len(h))
	for _, t := range h {
		for _, e := range board.Ends {
			if b.IsLegal(t, e) {
				moves = append(moves, move.NewPlayMove(t, e))
			}
		}
	}
	return moves
}
