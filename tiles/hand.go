package tiles

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/samber/lo"
)

var ErrEmptyStock = errors.New("the stock is empty")

// Hand is the set of tiles a player holds. The order is kept so a UI can
// refer to tiles by position, but it carries no meaning for the rules.
// Mutators never modify the receiver; they return a fresh slice.
type Hand []Tile

// HandFromString parses a whitespace-separated list of tiles such as
// "5|1 0|0".
func HandFromString(s string) (Hand, error) {
	fields := strings.Fields(s)
	h := make(Hand, 0, len(fields))
	for _, f := range fields {
		t, err := Parse(f)
		if err != nil {
			return nil, err
		}
		h = append(h, t)
	}
	return h, nil
}

// MustHand is HandFromString for tests. It panics on bad input.
func MustHand(s string) Hand {
	h, err := HandFromString(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (h Hand) Copy() Hand {
	if h == nil {
		return nil
	}
	c := make(Hand, len(h))
	copy(c, h)
	return c
}

func (h Hand) IndexOf(t Tile) int {
	return lo.IndexOf(h, t)
}

func (h Hand) Has(t Tile) bool {
	return h.IndexOf(t) >= 0
}

// Remove returns a copy of the hand without t. If t is not in the hand the
// copy is returned unchanged.
func (h Hand) Remove(t Tile) Hand {
	idx := h.IndexOf(t)
	if idx < 0 {
		return h.Copy()
	}
	return h.RemoveAt(idx)
}

// RemoveAt returns a copy of the hand without the tile at idx.
func (h Hand) RemoveAt(idx int) Hand {
	c := make(Hand, 0, len(h)-1)
	c = append(c, h[:idx]...)
	return append(c, h[idx+1:]...)
}

// Add returns a copy of the hand with t appended.
func (h Hand) Add(t Tile) Hand {
	c := make(Hand, len(h), len(h)+1)
	copy(c, h)
	return append(c, t)
}

// PipCount sums the pips of every tile in the hand.
func (h Hand) PipCount() int {
	return lo.SumBy(h, func(t Tile) int { return t.Pips() })
}

func (h Hand) String() string {
	var sb strings.Builder
	for _, t := range h {
		sb.WriteString(t.String())
	}
	return sb.String()
}

// Stock is the pool of tiles not yet dealt. Draws come off the front.
type Stock []Tile

func (s Stock) Copy() Stock {
	return Stock(Hand(s).Copy())
}

// Draw takes the first tile off the stock. The receiver is not modified.
func (s Stock) Draw() (Tile, Stock, error) {
	if len(s) == 0 {
		return Tile{}, s, ErrEmptyStock
	}
	rest := make(Stock, len(s)-1)
	copy(rest, s[1:])
	return s[0], rest, nil
}

// Shuffle shuffles ts in place.
func Shuffle(ts []Tile, rng *rand.Rand) {
	rng.Shuffle(len(ts), func(i, j int) {
		ts[i], ts[j] = ts[j], ts[i]
	})
}

// Deal shuffles a fresh full set and deals HandSize tiles to each of the two
// players, in that order. The remaining tiles become the stock.
func Deal(rng *rand.Rand) (first, second Hand, stock Stock) {
	set := FullSet()
	Shuffle(set, rng)
	first = Hand(set[:HandSize]).Copy()
	second = Hand(set[HandSize : 2*HandSize]).Copy()
	stock = Stock(Hand(set[2*HandSize:]).Copy())
	return first, second, stock
}
