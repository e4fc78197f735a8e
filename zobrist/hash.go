package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/tiles"
)

const bignum = 1<<63 - 2

// MaxDepth is the deepest remaining-depth value that can be hashed.
const MaxDepth = 64

// Zobrist generates a zobrist hash for a domino search position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// Only what affects a search result is hashed: the exposed ends (or the
// fact that the board is empty), which tiles each side holds, the side to
// move, and the remaining depth. Tiles in the interior of the line never
// matter for legality or for the tile-count score.
type Zobrist struct {
	emptyBoard uint64
	theirTurn  uint64

	leftPip      [tiles.NumPipValues]uint64
	rightPip     [tiles.NumPipValues]uint64
	ourHand      [tiles.FullSetSize]uint64
	theirHand    [tiles.FullSetSize]uint64
	depthEntries [MaxDepth + 1]uint64
}

func rnd() uint64 {
	return frand.Uint64n(bignum) + 1
}

func (z *Zobrist) Initialize() {
	z.emptyBoard = rnd()
	z.theirTurn = rnd()
	for i := 0; i < tiles.NumPipValues; i++ {
		z.leftPip[i] = rnd()
		z.rightPip[i] = rnd()
	}
	for i := 0; i < tiles.FullSetSize; i++ {
		z.ourHand[i] = rnd()
		z.theirHand[i] = rnd()
	}
	for i := range z.depthEntries {
		z.depthEntries[i] = rnd()
	}
}

// Hash hashes a position from the point of view of "our" side; ourHand
// belongs to the searching player.
func (z *Zobrist) Hash(b board.Board, ourHand, theirHand tiles.Hand, theirTurn bool, depth int) uint64 {
	key := z.BoardKey(b)
	for _, t := range ourHand {
		key ^= z.ourHand[t.Index()]
	}
	for _, t := range theirHand {
		key ^= z.theirHand[t.Index()]
	}
	if theirTurn {
		key ^= z.theirTurn
	}
	key ^= z.depthEntries[clampDepth(depth)]
	return key
}

// BoardKey is the part of the hash that comes from the board.
func (z *Zobrist) BoardKey(b board.Board) uint64 {
	if b.IsEmpty() {
		return z.emptyBoard
	}
	return z.leftPip[b.LeftPip()] ^ z.rightPip[b.RightPip()]
}

// AddPlay incrementally updates key for a tile moving from a hand to the
// board, which changes the ends from before to after, flips the side to
// move, and uses up one ply of depth.
func (z *Zobrist) AddPlay(key uint64, before, after board.Board, t tiles.Tile,
	wasOurMove bool, depth int) uint64 {

	key ^= z.BoardKey(before)
	key ^= z.BoardKey(after)
	if wasOurMove {
		key ^= z.ourHand[t.Index()]
	} else {
		key ^= z.theirHand[t.Index()]
	}
	return z.advance(key, depth)
}

// AddPass updates key for a pass: only the side to move and the depth
// change.
func (z *Zobrist) AddPass(key uint64, depth int) uint64 {
	return z.advance(key, depth)
}

func (z *Zobrist) advance(key uint64, depth int) uint64 {
	key ^= z.theirTurn
	key ^= z.depthEntries[clampDepth(depth)]
	key ^= z.depthEntries[clampDepth(depth-1)]
	return key
}

func clampDepth(d int) int {
	if d < 0 {
		return 0
	}
	if d > MaxDepth {
		return MaxDepth
	}
	return d
}
