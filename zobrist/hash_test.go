package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/tiles"
)

func TestAddPlayMatchesFullHash(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()

	b, _ := board.FromPlaced(board.Placed{Left: 2, Right: 5})
	ours := tiles.MustHand("5|1 0|0 3|3")
	theirs := tiles.MustHand("2|6 4|4")

	key := z.Hash(b, ours, theirs, false, 3)

	// we play [5|1] on the right
	played := tiles.MustParse("5|1")
	after, err := b.Place(played, board.Right)
	is.NoErr(err)
	ours2 := ours.Remove(played)
	k2 := z.AddPlay(key, b, after, played, true, 3)
	is.Equal(k2, z.Hash(after, ours2, theirs, true, 2))

	// they play [2|6] on the left
	played = tiles.MustParse("2|6")
	after2, err := after.Place(played, board.Left)
	is.NoErr(err)
	k3 := z.AddPlay(k2, after, after2, played, false, 2)
	is.Equal(k3, z.Hash(after2, ours2, theirs.Remove(played), false, 1))

	// a pass flips the turn and uses a ply
	k4 := z.AddPass(k3, 1)
	is.Equal(k4, z.Hash(after2, ours2, theirs.Remove(played), true, 0))
}

func TestInteriorDoesNotMatter(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	b1, _ := board.FromPlaced(board.Placed{Left: 1, Right: 3}, board.Placed{Left: 3, Right: 4})
	b2, _ := board.FromPlaced(board.Placed{Left: 1, Right: 6}, board.Placed{Left: 6, Right: 4})
	h := tiles.MustHand("0|0")
	is.Equal(z.Hash(b1, h, nil, false, 2), z.Hash(b2, h, nil, false, 2))
	// but the ends, turn and depth do
	is.True(z.Hash(b1, h, nil, false, 2) != z.Hash(b1, h, nil, true, 2))
	is.True(z.Hash(b1, h, nil, false, 2) != z.Hash(b1, h, nil, false, 1))
	is.True(z.Hash(b1, h, nil, false, 2) != z.Hash(board.Board{}, h, nil, false, 2))
	// and who holds a tile
	is.True(z.Hash(b1, h, nil, false, 2) != z.Hash(b1, nil, h, false, 2))
}
