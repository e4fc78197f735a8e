package move

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/tiles"
)

func TestShortDescription(t *testing.T) {
	is := is.New(t)
	tile := tiles.MustParse("3|5")
	is.Equal(NewPlayMove(tile, board.Left).ShortDescription(), "[3|5] left")
	is.Equal(NewPlayMove(tile, board.Right).ShortDescription(), "[3|5] right")
	is.Equal(NewDrawMove(tile).ShortDescription(), "(draw [3|5])")
	is.Equal(NewPassMove().ShortDescription(), "(pass)")
}

func TestMoveTypeText(t *testing.T) {
	is := is.New(t)
	for _, mt := range []MoveType{MoveTypePlay, MoveTypeDraw, MoveTypePass} {
		b, err := mt.MarshalText()
		is.NoErr(err)
		var back MoveType
		is.NoErr(back.UnmarshalText(b))
		is.Equal(back, mt)
	}
	var bad MoveType
	is.True(bad.UnmarshalText([]byte("exchange")) != nil)
}
