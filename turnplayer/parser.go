package turnplayer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/game"
)

// PlayArgs is a parsed "play" command. TileIndex is 0-based.
type PlayArgs struct {
	TileIndex int
	End       board.End
	HasEnd    bool
}

// ParsePlay parses the arguments of a play command: a 1-based hand
// position, optionally followed by an end.
func ParsePlay(fields []string) (PlayArgs, error) {
	var pa PlayArgs
	if len(fields) == 0 || len(fields) > 2 {
		return pa, errors.New("usage: play <n> [left|right]")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return pa, fmt.Errorf("%q is not a tile number", fields[0])
	}
	if n < 1 {
		return pa, fmt.Errorf("tile numbers start at 1")
	}
	pa.TileIndex = n - 1
	if len(fields) == 2 {
		pa.End, err = board.ParseEnd(fields[1])
		if err != nil {
			return pa, err
		}
		pa.HasEnd = true
	}
	return pa, nil
}

// Play dispatches a parsed play command.
func (p *TurnPlayer) Play(ctx context.Context, pa PlayArgs) (*game.AITurnReport, error) {
	if pa.HasEnd {
		return p.PlayTileAt(ctx, pa.TileIndex, pa.End)
	}
	return p.PlayTile(ctx, pa.TileIndex)
}
