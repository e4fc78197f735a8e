package automatic

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func TestPlayCompVComp(t *testing.T) {
	is := is.New(t)
	out := filepath.Join(t.TempDir(), "games.csv")
	opts := CompVCompOptions{
		NumGames:       12,
		Threads:        3,
		Player1:        "pass:2",
		Player2:        "random",
		OutputFilename: out,
		BatchSeed:      99,
	}
	summary, err := PlayCompVComp(context.Background(), DefaultConfig, opts)
	is.NoErr(err)
	is.Equal(summary.Record.Games(), 12)
	is.Equal(summary.FirstSeat.Games(), 12)
	is.Equal(summary.Margin.Iterations(), 12)
	is.Equal(summary.Errors, 0)
	is.Equal(CVCCounter.Value(), int64(12))
	is.Equal(IsPlaying.Value(), int64(0))
	is.True(strings.Contains(summary.String(), "Games played: 12"))

	analysis, err := AnalyzeLogFile(out)
	is.NoErr(err)
	is.True(strings.HasPrefix(analysis, "Games played: 12\n"))

	// same batch seed, same games, whatever the thread count
	opts.Threads = 1
	opts.OutputFilename = ""
	again, err := PlayCompVComp(context.Background(), DefaultConfig, opts)
	is.NoErr(err)
	is.Equal(again.Record, summary.Record)
	is.Equal(again.Margins, summary.Margins)
}

func TestPlayCompVCompBadPlayer(t *testing.T) {
	_, err := PlayCompVComp(context.Background(), DefaultConfig, CompVCompOptions{
		NumGames: 2, Threads: 1, Player1: "greedy", Player2: "pass",
	})
	assert.Error(t, err)
	_, err = PlayCompVComp(context.Background(), DefaultConfig, CompVCompOptions{
		NumGames: 0, Threads: 1, Player1: "pass", Player2: "pass",
	})
	assert.Error(t, err)
}

func TestPlayCompVCompCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := PlayCompVComp(ctx, DefaultConfig, CompVCompOptions{
		NumGames: 50, Threads: 2, Player1: "pass:1", Player2: "random",
	})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, summary.Errors)
	assert.Less(t, summary.Record.Games(), 50)
}

func TestAnalyzeLog(t *testing.T) {
	is := is.New(t)
	log := logHeader +
		"g0,0,p1,play,[3|3],left,6,7,14\n" +
		"g0,1,p2,draw,[0|1],,6,8,13\n" +
		"g0,2,p2,pass,,,6,8,13\n" +
		"g0,3,,end,player-wins,,0,3,0\n"
	out, err := analyzeLog(strings.NewReader(log))
	is.NoErr(err)
	is.True(strings.Contains(out, "Games played: 1\n"))
	is.True(strings.Contains(out, "First seat wins:  1 (100.000%)"))
	is.True(strings.Contains(out, "p2 plays: 0.00  draws: 1.00  passes: 1.00 per game"))

	_, err = analyzeLog(strings.NewReader(logHeader))
	is.True(err != nil)
}
