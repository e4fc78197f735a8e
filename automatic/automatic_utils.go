package automatic

// Data collection for automatic games: the computer against itself.

import (
	"cmp"
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/dominoes/config"
	"github.com/domino14/dominoes/stats"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

const logHeader = "gameID,turn,player,action,tile,end,p1tiles,p2tiles,stock\n"

// CompVCompOptions describe a batch of self-play games.
type CompVCompOptions struct {
	NumGames int
	Threads  int
	Player1  string
	Player2  string
	// OutputFilename receives a CSV row per event. Empty means no log.
	OutputFilename string
	// BatchSeed fixes every deal in the batch. 0 picks one at random.
	BatchSeed uint64
}

// Summary collects the results of a batch.
type Summary struct {
	Player1 PlayerSpec
	Player2 PlayerSpec
	// Record is from player 1's point of view.
	Record    stats.WinRecord
	Margin    stats.Statistic
	Margins   []float64
	Turns     stats.Statistic
	FirstSeat stats.WinRecord
	BatchSeed uint64
	Errors    int
}

func (s *Summary) add(res GameResult) {
	switch res.Winner {
	case 1:
		s.Record.Wins++
	case 2:
		s.Record.Losses++
	default:
		s.Record.Draws++
	}
	firstWon := (res.Winner == 1) == res.P1First
	switch {
	case res.Winner == 0:
		s.FirstSeat.Draws++
	case firstWon:
		s.FirstSeat.Wins++
	default:
		s.FirstSeat.Losses++
	}
	s.Margin.Push(float64(res.Margin))
	s.Margins = append(s.Margins, float64(res.Margin))
	s.Turns.Push(float64(res.Turns))
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Player 1: %v   Player 2: %v   (batch seed %d)\n", s.Player1, s.Player2, s.BatchSeed)
	fmt.Fprintf(&sb, "Games played: %d", s.Record.Games())
	if s.Errors > 0 {
		fmt.Fprintf(&sb, " (%d failed)", s.Errors)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Player 1 W-L-D: %v\n", s.Record)
	fmt.Fprintf(&sb, "First seat W-L-D: %v\n", s.FirstSeat)
	fmt.Fprintf(&sb, "Mean margin (p2 tiles - p1 tiles): %.3f ± %.3f  Stdev: %.3f\n",
		s.Margin.Mean(), s.Margin.ConfidenceInterval(95), s.Margin.Stdev())
	fmt.Fprintf(&sb, "Mean turns: %.2f\n", s.Turns.Mean())
	if len(s.Margins) > 1 && s.Margin.Max() > s.Margin.Min() {
		bins := min(15, int(s.Margin.Max()-s.Margin.Min())+1)
		h := histogram.Hist(bins, s.Margins)
		sb.WriteString("Margin histogram:\n")
		if err := histogram.Fprint(&sb, h, histogram.Linear(40)); err != nil {
			log.Err(err).Msg("histogram")
		}
	}
	return sb.String()
}

type job struct {
	gameNum int
}

// PlayCompVComp plays a batch of games on opts.Threads workers and waits
// for them to finish. Players swap seats every game. Cancelling ctx stops
// the batch after the games in progress; the summary covers the games that
// finished.
func PlayCompVComp(ctx context.Context, cfg *config.Config, opts CompVCompOptions) (*Summary, error) {
	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	if opts.NumGames < 1 {
		return nil, errors.New("need at least one game")
	}
	threads := max(1, min(opts.Threads, opts.NumGames))
	if opts.BatchSeed == 0 {
		opts.BatchSeed = frand.Uint64n(1<<63) + 1
	}

	// Build every runner up front so bad player specs fail before anything
	// starts.
	var logChan chan string
	if opts.OutputFilename != "" {
		logChan = make(chan string, 100)
	}
	runners := make([]*GameRunner, threads)
	for i := range runners {
		runners[i] = &GameRunner{logchan: logChan, config: cfg}
		if err := runners[i].Init(opts.Player1, opts.Player2); err != nil {
			return nil, err
		}
	}

	var logDone chan struct{}
	if logChan != nil {
		logfile, err := os.Create(opts.OutputFilename)
		if err != nil {
			return nil, err
		}
		logDone = make(chan struct{})
		go func() {
			defer close(logDone)
			writeLog(logfile, logChan)
			logfile.Close()
			log.Debug().Msg("exiting-turn-logger")
		}()
	}

	log.Debug().Int("games", opts.NumGames).Int("threads", threads).
		Uint64("batch-seed", opts.BatchSeed).Msg("starting-autoplay")

	CVCCounter.Set(0)
	jobs := make(chan job, 100)
	results := make(chan GameResult, 100)
	var wg sync.WaitGroup
	var errCount int
	var errMu sync.Mutex
	wg.Add(threads)

	for i := 0; i < threads; i++ {
		go func(r *GameRunner) {
			defer wg.Done()
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for j := range jobs {
				gameID := fmt.Sprintf("g%d", j.gameNum)
				seed := GameSeed(opts.BatchSeed, j.gameNum)
				res, err := r.PlayGame(ctx, gameID, seed, j.gameNum%2 == 0)
				if errors.Is(err, context.Canceled) {
					continue
				}
				if err != nil {
					log.Err(err).Str("game", gameID).Msg("autoplay-game-failed")
					errMu.Lock()
					errCount++
					errMu.Unlock()
					continue
				}
				res.GameNum = j.gameNum
				CVCCounter.Add(1)
				results <- res
			}
		}(runners[i])
	}

	go func() {
	gameLoop:
		for i := 0; i < opts.NumGames; i++ {
			select {
			case <-ctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				break gameLoop
			case jobs <- job{gameNum: i}:
			}
			if (i+1)%1000 == 0 {
				log.Info().Msgf("Queued %v jobs", i+1)
			}
		}
		close(jobs)
		wg.Wait()
		close(results)
		if logChan != nil {
			close(logChan)
		}
	}()

	summary := &Summary{
		Player1:   runners[0].players[0],
		Player2:   runners[0].players[1],
		BatchSeed: opts.BatchSeed,
	}
	var all []GameResult
	for res := range results {
		all = append(all, res)
	}
	// results arrive in whatever order the workers finish
	slices.SortFunc(all, func(a, b GameResult) int {
		return cmp.Compare(a.GameNum, b.GameNum)
	})
	for _, res := range all {
		summary.add(res)
	}
	summary.Errors = errCount
	if logDone != nil {
		<-logDone
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func writeLog(w io.Writer, logChan chan string) {
	if _, err := io.WriteString(w, logHeader); err != nil {
		log.Err(err).Msg("writing-autoplay-log")
	}
	for msg := range logChan {
		if _, err := io.WriteString(w, msg); err != nil {
			log.Err(err).Msg("writing-autoplay-log")
		}
	}
}
