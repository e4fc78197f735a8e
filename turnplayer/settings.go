package turnplayer

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/domino14/dominoes/config"
	"github.com/domino14/dominoes/minimax"
)

// GameOptions are the knobs for one game against the computer. Zero values
// are filled in from the config by SetDefaults.
type GameOptions struct {
	Depth       int
	StuckPolicy string
	Threads     int
	Seed        int64
	// MemoFraction sizes the search memo as a fraction of system memory.
	// Negative turns the memo off.
	MemoFraction float64
}

func (opts *GameOptions) SetDefaults(cfg *config.Config) {
	if opts.Depth == 0 {
		opts.Depth = cfg.GetInt(config.ConfigSearchDepth)
		log.Debug().Msgf("using default search depth %v", opts.Depth)
	}
	if opts.StuckPolicy == "" {
		opts.StuckPolicy = cfg.GetString(config.ConfigSearchStuckPolicy)
	}
	if opts.Threads == 0 {
		opts.Threads = cfg.GetInt(config.ConfigSearchThreads)
	}
	if opts.Seed == 0 {
		opts.Seed = cfg.GetInt64(config.ConfigSeed)
	}
	if opts.MemoFraction == 0 {
		if cfg.GetBool(config.ConfigSearchMemo) {
			opts.MemoFraction = cfg.GetFloat64(config.ConfigSearchMemoMemoryFraction)
		} else {
			opts.MemoFraction = -1
		}
	}
}

func (opts *GameOptions) SetDepth(v string) error {
	d, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if d < 1 || d > 64 {
		return fmt.Errorf("depth must be between 1 and 64")
	}
	opts.Depth = d
	return nil
}

func (opts *GameOptions) SetStuckPolicy(v string) error {
	p, err := minimax.ParseStuckPolicy(v)
	if err != nil {
		return err
	}
	opts.StuckPolicy = p.String()
	return nil
}

func (opts *GameOptions) SetThreads(v string) error {
	t, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if t < 1 {
		return fmt.Errorf("threads must be at least 1")
	}
	opts.Threads = t
	return nil
}

// NewSolver builds a solver configured by opts.
func (opts *GameOptions) NewSolver() (*minimax.Solver, error) {
	s := &minimax.Solver{}
	s.Init()
	if err := opts.Configure(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure applies opts to an existing solver.
func (opts *GameOptions) Configure(s *minimax.Solver) error {
	if opts.Depth != 0 {
		if err := s.SetDepth(opts.Depth); err != nil {
			return err
		}
	}
	if opts.StuckPolicy != "" {
		p, err := minimax.ParseStuckPolicy(opts.StuckPolicy)
		if err != nil {
			return err
		}
		s.SetStuckPolicy(p)
	}
	if opts.Threads > 0 {
		s.SetThreads(opts.Threads)
	}
	if opts.MemoFraction < 0 {
		s.SetMemoization(false)
	} else if opts.MemoFraction > 0 {
		s.SetMemoryFraction(opts.MemoFraction)
		s.SetMemoization(true)
	}
	return nil
}
