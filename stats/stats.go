// Package stats accumulates results over many self-play games.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// ZVal is the two-tailed z-value for a confidence level given in percent.
func ZVal(confidence float64) float64 {
	return distuv.UnitNormal.Quantile((1 + confidence/100) / 2)
}

// Statistic is a running mean and variance (Welford's algorithm), used for
// final tile margins.
type Statistic struct {
	n    int
	last float64
	mean float64
	m2   float64
	min  float64
	max  float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.n++
	if s.n == 1 {
		s.mean = val
		s.m2 = 0
		s.min, s.max = val, val
		return
	}
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
	s.min = min(s.min, val)
	s.max = max(s.max, val)
}

// Merge folds o into s, as if every value pushed to o had been pushed to s.
func (s *Statistic) Merge(o *Statistic) {
	if o.n == 0 {
		return
	}
	if s.n == 0 {
		*s = *o
		return
	}
	n := s.n + o.n
	delta := o.mean - s.mean
	s.m2 += o.m2 + delta*delta*float64(s.n)*float64(o.n)/float64(n)
	s.mean += delta * float64(o.n) / float64(n)
	s.min = min(s.min, o.min)
	s.max = max(s.max, o.max)
	s.last = o.last
	s.n = n
}

func (s *Statistic) Mean() float64 {
	if s.n > 0 {
		return s.mean
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) Min() float64 {
	return s.min
}

func (s *Statistic) Max() float64 {
	return s.max
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

// ConfidenceInterval is the half-width of the interval around the mean at
// the given confidence, in percent.
func (s *Statistic) ConfidenceInterval(confidence float64) float64 {
	return ZVal(confidence) * s.StandardError()
}

func (s *Statistic) Iterations() int {
	return s.n
}

// WinRecord counts wins, losses and draws from one side's point of view.
type WinRecord struct {
	Wins   int
	Losses int
	Draws  int
}

func (w WinRecord) Games() int {
	return w.Wins + w.Losses + w.Draws
}

// Score counts a draw as half a win.
func (w WinRecord) Score() float64 {
	if w.Games() == 0 {
		return 0
	}
	return (float64(w.Wins) + 0.5*float64(w.Draws)) / float64(w.Games())
}

// ScoreInterval is the normal-approximation confidence half-width of Score.
func (w WinRecord) ScoreInterval(confidence float64) float64 {
	n := float64(w.Games())
	if n == 0 {
		return 0
	}
	p := w.Score()
	return ZVal(confidence) * math.Sqrt(p*(1-p)/n)
}

func (w WinRecord) String() string {
	return fmt.Sprintf("%d-%d-%d (%.1f%% ± %.1f%%)", w.Wins, w.Losses, w.Draws,
		100*w.Score(), 100*w.ScoreInterval(95))
}
