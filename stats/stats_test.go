package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
	}
}

func TestMerge(t *testing.T) {
	is := is.New(t)
	vals := []float64{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}
	all, a, b := &Statistic{}, &Statistic{}, &Statistic{}
	for i, v := range vals {
		all.Push(v)
		if i < 4 {
			a.Push(v)
		} else {
			b.Push(v)
		}
	}
	a.Merge(b)
	is.Equal(a.Iterations(), all.Iterations())
	is.True(FuzzyEqual(a.Mean(), all.Mean()))
	is.True(FuzzyEqual(a.Stdev(), all.Stdev()))
	is.Equal(a.Min(), 10.0)
	is.Equal(a.Max(), 124.0)

	empty := &Statistic{}
	empty.Merge(all)
	is.True(FuzzyEqual(empty.Mean(), all.Mean()))
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(FuzzyEqual(ZVal(99), 2.5758293035489004))
}

func TestWinRecord(t *testing.T) {
	is := is.New(t)
	w := WinRecord{Wins: 6, Losses: 2, Draws: 2}
	is.Equal(w.Games(), 10)
	is.True(FuzzyEqual(w.Score(), 0.7))
	is.True(FuzzyEqual(w.ScoreInterval(95), 1.959963984540054*0.14491376746189438))
	is.Equal(WinRecord{}.Score(), 0.0)
}
