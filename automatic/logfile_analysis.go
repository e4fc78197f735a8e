package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/domino14/dominoes/stats"
)

type actionCounts struct {
	plays, draws, passes int
}

// AnalyzeLogFile reads an autoplay CSV log and summarizes it.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return analyzeLog(file)
}

func analyzeLog(rd io.Reader) (string, error) {
	r := csv.NewReader(rd)
	// Records look like:
	// gameID,turn,player,action,tile,end,p1tiles,p2tiles,stock
	// with one final row per game whose action is "end" and whose tile
	// column holds the result.
	counts := map[string]*actionCounts{"p1": {}, "p2": {}}
	results := map[string]int{}
	p1Left := &stats.Statistic{}
	p2Left := &stats.Statistic{}
	gamesPlayed := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "gameID" {
			continue
		}
		if len(record) < 9 {
			return "", errors.New("short record in log file")
		}
		if record[3] == "end" {
			gamesPlayed++
			results[record[4]]++
			p1, err := strconv.Atoi(record[6])
			if err != nil {
				return "", err
			}
			p2, err := strconv.Atoi(record[7])
			if err != nil {
				return "", err
			}
			p1Left.Push(float64(p1))
			p2Left.Push(float64(p2))
			continue
		}
		c, ok := counts[record[2]]
		if !ok {
			return "", fmt.Errorf("unknown player %q in log file", record[2])
		}
		switch record[3] {
		case "play":
			c.plays++
		case "draw":
			c.draws++
		case "pass":
			c.passes++
		}
	}
	if gamesPlayed == 0 {
		return "", errors.New("no finished games in log file")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", gamesPlayed)
	for _, st := range [][2]string{
		{"player-wins", "First seat wins"}, {"ai-wins", "Second seat wins"}, {"draw", "Draws"}} {
		fmt.Fprintf(&sb, "%-17s %d (%.3f%%)\n", st[1]+":", results[st[0]],
			100.0*float64(results[st[0]])/float64(gamesPlayed))
	}
	for _, p := range []string{"p1", "p2"} {
		c := counts[p]
		fmt.Fprintf(&sb, "%s plays: %.2f  draws: %.2f  passes: %.2f per game\n", p,
			float64(c.plays)/float64(gamesPlayed), float64(c.draws)/float64(gamesPlayed),
			float64(c.passes)/float64(gamesPlayed))
	}
	fmt.Fprintf(&sb, "p1 tiles left: %.3f  Stdev: %.3f\n", p1Left.Mean(), p1Left.Stdev())
	fmt.Fprintf(&sb, "p2 tiles left: %.3f  Stdev: %.3f\n", p2Left.Mean(), p2Left.Stdev())
	return sb.String(), nil
}
