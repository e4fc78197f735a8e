package shell

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/dominoes/game"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // e.g. "-threads"
	Args    []string // values for non-option arguments
}

var commandMetadata = map[string]CommandMetadata{
	"autoplay": {
		Options: []string{"-threads", "-p1", "-p2", "-file", "-seed"},
		Args:    []string{"analyze"},
	},
	"set": {
		Args: []string{"depth", "policy", "threads", "memo", "seed"},
	},
	"play": {
		Args: []string{"left", "right"},
	},
	"help": {
		Args: []string{"new", "play", "draw", "pass", "hint", "set", "autoplay", "script"},
	},
}

var commandNames = []string{
	"help", "new", "show", "moves", "play", "draw", "pass", "hint",
	"history", "set", "autoplay", "script", "exit",
}

var policyValues = []string{"pass", "extreme", "random"}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// unbalanced quotes while typing
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-p1" || lastCompleteField == "-p2":
			completions = policyValues
		case cmdName == "set" && lastCompleteField == "policy":
			completions = policyValues[:2]
		case cmdName == "set" && lastCompleteField == "memo":
			completions = []string{"on", "off"}
		case (cmdName == "play" || cmdName == "p") && lastCompleteField == cmdName:
			completions = c.playableNumbers()
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

// playableNumbers lists the 1-based hand positions with a legal play.
func (c *ShellCompleter) playableNumbers() []string {
	if c.sc.player == nil {
		return nil
	}
	var nums []string
	seen := map[int]bool{}
	for _, im := range game.PlayerLegalMoves(c.sc.player.State()) {
		if !seen[im.TileIndex] {
			seen[im.TileIndex] = true
			nums = append(nums, strconv.Itoa(im.TileIndex+1))
		}
	}
	return nums
}
