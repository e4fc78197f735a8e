package game

import (
	"fmt"
	"strings"
)

// ToDisplayText renders the state the way the human sees it: the AI's
// tiles are face down.
func (s State) ToDisplayText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Board: %s\n", s.Board.ToDisplayText())
	if !s.Board.IsEmpty() {
		fmt.Fprintf(&sb, "Ends:  %d ... %d\n", s.Board.LeftPip(), s.Board.RightPip())
	}
	fmt.Fprintf(&sb, "AI tiles: %d   Stock: %d\n", len(s.Hands[PlayerAI]), len(s.Stock))

	sb.WriteString("Your hand:")
	for i, t := range s.Hands[PlayerHuman] {
		fmt.Fprintf(&sb, " %d:%v", i+1, t)
	}
	sb.WriteString("\n")

	st := GameStatus(s)
	if st.Over() {
		fmt.Fprintf(&sb, "Game over: %v\n", st)
	} else {
		onturn := "You are"
		if s.OnTurn == PlayerAI {
			onturn = "The AI is"
		}
		fmt.Fprintf(&sb, "%s on turn.\n", onturn)
	}
	return sb.String()
}

// HistoryText is the move log, one event per line.
func (s State) HistoryText() string {
	var sb strings.Builder
	for _, e := range s.History {
		sb.WriteString(e.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
