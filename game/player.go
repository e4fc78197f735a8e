package game

import (
	"fmt"
	"strings"
)

// Player identifies a seat. The human always sits in seat 0.
type Player uint8

const (
	PlayerHuman Player = iota
	PlayerAI
)

func (p Player) Other() Player {
	return 1 - p
}

func (p Player) String() string {
	if p == PlayerAI {
		return "ai"
	}
	return "human"
}

func (p Player) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Player) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "human":
		*p = PlayerHuman
	case "ai":
		*p = PlayerAI
	default:
		return fmt.Errorf("unknown player %q", string(b))
	}
	return nil
}

type Status uint8

const (
	InProgress Status = iota
	PlayerWins
	AIWins
	Draw
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in-progress"
	case PlayerWins:
		return "player-wins"
	case AIWins:
		return "ai-wins"
	case Draw:
		return "draw"
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for _, c := range []Status{InProgress, PlayerWins, AIWins, Draw} {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", string(b))
}

// Over is true for every terminal status.
func (s Status) Over() bool {
	return s != InProgress
}
