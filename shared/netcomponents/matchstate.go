package netcomponents

import "github.com/yohamta/donburi"

type MatchPhase int

const (
	PhaseWaiting MatchPhase = iota // not enough players yet
	PhasePlaying
	PhaseEnded
)

func (p MatchPhase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// NetMatchData is the server-owned match singleton, broadcast on every change.
type NetMatchData struct {
	Phase       MatchPhase
	RedScore    int
	BlueScore   int
	ElapsedMs   float64
	WinningTeam string // set only in PhaseEnded
}

var NetMatch = donburi.NewComponentType[NetMatchData]()
