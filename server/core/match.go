package core

import (
	"log"
	"math"

	"github.com/pixelfray/strayfire/shared/messages"
	"github.com/pixelfray/strayfire/shared/netcomponents"
	"github.com/pixelfray/strayfire/shared/sim"
)

// matchState is the server-owned match singleton.
type matchState struct {
	phase     netcomponents.MatchPhase
	redScore  int
	blueScore int
	elapsedMs float64
	winner    string
}

// snapshot renders the wire form. Elapsed time is quantized to whole seconds
// so the singleton only registers as changed when something observable moved.
func (m *matchState) snapshot() netcomponents.NetMatchData {
	return netcomponents.NetMatchData{
		Phase:       m.phase,
		RedScore:    m.redScore,
		BlueScore:   m.blueScore,
		ElapsedMs:   math.Floor(m.elapsedMs/1000) * 1000,
		WinningTeam: m.winner,
	}
}

// stepMatch applies phase transitions: waiting until both teams are manned,
// playing until the score threshold or time limit, then ended (terminal).
func (s *Server) stepMatch(dtMs float64) {
	switch s.match.phase {
	case netcomponents.PhaseWaiting:
		red, blue := 0, 0
		for _, sess := range s.sessions {
			switch sess.team {
			case "red":
				red++
			case "blue":
				blue++
			}
		}
		if red >= 1 && blue >= 1 {
			s.match.phase = netcomponents.PhasePlaying
			s.match.redScore = 0
			s.match.blueScore = 0
			s.match.elapsedMs = 0
			log.Printf("[server] match started (%d vs %d)", red, blue)
		}

	case netcomponents.PhasePlaying:
		s.match.elapsedMs += dtMs
		if s.match.redScore >= ScoreLimit || s.match.blueScore >= ScoreLimit ||
			s.match.elapsedMs >= TimeLimit {
			s.endMatch()
		}
	}
}

func (s *Server) endMatch() {
	s.match.phase = netcomponents.PhaseEnded
	switch {
	case s.match.redScore > s.match.blueScore:
		s.match.winner = "red"
	case s.match.blueScore > s.match.redScore:
		s.match.winner = "blue"
	}

	ended := messages.MatchEnded{WinningTeam: s.match.winner}
	for _, sess := range s.byID {
		ended.Standings = append(ended.Standings, messages.PlayerStanding{
			PlayerID: sess.playerID,
			Name:     sess.name,
			Team:     sess.team,
			Kills:    sess.kills,
			Deaths:   sess.deaths,
		})
	}
	s.outbox = append(s.outbox, ended)
	log.Printf("[server] match ended, winner=%q (%d-%d)",
		s.match.winner, s.match.redScore, s.match.blueScore)
}

// damage applies a hit to a living avatar. Health is clamped to [0,100]; the
// death flag flips exactly on the transition to zero, starting the respawn
// timer, crediting the killer, and emitting the kill event.
func (s *Server) damage(victim *playerSession, attackerID string, amount int) {
	if victim.dead {
		return
	}
	victim.health -= amount
	if victim.health < 0 {
		victim.health = 0
	}
	if victim.health > MaxHealth {
		victim.health = MaxHealth
	}
	if victim.health > 0 {
		return
	}

	victim.dead = true
	victim.respawnMs = RespawnDelay
	victim.deaths++
	sim.StopDash(&victim.kin)

	killerName := ""
	if attacker, ok := s.byID[attackerID]; ok {
		attacker.kills++
		killerName = attacker.name
		if s.match.phase == netcomponents.PhasePlaying {
			switch attacker.team {
			case "red":
				s.match.redScore++
			case "blue":
				s.match.blueScore++
			}
		}
	}

	s.outbox = append(s.outbox, messages.PlayerKilled{
		KillerID:   attackerID,
		VictimID:   victim.playerID,
		KillerName: killerName,
		VictimName: victim.name,
	})
}
