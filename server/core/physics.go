package core

import (
	"math"

	"github.com/pixelfray/strayfire/shared/sim"
)

// Velocity below which a reported move stops counting as directional input.
const inputDirThreshold = 20.0

// stepAvatars advances every avatar's canonical state by one tick. A fresh
// move intent is folded in first (last-write-wins, no queueing across
// ticks); the movement machine then advances from there so gravity,
// collision, and dash physics stay authoritative even for a silent client.
func (s *Server) stepAvatars(dtMs float64) {
	for _, sess := range s.sessions {
		if sess.dead {
			sess.respawnMs -= dtMs
			if sess.respawnMs <= 0 {
				s.respawn(sess)
			}
			s.writeAvatar(sess)
			continue
		}

		if sess.moveFresh {
			m := sess.move
			sess.kin.X, sess.kin.Y = m.X, m.Y
			sess.kin.VelX, sess.kin.VelY = m.VelX, m.VelY
			sess.kin.Facing = m.Facing
			sess.moveFresh = false

			sess.inputDir = 0
			if math.Abs(m.VelX) > inputDirThreshold {
				sess.inputDir = 1
				if m.VelX < 0 {
					sess.inputDir = -1
				}
			}
		}

		in := sim.Input{
			Left:  sess.inputDir < 0,
			Right: sess.inputDir > 0,
		}
		sim.Step(&sess.kin, in, dtMs, sess.body)

		if sess.fireCooldownMs > 0 {
			sess.fireCooldownMs = math.Max(0, sess.fireCooldownMs-dtMs)
		}
		if sess.shotFresh {
			s.fireProjectile(sess)
			sess.shotFresh = false
		}

		s.writeAvatar(sess)
	}
}

func (s *Server) respawn(sess *playerSession) {
	sess.spawnCount++
	sp := s.def.SpawnFor(sess.team, sess.spawnCount)
	sess.kin = sim.NewState(sp.X, sp.Y)
	sess.body.SetPosition(sp.X, sp.Y)
	sess.health = MaxHealth
	sess.dead = false
	sess.respawnMs = 0
	sess.moveFresh = false
	sess.inputDir = 0
}
