package core

import (
	"fmt"
	"math"

	"github.com/pixelfray/strayfire/shared/arena"
	"github.com/pixelfray/strayfire/shared/netcomponents"

	"github.com/yohamta/donburi"
)

// projectile is the server-only bookkeeping for one bullet; the wire state
// lives in its NetProjectile component.
type projectile struct {
	id      string
	entity  donburi.Entity
	ownerID string
	team    string
	lifeMs  float64
}

// fireProjectile validates and executes a pending shoot intent. Rejections
// (cooldown, dead, absurd muzzle position) are silent; the client simply
// never sees the bullet appear.
func (s *Server) fireProjectile(sess *playerSession) {
	if sess.fireCooldownMs > 0 {
		return
	}

	ax, ay, aw, ah := sess.body.Rect()
	cx, cy := ax+aw/2, ay+ah/2
	mx, my := sess.shot.X, sess.shot.Y
	// A muzzle too far from the avatar is a stale or bogus report; fire
	// from the avatar center instead of rejecting outright.
	if math.Hypot(mx-cx, my-cy) > MuzzleTolerance {
		mx, my = cx, cy
	}

	id := fmt.Sprintf("proj-%d", s.nextProjectile.Add(1))
	entity := s.world.Create(netcomponents.NetID, netcomponents.NetProjectile)
	entry := s.world.Entry(entity)
	netcomponents.NetID.Set(entry, &netcomponents.NetIDData{ID: id})
	netcomponents.NetProjectile.Set(entry, &netcomponents.NetProjectileData{
		X:       mx - ProjectileWidth/2,
		Y:       my - ProjectileHeight/2,
		VelX:    float64(sess.kin.Facing) * ProjectileSpeed,
		OwnerID: sess.playerID,
		Team:    sess.team,
	})

	s.projectiles[id] = &projectile{
		id:      id,
		entity:  entity,
		ownerID: sess.playerID,
		team:    sess.team,
		lifeMs:  ProjectileLifetime,
	}
	sess.fireCooldownMs = FireCooldown
}

// stepProjectiles advances every bullet and resolves collisions: platform,
// avatar hit, lifetime expiry, and bounds exit all destroy the bullet.
func (s *Server) stepProjectiles(dtMs float64) {
	var expired []string

	for id, p := range s.projectiles {
		entry := s.world.Entry(p.entity)
		data := netcomponents.NetProjectile.Get(entry)
		data.X += data.VelX * dtMs / 1000.0
		p.lifeMs -= dtMs

		switch {
		case p.lifeMs <= 0:
			expired = append(expired, id)
		case !s.def.Contains(data.X+ProjectileWidth/2, data.Y+ProjectileHeight/2):
			expired = append(expired, id)
		case s.space.HitsPlatform(data.X, data.Y, ProjectileWidth, ProjectileHeight):
			expired = append(expired, id)
		default:
			if victim := s.projectileHit(p, data); victim != nil {
				s.damage(victim, p.ownerID, ProjectileDamage)
				expired = append(expired, id)
			}
		}
	}

	for _, id := range expired {
		s.removeProjectile(id)
	}
}

// projectileHit returns the first living enemy avatar the bullet overlaps.
func (s *Server) projectileHit(p *projectile, data *netcomponents.NetProjectileData) *playerSession {
	for _, sess := range s.byID {
		if sess.dead || sess.team == p.team || sess.playerID == p.ownerID {
			continue
		}
		bx, by, bw, bh := sess.body.Rect()
		if arena.Intersects(data.X, data.Y, ProjectileWidth, ProjectileHeight, bx, by, bw, bh) {
			return sess
		}
	}
	return nil
}

func (s *Server) removeProjectile(id string) {
	p, ok := s.projectiles[id]
	if !ok {
		return
	}
	delete(s.projectiles, id)
	if s.world.Valid(p.entity) {
		s.world.Remove(p.entity)
	}
}
