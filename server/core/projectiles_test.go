package core

import (
	"testing"

	"github.com/pixelfray/strayfire/shared/messages"
	"github.com/pixelfray/strayfire/shared/netcomponents"
)

// placeAvatar moves a session's collision body and canonical state together.
func placeAvatar(sess *playerSession, x, y float64) {
	sess.kin.X, sess.kin.Y = x, y
	sess.body.SetPosition(x, y)
}

func muzzleFor(sess *playerSession) messages.ShootIntent {
	x, y, w, h := sess.body.Rect()
	return messages.ShootIntent{X: x + w/2, Y: y + h/2}
}

func TestFireRespectsCooldown(t *testing.T) {
	s := newTestServer()
	shooter := addTestPlayer(t, s, "shooter")
	shooter.shot = muzzleFor(shooter)

	s.fireProjectile(shooter)
	s.fireProjectile(shooter)

	if len(s.projectiles) != 1 {
		t.Fatalf("got %d projectiles from back-to-back shots, want 1", len(s.projectiles))
	}
	if shooter.fireCooldownMs != FireCooldown {
		t.Errorf("fireCooldownMs = %v, want %v", shooter.fireCooldownMs, FireCooldown)
	}
}

func TestFireClampsStrayMuzzle(t *testing.T) {
	s := newTestServer()
	shooter := addTestPlayer(t, s, "shooter")
	x, y, w, h := shooter.body.Rect()
	cx, cy := x+w/2, y+h/2

	shooter.shot = messages.ShootIntent{X: cx + MuzzleTolerance*3, Y: cy}
	s.fireProjectile(shooter)

	for _, data := range collectProjectiles(s.world) {
		if data.X != cx-ProjectileWidth/2 {
			t.Errorf("projectile X = %v, want %v (clamped to avatar center)",
				data.X, cx-ProjectileWidth/2)
		}
	}
	if len(s.projectiles) != 1 {
		t.Fatalf("got %d projectiles, want 1", len(s.projectiles))
	}
}

func TestProjectileHitsEnemyAndDamages(t *testing.T) {
	s := newTestServer()
	shooter := addTestPlayer(t, s, "shooter") // red
	target := addTestPlayer(t, s, "target")   // blue

	placeAvatar(shooter, 200, 300)
	placeAvatar(target, 260, 300)
	shooter.kin.Facing = 1
	shooter.shot = muzzleFor(shooter)
	s.fireProjectile(shooter)

	for i := 0; i < 20 && len(s.projectiles) > 0; i++ {
		s.stepProjectiles(16)
	}

	if len(s.projectiles) != 0 {
		t.Fatal("projectile survived flying through an enemy")
	}
	if target.health != MaxHealth-ProjectileDamage {
		t.Errorf("target health = %d, want %d", target.health, MaxHealth-ProjectileDamage)
	}
}

func TestProjectileIgnoresTeammatesAndOwner(t *testing.T) {
	s := newTestServer()
	shooter := addTestPlayer(t, s, "shooter") // red
	addTestPlayer(t, s, "other")              // blue, placed far away
	mate := addTestPlayer(t, s, "mate")       // red

	placeAvatar(shooter, 200, 300)
	placeAvatar(mate, 260, 300)
	shooter.kin.Facing = 1
	shooter.shot = muzzleFor(shooter)
	s.fireProjectile(shooter)

	for i := 0; i < 10; i++ {
		s.stepProjectiles(16)
	}

	if mate.health != MaxHealth {
		t.Errorf("teammate took damage: health = %d", mate.health)
	}
	if shooter.health != MaxHealth {
		t.Errorf("owner took damage: health = %d", shooter.health)
	}
}

func TestProjectileIgnoresDeadAvatars(t *testing.T) {
	s := newTestServer()
	shooter := addTestPlayer(t, s, "shooter")
	target := addTestPlayer(t, s, "target")
	target.dead = true

	placeAvatar(shooter, 200, 300)
	placeAvatar(target, 260, 300)
	shooter.kin.Facing = 1
	shooter.shot = muzzleFor(shooter)
	s.fireProjectile(shooter)

	for i := 0; i < 10; i++ {
		s.stepProjectiles(16)
	}

	if target.health != MaxHealth {
		t.Errorf("dead avatar took damage: health = %d", target.health)
	}
}

func TestProjectileExpiresAtLifetime(t *testing.T) {
	s := newTestServer()
	shooter := addTestPlayer(t, s, "shooter")
	placeAvatar(shooter, 200, 100)
	shooter.kin.Facing = 1
	shooter.shot = muzzleFor(shooter)
	s.fireProjectile(shooter)

	s.stepProjectiles(ProjectileLifetime + 1)

	if len(s.projectiles) != 0 {
		t.Fatal("projectile survived past its lifetime")
	}
	if projs := collectProjectiles(s.world); len(projs) != 0 {
		t.Fatal("world still holds the expired projectile entity")
	}
}

func TestProjectileStopsAtWall(t *testing.T) {
	s := newTestServer()
	shooter := addTestPlayer(t, s, "shooter")
	placeAvatar(shooter, 100, 300)
	shooter.kin.Facing = -1 // toward the left wall
	shooter.shot = muzzleFor(shooter)
	s.fireProjectile(shooter)

	for i := 0; i < 30 && len(s.projectiles) > 0; i++ {
		s.stepProjectiles(16)
	}

	if len(s.projectiles) != 0 {
		t.Fatal("projectile survived hitting the arena wall")
	}
}

func TestProjectileRemovalReachesTheDiff(t *testing.T) {
	s := newTestServer()
	shooter := addTestPlayer(t, s, "shooter")
	placeAvatar(shooter, 200, 100)
	shooter.kin.Facing = 1
	shooter.shot = muzzleFor(shooter)
	s.fireProjectile(shooter)

	first := s.sync.Diff(1, collectAvatars(s.world), collectProjectiles(s.world), netcomponents.NetMatchData{})
	var projID string
	for _, msg := range first {
		if m, ok := msg.(messages.ProjectileAdded); ok {
			projID = m.ID
		}
	}
	if projID == "" {
		t.Fatal("projectile add never reached the diff")
	}

	s.stepProjectiles(ProjectileLifetime + 1)

	second := s.sync.Diff(2, collectAvatars(s.world), collectProjectiles(s.world), netcomponents.NetMatchData{})
	removed := false
	for _, msg := range second {
		if m, ok := msg.(messages.ProjectileRemoved); ok && m.ID == projID {
			removed = true
		}
	}
	if !removed {
		t.Fatal("projectile removal never reached the diff")
	}
}
