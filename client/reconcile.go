package client

import (
	"math"

	"github.com/pixelfray/strayfire/shared/netcomponents"
	"github.com/pixelfray/strayfire/shared/sim"
)

// Reconciliation tuning.
const (
	// Errors below the dead zone are discarded outright; correcting them
	// would read as constant micro-jitter.
	ReconcileDeadZone = 5.0
	// Fraction of the remaining error consumed per second of frame time.
	ReconcileRate = 12.0
	// Above this error magnitude the avatar teleports instead of blending.
	SnapThreshold = 48.0
	// Dashing desynchronizes the two simulations on purpose, so the snap
	// threshold widens while a dash is active and for a short grace period
	// after it ends.
	DashSnapThreshold = 220.0
	DashSnapGraceMs   = 250.0
)

// Reconciler corrects the local avatar's predicted position toward the
// server's authoritative one. It keeps the residual error vector and drains
// it a little every frame, so corrections read as drift instead of jumps.
// It also watches the authoritative health and death flags and turns their
// transitions into events; neither is ever computed locally.
type Reconciler struct {
	errX, errY float64
	graceMs    float64

	health     int
	dead       bool
	wasDashing bool
	seen       bool
}

// Error returns the current residual prediction error vector.
func (r *Reconciler) Error() (dx, dy float64) {
	return r.errX, r.errY
}

// Observe ingests one authoritative update for the local avatar, replacing
// the pending error vector and emitting health and death transitions. It must
// be called once per update, not once per frame: the snapshot lags the
// prediction by transport and tick-rate delay, so re-observing it while the
// prediction moves on keeps replacing the error with a stale delta and drags
// the avatar back onto the old server position.
func (r *Reconciler) Observe(st *sim.State, snap netcomponents.NetAvatarData) []Event {
	var events []Event

	if r.seen {
		switch {
		case !r.dead && snap.Dead:
			events = append(events, Event{Kind: EventLocalDied, RespawnMs: snap.RespawnMs})
		case r.dead && !snap.Dead:
			events = append(events, Event{Kind: EventLocalRespawned})
		case !snap.Dead && snap.Health < r.health:
			events = append(events, Event{Kind: EventLocalHit, Health: snap.Health})
		}
	}
	r.health = snap.Health
	r.dead = snap.Dead
	r.seen = true

	dashing := st.Dashing || snap.Dashing
	if r.wasDashing && !dashing {
		r.graceMs = DashSnapGraceMs
	}
	r.wasDashing = dashing

	dx := snap.X - st.X
	dy := snap.Y - st.Y
	mag := math.Hypot(dx, dy)

	if mag < ReconcileDeadZone {
		r.errX, r.errY = 0, 0
		return events
	}

	threshold := SnapThreshold
	if dashing || r.graceMs > 0 {
		threshold = DashSnapThreshold
	}
	if mag > threshold {
		st.X, st.Y = snap.X, snap.Y
		r.errX, r.errY = 0, 0
		return events
	}

	r.errX, r.errY = dx, dy
	return events
}

// Step drains the residual error into the predicted position. The consumed
// fraction is capped at 1 so the correction can never overshoot the
// authoritative position, and the residual is zeroed once it falls inside
// the dead zone.
func (r *Reconciler) Step(st *sim.State, dtMs float64) {
	if r.graceMs > 0 {
		r.graceMs = math.Max(0, r.graceMs-dtMs)
	}
	if r.errX == 0 && r.errY == 0 {
		return
	}

	f := math.Min(1, ReconcileRate*dtMs/1000.0)
	st.X += r.errX * f
	st.Y += r.errY * f
	r.errX -= r.errX * f
	r.errY -= r.errY * f

	if math.Hypot(r.errX, r.errY) < ReconcileDeadZone {
		st.X += r.errX
		st.Y += r.errY
		r.errX, r.errY = 0, 0
	}
}
