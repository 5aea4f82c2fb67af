package sim

import "math"

// Dash buffering. A dash press does not commit instantly: a short capture
// window keeps reading directional keys so diagonal intent that arrives a
// frame or two late is still honored. A press while the dash is on cooldown
// is held in a longer intent buffer and replayed through the same capture
// logic once the cooldown clears.

type dashPhase int

const (
	dashIdle dashPhase = iota
	dashCapture
	dashConfirm
	dashQueued
)

type dashBuffer struct {
	phase    dashPhase
	windowMs float64
}

func updateDashBuffer(st *State, in Input, dtMs float64) {
	pressed := in.Dash && !st.dashWasPressed
	released := !in.Dash && st.dashWasPressed
	st.dashWasPressed = in.Dash

	switch st.buffer.phase {
	case dashIdle:
		if !pressed || st.Dashing || st.Grounded || !st.DashCharge {
			return
		}
		if st.DashCooldownMs > 0 {
			st.buffer = dashBuffer{phase: dashQueued, windowMs: DashIntentBuffer}
			return
		}
		st.buffer = dashBuffer{phase: dashCapture, windowMs: DashCaptureWindow}

	case dashCapture, dashConfirm:
		st.buffer.windowMs -= dtMs
		if st.buffer.phase == dashCapture && dirMask(in) != 0 {
			st.buffer.phase = dashConfirm
			st.buffer.windowMs = math.Min(st.buffer.windowMs, DashConfirmWindow)
		}
		if st.buffer.windowMs <= 0 || (released && dirMask(in) != 0) {
			commitDash(st, in)
		}

	case dashQueued:
		st.buffer.windowMs -= dtMs
		if st.buffer.windowMs <= 0 {
			st.buffer = dashBuffer{}
			return
		}
		if st.DashCooldownMs <= 0 {
			st.buffer = dashBuffer{phase: dashCapture, windowMs: DashCaptureWindow}
		}
	}
}

// StartDash commits a dash from an externally received transition (the
// server applying a client's dash message). The same gates apply as for a
// locally buffered dash; a rejected transition is silently ignored. A zero
// direction falls back to the avatar's facing.
func StartDash(st *State, dirX, dirY float64) bool {
	if st.Dashing || st.Grounded || !st.DashCharge || st.DashCooldownMs > 0 {
		return false
	}
	if dirX == 0 && dirY == 0 {
		dirX = float64(st.Facing)
	}
	inv := 1 / math.Hypot(dirX, dirY)
	st.DashDirX = dirX * inv
	st.DashDirY = dirY * inv
	st.dashHeld = 0 // remote dashes end by duration or StopDash, not key state
	st.Dashing = true
	st.DashMs = DashDuration
	st.DashCooldownMs = DashCooldown
	st.DashCharge = false
	return true
}

// StopDash ends an active dash early, keeping the retention damping.
func StopDash(st *State) {
	if st.Dashing {
		endDash(st)
	}
}

// commitDash re-checks the gates (the state may have changed while the
// buffer ran) and starts the dash, capturing the directional keys held at
// this moment.
func commitDash(st *State, in Input) {
	st.buffer = dashBuffer{}

	if st.Dashing || st.Grounded || !st.DashCharge {
		return
	}
	if st.DashCooldownMs > 0 {
		// Cooldown came back while capturing; hold the intent instead.
		st.buffer = dashBuffer{phase: dashQueued, windowMs: DashIntentBuffer}
		return
	}

	var dx, dy float64
	if in.Left && !in.Right {
		dx = -1
	} else if in.Right && !in.Left {
		dx = 1
	}
	if in.Up && !in.Down {
		dy = -1
	} else if in.Down && !in.Up {
		dy = 1
	}
	if dx == 0 && dy == 0 {
		dx = float64(st.Facing)
	}
	// Unit length so diagonal dashes are not faster than axis-aligned ones.
	inv := 1 / math.Hypot(dx, dy)
	st.DashDirX = dx * inv
	st.DashDirY = dy * inv

	st.dashHeld = dirMask(in)
	st.Dashing = true
	st.DashMs = DashDuration
	st.DashCooldownMs = DashCooldown
	st.DashCharge = false
}
