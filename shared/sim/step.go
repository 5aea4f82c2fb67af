package sim

import "math"

// Step advances one avatar by dtMs milliseconds. The same function runs
// predictively on the client and authoritatively on the server.
func Step(st *State, in Input, dtMs float64, col Collider) {
	dt := dtMs / 1000.0
	col.SetPosition(st.X, st.Y)

	if st.DashCooldownMs > 0 {
		st.DashCooldownMs = math.Max(0, st.DashCooldownMs-dtMs)
	}

	updateDashBuffer(st, in, dtMs)

	if st.Dashing {
		stepDashing(st, in, dtMs, dt, col)
		st.X, st.Y = col.Position()
		st.jumpWasPressed = in.Jump
		return
	}

	st.Crouching = in.Down && st.Grounded

	// Horizontal: accelerate toward max speed, or decelerate toward zero
	// when no direction is held.
	if dir := in.DirX(); dir != 0 {
		st.VelX += float64(dir) * Acceleration * dt
		st.Facing = dir
	} else {
		f := Friction * dt
		switch {
		case st.VelX > f:
			st.VelX -= f
		case st.VelX < -f:
			st.VelX += f
		default:
			st.VelX = 0
		}
	}
	st.VelX = clamp(st.VelX, -MaxSpeed, MaxSpeed)

	// Jump on the key-down transition only, while grounded or within the
	// coyote window.
	if in.Jump && !st.jumpWasPressed && (st.Grounded || st.CoyoteMs > 0) {
		st.VelY = -JumpSpeed
		st.Grounded = false
		st.CoyoteMs = 0
	}
	st.jumpWasPressed = in.Jump

	if !st.Grounded {
		st.VelY += gravityFor(st, in) * dt
		if st.VelY > MaxFallSpeed {
			st.VelY = MaxFallSpeed
		}
	}

	if col.MoveX(st.VelX * dt) {
		st.VelX = 0
	}

	dy := st.VelY * dt
	landed, hitCeiling := col.MoveY(dy)
	if dy >= 0 {
		if landed {
			st.VelY = 0
			st.Grounded = true
			st.DashCharge = true
		} else {
			// Supporting surface check failed: walked off a ledge.
			st.Grounded = false
		}
	}
	if hitCeiling {
		st.VelY = 0
	}

	if st.Grounded {
		st.CoyoteMs = CoyoteTime
	} else {
		st.CoyoteMs = math.Max(0, st.CoyoteMs-dtMs)
	}

	st.X, st.Y = col.Position()
}

// stepDashing advances an active dash: fixed velocity along the captured
// direction, gravity suspended.
func stepDashing(st *State, in Input, dtMs, dt float64, col Collider) {
	st.DashMs -= dtMs
	ended := st.DashMs <= 0
	// Releasing every directional key captured at dash start ends it early.
	if !ended && st.dashHeld != 0 && dirMask(in)&st.dashHeld == 0 {
		ended = true
	}
	if ended {
		endDash(st)
		return
	}

	st.VelX = st.DashDirX * DashPower
	st.VelY = st.DashDirY * DashPower

	if col.MoveX(st.VelX * dt) {
		st.VelX = 0
	}
	dy := st.VelY * dt
	landed, hitCeiling := col.MoveY(dy)
	if dy >= 0 && landed {
		// A downward dash that touches ground ends there.
		endDash(st)
		st.VelY = 0
		st.Grounded = true
		st.DashCharge = true
		st.CoyoteMs = CoyoteTime
		return
	}
	if hitCeiling {
		st.VelY = 0
	}
}

func endDash(st *State) {
	st.Dashing = false
	st.DashMs = 0
	st.dashHeld = 0
	st.VelX *= DashRetention
	st.VelY *= DashRetention
}

// gravityFor picks the gravity regime from the vertical velocity.
func gravityFor(st *State, in Input) float64 {
	switch {
	case in.Down && st.VelY > 0:
		return Gravity * FastFallScale
	case st.VelY < -HangVelocityWindow:
		return Gravity * AscendGravityScale
	case math.Abs(st.VelY) <= HangVelocityWindow:
		return Gravity * HangGravityScale
	default:
		return Gravity * FallGravityScale
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
