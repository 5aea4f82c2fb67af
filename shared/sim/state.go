// Package sim implements the movement state machine shared by the
// authoritative server and the predicting client. It is pure simulation:
// world geometry is reached only through the Collider interface, and a step
// never blocks or allocates.
package sim

// Input is one tick's worth of abstract device intent. It is immutable once
// produced and consumed by exactly one simulation step.
type Input struct {
	Left, Right, Up, Down bool
	Jump, Dash, Shoot     bool
	TimestampMs           int64
}

// DirX resolves horizontal intent. Opposite keys held together cancel to
// zero, matching how both sides read the keyboard.
func (in Input) DirX() int {
	switch {
	case in.Left && !in.Right:
		return -1
	case in.Right && !in.Left:
		return 1
	}
	return 0
}

const (
	maskLeft = 1 << iota
	maskRight
	maskUp
	maskDown
)

func dirMask(in Input) uint8 {
	var m uint8
	if in.Left {
		m |= maskLeft
	}
	if in.Right {
		m |= maskRight
	}
	if in.Up {
		m |= maskUp
	}
	if in.Down {
		m |= maskDown
	}
	return m
}

// Collider resolves attempted movement against world geometry. Implementations
// carry the body's position; the state machine mirrors it into State after
// every step.
type Collider interface {
	// MoveX attempts horizontal movement, stopping at walls.
	// Reports whether a wall cut the move short.
	MoveX(dx float64) (hitWall bool)
	// MoveY attempts vertical movement. For dy >= 0 it probes one extra
	// pixel downward so a resting body keeps reporting contact; landed is
	// true when the body ends the move supported by a surface.
	MoveY(dy float64) (landed, hitCeiling bool)
	Position() (x, y float64)
	SetPosition(x, y float64)
}

// State is the kinematic state of one avatar. The server owns the canonical
// copy; each client owns a predictive copy of its own avatar only.
type State struct {
	X, Y       float64
	VelX, VelY float64
	Facing     int // -1 or 1
	Grounded   bool
	Crouching  bool
	CoyoteMs   float64 // jump grace remaining after leaving the ground

	Dashing        bool
	DashMs         float64 // dash time remaining
	DashCooldownMs float64
	DashCharge     bool // one dash per airborne excursion, re-armed on landing
	DashDirX       float64
	DashDirY       float64

	// Edge detection and dash buffering internals.
	jumpWasPressed bool
	dashWasPressed bool
	dashHeld       uint8 // directional keys captured at dash commit
	buffer         dashBuffer
}

// NewState returns a grounded avatar at the given position, facing right,
// with its dash charge armed.
func NewState(x, y float64) State {
	return State{
		X:          x,
		Y:          y,
		Facing:     1,
		Grounded:   true,
		CoyoteMs:   CoyoteTime,
		DashCharge: true,
	}
}
