package sim

// Movement tuning. Client prediction and the authoritative server both step
// with these exact values; any drift between the two shows up as permanent
// reconciliation error.
const (
	MaxSpeed     = 360.0  // px/s
	Acceleration = 2400.0 // px/s^2
	Friction     = 1800.0 // px/s^2, toward zero when no horizontal input
	JumpSpeed    = 720.0  // px/s, applied upward on a valid jump
	CoyoteTime   = 90.0   // ms of grace after leaving a surface

	// Gravity regimes. Base value scaled by the current vertical regime;
	// zero while grounded or dashing.
	Gravity            = 1800.0 // px/s^2
	AscendGravityScale = 0.85   // moving upward fast
	HangGravityScale   = 0.45   // near the jump apex
	FallGravityScale   = 1.25   // falling
	FastFallScale      = 1.9    // holding down while falling
	HangVelocityWindow = 60.0   // |vy| px/s considered "near apex"
	MaxFallSpeed       = 900.0  // px/s

	DashPower         = 900.0 // px/s along the dash direction
	DashDuration      = 160.0 // ms
	DashCooldown      = 800.0 // ms, starts when the dash commits
	DashRetention     = 0.40  // velocity kept when the dash ends
	DashCaptureWindow = 48.0  // ms to read directional intent after the dash press
	DashConfirmWindow = 16.0  // ms after the first directional key arrives
	DashIntentBuffer  = 250.0 // ms a dash press is held while on cooldown
)
