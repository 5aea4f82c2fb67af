package messages

// MoveIntent reports the client's predicted kinematics, sent once per local
// simulation tick while connected. The server folds it into the canonical
// state last-write-wins, then advances its own movement machine from there.
type MoveIntent struct {
	X, Y       float64
	VelX, VelY float64
	Facing     int // -1 left, 1 right
}

// Valid screens the payload for non-finite numbers before transmission or
// application. A NaN that reaches the canonical state corrupts that avatar's
// simulation permanently, so malformed intents are dropped, never repaired.
func (m MoveIntent) Valid() bool {
	return Finite(m.X, m.Y, m.VelX, m.VelY) && (m.Facing == -1 || m.Facing == 1)
}

// DashIntent is sent on dash state transitions only, never periodically.
type DashIntent struct {
	Active bool
}

// ShootIntent is sent once per accepted shot; the muzzle position is the
// client's view of where the bullet left the avatar. Rate-limited client-side
// and re-validated server-side.
type ShootIntent struct {
	X, Y float64
}

func (s ShootIntent) Valid() bool {
	return Finite(s.X, s.Y)
}
