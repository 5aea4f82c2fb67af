package messages

import "github.com/pixelfray/strayfire/shared/netcomponents"

// Snapshot diff events. The synchronizer emits exactly one add, update, or
// remove per changed entity per tick; unchanged entities are never re-sent.
// Tick is the room's monotonically increasing simulation tick, letting
// clients discard an update that arrives after a newer one for the same
// entity.

type AvatarAdded struct {
	Tick  uint64
	ID    string
	State netcomponents.NetAvatarData
}

type AvatarUpdated struct {
	Tick  uint64
	ID    string
	State netcomponents.NetAvatarData
}

type AvatarRemoved struct {
	Tick uint64
	ID   string
}

type ProjectileAdded struct {
	Tick  uint64
	ID    string
	State netcomponents.NetProjectileData
}

type ProjectileUpdated struct {
	Tick  uint64
	ID    string
	State netcomponents.NetProjectileData
}

type ProjectileRemoved struct {
	Tick uint64
	ID   string
}

// MatchUpdated carries the match singleton, broadcast only when it changes.
type MatchUpdated struct {
	Tick  uint64
	State netcomponents.NetMatchData
}
