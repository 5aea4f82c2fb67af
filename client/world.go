package client

import (
	"github.com/yohamta/donburi"

	"github.com/pixelfray/strayfire/shared/messages"
	"github.com/pixelfray/strayfire/shared/netcomponents"
)

// Replica is the client's read-only copy of the room: every avatar and
// projectile the server has announced, plus the match singleton. It applies
// the snapshot diff stream and nothing else; prediction and interpolation
// read from it but never write through it.
//
// Every event carries the server tick it was produced on. A tick older than
// the newest one applied to the same entity is stale (reordered in flight)
// and is dropped. Removal leaves a tombstone so a late add or update cannot
// resurrect the entity.
type Replica struct {
	world donburi.World

	avatars     map[string]*replicaEntry
	projectiles map[string]*replicaEntry
	removed     map[string]uint64 // id -> tick of removal

	match     netcomponents.NetMatchData
	matchTick uint64
	hasMatch  bool
}

type replicaEntry struct {
	entity donburi.Entity
	tick   uint64
}

func NewReplica() *Replica {
	return &Replica{
		world:       donburi.NewWorld(),
		avatars:     make(map[string]*replicaEntry),
		projectiles: make(map[string]*replicaEntry),
		removed:     make(map[string]uint64),
	}
}

// Apply routes one snapshot event into the replica. Unknown message types
// are ignored so the session can feed it the raw event stream.
func (r *Replica) Apply(msg any) {
	switch m := msg.(type) {
	case messages.AvatarAdded:
		r.applyAvatar(m.Tick, m.ID, m.State)
	case messages.AvatarUpdated:
		r.applyAvatar(m.Tick, m.ID, m.State)
	case messages.AvatarRemoved:
		r.remove(r.avatars, m.ID, m.Tick)
	case messages.ProjectileAdded:
		r.applyProjectile(m.Tick, m.ID, m.State)
	case messages.ProjectileUpdated:
		r.applyProjectile(m.Tick, m.ID, m.State)
	case messages.ProjectileRemoved:
		r.remove(r.projectiles, m.ID, m.Tick)
	case messages.MatchUpdated:
		if !r.hasMatch || m.Tick >= r.matchTick {
			r.match = m.State
			r.matchTick = m.Tick
			r.hasMatch = true
		}
	}
}

func (r *Replica) applyAvatar(tick uint64, id string, state netcomponents.NetAvatarData) {
	if removedAt, gone := r.removed[id]; gone && tick <= removedAt {
		return
	}
	if rec, ok := r.avatars[id]; ok {
		if tick < rec.tick {
			return
		}
		rec.tick = tick
		netcomponents.NetAvatar.Set(r.world.Entry(rec.entity), &state)
		return
	}
	entity := r.world.Create(netcomponents.NetID, netcomponents.NetAvatar)
	entry := r.world.Entry(entity)
	netcomponents.NetID.Set(entry, &netcomponents.NetIDData{ID: id})
	netcomponents.NetAvatar.Set(entry, &state)
	r.avatars[id] = &replicaEntry{entity: entity, tick: tick}
	delete(r.removed, id)
}

func (r *Replica) applyProjectile(tick uint64, id string, state netcomponents.NetProjectileData) {
	if removedAt, gone := r.removed[id]; gone && tick <= removedAt {
		return
	}
	if rec, ok := r.projectiles[id]; ok {
		if tick < rec.tick {
			return
		}
		rec.tick = tick
		netcomponents.NetProjectile.Set(r.world.Entry(rec.entity), &state)
		return
	}
	entity := r.world.Create(netcomponents.NetID, netcomponents.NetProjectile)
	entry := r.world.Entry(entity)
	netcomponents.NetID.Set(entry, &netcomponents.NetIDData{ID: id})
	netcomponents.NetProjectile.Set(entry, &state)
	r.projectiles[id] = &replicaEntry{entity: entity, tick: tick}
	delete(r.removed, id)
}

func (r *Replica) remove(entries map[string]*replicaEntry, id string, tick uint64) {
	rec, ok := entries[id]
	if !ok {
		// Remove before add, or a repeated remove. Record the tombstone
		// either way so stragglers stay dead.
		if tick > r.removed[id] {
			r.removed[id] = tick
		}
		return
	}
	delete(entries, id)
	r.removed[id] = tick
	if r.world.Valid(rec.entity) {
		r.world.Remove(rec.entity)
	}
}

// Avatar returns the latest known state for one avatar id.
func (r *Replica) Avatar(id string) (netcomponents.NetAvatarData, bool) {
	rec, ok := r.avatars[id]
	if !ok {
		return netcomponents.NetAvatarData{}, false
	}
	return *netcomponents.NetAvatar.Get(r.world.Entry(rec.entity)), true
}

// AvatarTick returns the newest server tick applied to one avatar id.
// Callers use it to tell a fresh authoritative update from a re-read of the
// same one.
func (r *Replica) AvatarTick(id string) (uint64, bool) {
	rec, ok := r.avatars[id]
	if !ok {
		return 0, false
	}
	return rec.tick, true
}

// Avatars returns the current avatar set keyed by id.
func (r *Replica) Avatars() map[string]netcomponents.NetAvatarData {
	out := make(map[string]netcomponents.NetAvatarData, len(r.avatars))
	for id, rec := range r.avatars {
		out[id] = *netcomponents.NetAvatar.Get(r.world.Entry(rec.entity))
	}
	return out
}

// Projectiles returns the current projectile set keyed by id.
func (r *Replica) Projectiles() map[string]netcomponents.NetProjectileData {
	out := make(map[string]netcomponents.NetProjectileData, len(r.projectiles))
	for id, rec := range r.projectiles {
		out[id] = *netcomponents.NetProjectile.Get(r.world.Entry(rec.entity))
	}
	return out
}

// Match returns the last received match state and whether one has arrived.
func (r *Replica) Match() (netcomponents.NetMatchData, bool) {
	return r.match, r.hasMatch
}
