package core

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/pixelfray/strayfire/shared/messages"
	"github.com/pixelfray/strayfire/shared/netcomponents"
)

// Synchronizer turns successive world snapshots into minimal event streams.
// It remembers the last snapshot it emitted and, for each networked entity,
// produces exactly one add, update, or remove per tick, and nothing when the
// entity did not change. Every event carries the tick it was produced on so
// receivers can discard stale reordered deliveries.
type Synchronizer struct {
	prevAvatars     map[string]netcomponents.NetAvatarData
	prevProjectiles map[string]netcomponents.NetProjectileData
	prevMatch       netcomponents.NetMatchData
	hasMatch        bool
}

func NewSynchronizer() *Synchronizer {
	return &Synchronizer{
		prevAvatars:     make(map[string]netcomponents.NetAvatarData),
		prevProjectiles: make(map[string]netcomponents.NetProjectileData),
	}
}

// Diff compares the given snapshot against the previous one and returns the
// events that transform one into the other. Adds are emitted for unseen ids,
// updates only when the state actually differs, removes for ids that vanished.
func (sy *Synchronizer) Diff(
	tick uint64,
	avatars map[string]netcomponents.NetAvatarData,
	projectiles map[string]netcomponents.NetProjectileData,
	match netcomponents.NetMatchData,
) []any {
	var out []any

	for id, cur := range avatars {
		prev, seen := sy.prevAvatars[id]
		switch {
		case !seen:
			out = append(out, messages.AvatarAdded{Tick: tick, ID: id, State: cur})
		case cur != prev:
			out = append(out, messages.AvatarUpdated{Tick: tick, ID: id, State: cur})
		}
	}
	for id := range sy.prevAvatars {
		if _, ok := avatars[id]; !ok {
			out = append(out, messages.AvatarRemoved{Tick: tick, ID: id})
		}
	}

	for id, cur := range projectiles {
		prev, seen := sy.prevProjectiles[id]
		switch {
		case !seen:
			out = append(out, messages.ProjectileAdded{Tick: tick, ID: id, State: cur})
		case cur != prev:
			out = append(out, messages.ProjectileUpdated{Tick: tick, ID: id, State: cur})
		}
	}
	for id := range sy.prevProjectiles {
		if _, ok := projectiles[id]; !ok {
			out = append(out, messages.ProjectileRemoved{Tick: tick, ID: id})
		}
	}

	if !sy.hasMatch || match != sy.prevMatch {
		out = append(out, messages.MatchUpdated{Tick: tick, State: match})
		sy.prevMatch = match
		sy.hasMatch = true
	}

	sy.prevAvatars = avatars
	sy.prevProjectiles = projectiles
	return out
}

var (
	avatarQuery     = donburi.NewQuery(filter.Contains(netcomponents.NetID, netcomponents.NetAvatar))
	projectileQuery = donburi.NewQuery(filter.Contains(netcomponents.NetID, netcomponents.NetProjectile))
)

func collectAvatars(world donburi.World) map[string]netcomponents.NetAvatarData {
	out := make(map[string]netcomponents.NetAvatarData)
	avatarQuery.Each(world, func(entry *donburi.Entry) {
		id := netcomponents.NetID.Get(entry).ID
		out[id] = *netcomponents.NetAvatar.Get(entry)
	})
	return out
}

func collectProjectiles(world donburi.World) map[string]netcomponents.NetProjectileData {
	out := make(map[string]netcomponents.NetProjectileData)
	projectileQuery.Each(world, func(entry *donburi.Entry) {
		id := netcomponents.NetID.Get(entry).ID
		out[id] = *netcomponents.NetProjectile.Get(entry)
	})
	return out
}
