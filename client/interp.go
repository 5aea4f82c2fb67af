package client

import (
	"github.com/pixelfray/strayfire/shared/netcomponents"
)

// Fraction of the distance to the latest snapshot position covered per frame.
const RemoteBlendFactor = 0.35

// RemoteView is the renderable state of one remote entity: a smoothed
// position plus the discrete fields taken verbatim from the newest snapshot.
type RemoteView struct {
	X, Y  float64
	State netcomponents.NetAvatarData
}

// ProjectileView is the renderable state of one remote projectile.
type ProjectileView struct {
	X, Y  float64
	State netcomponents.NetProjectileData
}

// Interpolator lags every remote entity's visible position behind its latest
// snapshot position by a fixed per-frame blend. Facing, dash, and death flags
// are binary and apply immediately. Entities absent from the target set are
// torn down the same frame; the replica's tombstones keep late updates from
// bringing them back.
type Interpolator struct {
	avatars     map[string]*RemoteView
	projectiles map[string]*ProjectileView
}

func NewInterpolator() *Interpolator {
	return &Interpolator{
		avatars:     make(map[string]*RemoteView),
		projectiles: make(map[string]*ProjectileView),
	}
}

// Step pulls every view toward its target. localID is skipped; the local
// avatar is positioned by prediction and reconciliation, never interpolation.
func (it *Interpolator) Step(
	avatars map[string]netcomponents.NetAvatarData,
	projectiles map[string]netcomponents.NetProjectileData,
	localID string,
) {
	for id, target := range avatars {
		if id == localID {
			continue
		}
		view, ok := it.avatars[id]
		if !ok {
			// First sight: no history to blend from.
			it.avatars[id] = &RemoteView{X: target.X, Y: target.Y, State: target}
			continue
		}
		from := view.State
		from.X, from.Y = view.X, view.Y
		blended := netcomponents.LerpNetAvatar(from, target, RemoteBlendFactor)
		view.X, view.Y = blended.X, blended.Y
		view.State = target
	}
	for id := range it.avatars {
		if _, ok := avatars[id]; !ok {
			delete(it.avatars, id)
		}
	}

	for id, target := range projectiles {
		view, ok := it.projectiles[id]
		if !ok {
			it.projectiles[id] = &ProjectileView{X: target.X, Y: target.Y, State: target}
			continue
		}
		from := view.State
		from.X, from.Y = view.X, view.Y
		blended := netcomponents.LerpNetProjectile(from, target, RemoteBlendFactor)
		view.X, view.Y = blended.X, blended.Y
		view.State = target
	}
	for id := range it.projectiles {
		if _, ok := projectiles[id]; !ok {
			delete(it.projectiles, id)
		}
	}
}

// Avatar returns the smoothed view for one remote avatar.
func (it *Interpolator) Avatar(id string) (RemoteView, bool) {
	view, ok := it.avatars[id]
	if !ok {
		return RemoteView{}, false
	}
	return *view, true
}

// Avatars returns every smoothed remote avatar view keyed by id.
func (it *Interpolator) Avatars() map[string]RemoteView {
	out := make(map[string]RemoteView, len(it.avatars))
	for id, view := range it.avatars {
		out[id] = *view
	}
	return out
}

// Projectiles returns every smoothed projectile view keyed by id.
func (it *Interpolator) Projectiles() map[string]ProjectileView {
	out := make(map[string]ProjectileView, len(it.projectiles))
	for id, view := range it.projectiles {
		out[id] = *view
	}
	return out
}
