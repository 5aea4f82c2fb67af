// Package netcomponents defines the donburi components carried by snapshot
// messages. It must stay free of transport and simulation dependencies so
// both binaries share identical wire shapes.
package netcomponents

import "github.com/yohamta/donburi"

// NetAvatarData is the externally visible state of one avatar. Produced by
// the server once per broadcast tick; read-only on clients.
type NetAvatarData struct {
	X, Y       float64
	VelX, VelY float64
	Health     int // 0..100
	Team       string
	Facing     int // -1 left, 1 right
	Dashing    bool
	Dead       bool
	RespawnMs  float64 // remaining respawn time, server-computed
}

var NetAvatar = donburi.NewComponentType[NetAvatarData]()

// LerpNetAvatar interpolates positions between two avatar states. Discrete
// fields always come from the newer state.
func LerpNetAvatar(from, to NetAvatarData, t float64) *NetAvatarData {
	return &NetAvatarData{
		X:         from.X + (to.X-from.X)*t,
		Y:         from.Y + (to.Y-from.Y)*t,
		VelX:      to.VelX,
		VelY:      to.VelY,
		Health:    to.Health,
		Team:      to.Team,
		Facing:    to.Facing,
		Dashing:   to.Dashing,
		Dead:      to.Dead,
		RespawnMs: to.RespawnMs,
	}
}
