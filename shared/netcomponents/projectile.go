package netcomponents

import "github.com/yohamta/donburi"

// NetProjectileData is the wire state of one bullet.
type NetProjectileData struct {
	X, Y    float64
	VelX    float64 // bullets travel horizontally
	OwnerID string
	Team    string
}

var NetProjectile = donburi.NewComponentType[NetProjectileData]()

// LerpNetProjectile interpolates positions between two projectile states.
func LerpNetProjectile(from, to NetProjectileData, t float64) *NetProjectileData {
	return &NetProjectileData{
		X:       from.X + (to.X-from.X)*t,
		Y:       from.Y + (to.Y-from.Y)*t,
		VelX:    to.VelX,
		OwnerID: to.OwnerID,
		Team:    to.Team,
	}
}
