// Package arena provides the world geometry the simulation collides against:
// axis-aligned platform rectangles, arena bounds, per-team spawn points, and
// a resolv-backed collision space. It has no dependency on the network layer
// so both binaries and the tests can use it directly.
package arena

// Platform is one solid axis-aligned rectangle.
type Platform struct {
	X, Y, W, H float64
}

// SpawnPoint is a team-tagged spawn location.
type SpawnPoint struct {
	X, Y float64
	Team string
}

// Def is a parsed arena definition.
type Def struct {
	Name          string
	Width, Height int // pixel bounds
	Platforms     []Platform
	Spawns        []SpawnPoint
}

// SpawnFor returns the n-th spawn point for a team, cycling through the
// available ones. Falls back to the arena center when the team has none.
func (d *Def) SpawnFor(team string, n int) SpawnPoint {
	var matching []SpawnPoint
	for _, sp := range d.Spawns {
		if sp.Team == team {
			matching = append(matching, sp)
		}
	}
	if len(matching) == 0 {
		return SpawnPoint{X: float64(d.Width) / 2, Y: float64(d.Height) / 2, Team: team}
	}
	return matching[n%len(matching)]
}

// Contains reports whether a point lies inside the arena bounds.
func (d *Def) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= float64(d.Width) && y <= float64(d.Height)
}

// Default returns a built-in arena so the server can run without a TMX file
// on disk: a floor, two side ledges, and a center platform.
func Default() *Def {
	return &Def{
		Name:   "quarry",
		Width:  960,
		Height: 540,
		Platforms: []Platform{
			{X: 0, Y: 516, W: 960, H: 24},   // floor
			{X: 96, Y: 400, W: 160, H: 16},  // left ledge
			{X: 704, Y: 400, W: 160, H: 16}, // right ledge
			{X: 400, Y: 312, W: 160, H: 16}, // center platform
			{X: 0, Y: 0, W: 16, H: 540},     // left wall
			{X: 944, Y: 0, W: 16, H: 540},   // right wall
		},
		Spawns: []SpawnPoint{
			{X: 140, Y: 468, Team: "red"},
			{X: 170, Y: 352, Team: "red"},
			{X: 796, Y: 468, Team: "blue"},
			{X: 766, Y: 352, Team: "blue"},
		},
	}
}
