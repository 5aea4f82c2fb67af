package client

import (
	"github.com/pixelfray/strayfire/shared/arena"
	"github.com/pixelfray/strayfire/shared/messages"
	"github.com/pixelfray/strayfire/shared/sim"
)

// Predictor runs the local avatar's simulation ahead of the server. It owns
// a private collision space built from the same arena definition the server
// uses, so prediction and authority disagree only through latency, never
// through geometry.
type Predictor struct {
	space *arena.Space
	body  *arena.Body
	state sim.State

	wasDashing bool
}

func NewPredictor(def *arena.Def, x, y float64) *Predictor {
	space := arena.NewSpace(def)
	return &Predictor{
		space: space,
		body:  space.NewBody(x, y),
		state: sim.NewState(x, y),
	}
}

// Step advances the prediction by one local tick and reports a dash state
// transition when one happened, so the session can notify the server on
// edges instead of every tick.
func (p *Predictor) Step(in sim.Input, dtMs float64) (dashChanged bool) {
	sim.Step(&p.state, in, dtMs, p.body)

	dashChanged = p.state.Dashing != p.wasDashing
	p.wasDashing = p.state.Dashing
	return dashChanged
}

// State exposes the predictive copy for reconciliation. It is advisory; the
// authoritative copy on the server supersedes it on every conflict.
func (p *Predictor) State() *sim.State { return &p.state }

// Reset rebases the prediction onto an authoritative position, used on spawn
// and respawn.
func (p *Predictor) Reset(x, y float64) {
	p.state = sim.NewState(x, y)
	p.body.SetPosition(x, y)
	p.wasDashing = false
}

// MoveIntent renders the current prediction as the periodic move report.
func (p *Predictor) MoveIntent() messages.MoveIntent {
	return messages.MoveIntent{
		X:      p.state.X,
		Y:      p.state.Y,
		VelX:   p.state.VelX,
		VelY:   p.state.VelY,
		Facing: p.state.Facing,
	}
}
