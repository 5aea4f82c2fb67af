package client

import (
	"testing"

	"github.com/pixelfray/strayfire/shared/arena"
	"github.com/pixelfray/strayfire/shared/sim"
)

func TestPredictorReportsDashTransitions(t *testing.T) {
	p := NewPredictor(arena.Default(), 300, 200)

	// First step discovers there is no support underneath.
	if changed := p.Step(sim.Input{Right: true}, 16); changed {
		t.Fatal("dash transition reported while falling")
	}
	if p.State().Grounded {
		t.Fatal("predictor grounded in mid-air")
	}

	// Dash press opens the capture window; releasing with a direction held
	// commits it.
	p.Step(sim.Input{Right: true, Dash: true}, 16)
	changed := p.Step(sim.Input{Right: true}, 16)
	if !changed || !p.State().Dashing {
		t.Fatalf("dash commit not reported: changed=%v dashing=%v", changed, p.State().Dashing)
	}

	// Riding the dash out reports the end transition exactly once.
	endReports := 0
	for i := 0; i < 20; i++ {
		if p.Step(sim.Input{Right: true}, 16) {
			endReports++
		}
	}
	if endReports != 1 {
		t.Errorf("dash end reported %d times, want 1", endReports)
	}
	if p.State().Dashing {
		t.Error("dash still active after its duration")
	}
}

func TestPredictorMoveIntentMirrorsState(t *testing.T) {
	p := NewPredictor(arena.Default(), 140, 468)

	for i := 0; i < 10; i++ {
		p.Step(sim.Input{Right: true}, 16)
	}

	mv := p.MoveIntent()
	st := p.State()
	if mv.X != st.X || mv.Y != st.Y || mv.VelX != st.VelX || mv.VelY != st.VelY || mv.Facing != st.Facing {
		t.Errorf("move intent %+v does not mirror state %+v", mv, st)
	}
	if !mv.Valid() {
		t.Errorf("move intent from a healthy simulation invalid: %+v", mv)
	}
	if mv.VelX <= 0 || mv.Facing != 1 {
		t.Errorf("expected rightward motion, got %+v", mv)
	}
}

func TestPredictorResetRebasesPrediction(t *testing.T) {
	p := NewPredictor(arena.Default(), 140, 468)
	for i := 0; i < 30; i++ {
		p.Step(sim.Input{Right: true}, 16)
	}

	p.Reset(796, 468)

	st := p.State()
	if st.X != 796 || st.Y != 468 {
		t.Errorf("state after reset = (%v, %v), want (796, 468)", st.X, st.Y)
	}
	if st.VelX != 0 || st.Dashing {
		t.Errorf("reset kept stale motion: %+v", st)
	}
}
