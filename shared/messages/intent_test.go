package messages

import (
	"math"
	"testing"
)

func TestFinite(t *testing.T) {
	if !Finite(0, -1.5, 1e9) {
		t.Error("ordinary values reported non-finite")
	}
	if Finite(math.NaN()) {
		t.Error("NaN reported finite")
	}
	if Finite(math.Inf(1)) || Finite(math.Inf(-1)) {
		t.Error("Inf reported finite")
	}
	if Finite(1, 2, math.NaN(), 4) {
		t.Error("NaN hidden among finite values not caught")
	}
}

func TestMoveIntentValid(t *testing.T) {
	good := MoveIntent{X: 100, Y: 200, VelX: -360, VelY: 12, Facing: -1}
	if !good.Valid() {
		t.Errorf("valid intent rejected: %+v", good)
	}

	cases := []struct {
		name string
		m    MoveIntent
	}{
		{"NaN position", MoveIntent{X: math.NaN(), Facing: 1}},
		{"Inf velocity", MoveIntent{VelX: math.Inf(1), Facing: 1}},
		{"zero facing", MoveIntent{X: 1, Y: 2, Facing: 0}},
		{"bogus facing", MoveIntent{X: 1, Y: 2, Facing: 3}},
	}
	for _, tc := range cases {
		if tc.m.Valid() {
			t.Errorf("%s accepted: %+v", tc.name, tc.m)
		}
	}
}

func TestShootIntentValid(t *testing.T) {
	if !(ShootIntent{X: 10, Y: 20}).Valid() {
		t.Error("valid shoot intent rejected")
	}
	if (ShootIntent{X: math.NaN(), Y: 20}).Valid() {
		t.Error("NaN shoot intent accepted")
	}
}
