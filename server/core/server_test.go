package core

import (
	"math"
	"testing"

	"github.com/leap-fish/necs/router"

	"github.com/pixelfray/strayfire/shared/arena"
	"github.com/pixelfray/strayfire/shared/messages"
)

func newTestServer() *Server {
	return NewServer(arena.Default(), "test-room", "", 60, 8)
}

// addTestPlayer joins a player through the normal path on a stub connection.
// joined is cleared so Tick never writes to the stub.
func addTestPlayer(t *testing.T, s *Server, name string) *playerSession {
	t.Helper()
	client := &router.NetworkClient{}
	sess, _, err := s.addPlayer(client, messages.JoinRequest{PlayerName: name})
	if err != nil {
		t.Fatalf("addPlayer(%q): %v", name, err)
	}
	sess.joined = false
	return sess
}

func TestJoinBalancesTeams(t *testing.T) {
	s := newTestServer()

	want := []string{"red", "blue", "red", "blue"}
	for i, team := range want {
		sess := addTestPlayer(t, s, "p")
		if sess.team != team {
			t.Errorf("player %d assigned to %s, want %s", i+1, sess.team, team)
		}
	}
}

func TestJoinRejectsWhenFull(t *testing.T) {
	s := NewServer(arena.Default(), "test-room", "", 60, 2)
	addTestPlayer(t, s, "a")
	addTestPlayer(t, s, "b")

	_, _, err := s.addPlayer(&router.NetworkClient{}, messages.JoinRequest{PlayerName: "c"})
	if err == nil {
		t.Fatal("join on a full room succeeded, want error")
	}
}

func TestReconnectTokenRestoresTeamAndName(t *testing.T) {
	s := newTestServer()

	redClient := &router.NetworkClient{}
	red, _, err := s.addPlayer(redClient, messages.JoinRequest{PlayerName: "ada"})
	if err != nil {
		t.Fatal(err)
	}
	red.joined = false
	token := red.token
	addTestPlayer(t, s, "b") // blue

	s.onDisconnect(redClient, nil)

	// Two fresh joins push red past blue, so plain balancing would now
	// assign blue.
	addTestPlayer(t, s, "c")
	addTestPlayer(t, s, "d")

	back, _, err := s.addPlayer(&router.NetworkClient{}, messages.JoinRequest{ReconnectToken: token})
	if err != nil {
		t.Fatal(err)
	}
	if back.team != "red" {
		t.Errorf("reconnect team = %s, want red", back.team)
	}
	if back.name != "ada" {
		t.Errorf("reconnect name = %q, want ada", back.name)
	}
}

func TestReconnectTokenExpires(t *testing.T) {
	s := newTestServer()

	redClient := &router.NetworkClient{}
	red, _, err := s.addPlayer(redClient, messages.JoinRequest{PlayerName: "ada"})
	if err != nil {
		t.Fatal(err)
	}
	red.joined = false
	token := red.token

	s.onDisconnect(redClient, nil)
	if _, ok := s.reconnect[token]; !ok {
		t.Fatal("no reconnect record after disconnect")
	}

	// Age the record past the window; the next tick drops it.
	rec := s.reconnect[token]
	rec.ttlMs = 10
	s.reconnect[token] = rec
	s.Tick(16)

	if _, ok := s.reconnect[token]; ok {
		t.Fatal("reconnect record survived past its window")
	}

	// The expired token behaves like no token: balancing assigns the team.
	back, _, err := s.addPlayer(&router.NetworkClient{}, messages.JoinRequest{ReconnectToken: token})
	if err != nil {
		t.Fatal(err)
	}
	back.joined = false
	if back.name != "anonymous" {
		t.Errorf("expired token restored name %q", back.name)
	}
}

func TestSeedExcludesTheNewcomer(t *testing.T) {
	s := newTestServer()
	addTestPlayer(t, s, "a")

	_, seed, err := s.addPlayer(&router.NetworkClient{}, messages.JoinRequest{PlayerName: "b"})
	if err != nil {
		t.Fatal(err)
	}

	avatars, matches := 0, 0
	for _, msg := range seed {
		switch m := msg.(type) {
		case messages.AvatarAdded:
			avatars++
			if m.ID == "player-2" {
				t.Error("seed contains the joining player's own avatar")
			}
		case messages.MatchUpdated:
			matches++
		}
	}
	if avatars != 1 || matches != 1 {
		t.Errorf("seed has %d avatar adds and %d match updates, want 1 and 1", avatars, matches)
	}
}

func TestMoveIntentValidation(t *testing.T) {
	s := newTestServer()
	client := &router.NetworkClient{}
	sess, _, err := s.addPlayer(client, messages.JoinRequest{PlayerName: "a"})
	if err != nil {
		t.Fatal(err)
	}
	sess.joined = false

	s.onMove(client, messages.MoveIntent{X: math.NaN(), Y: 100})
	if sess.moveFresh {
		t.Error("non-finite move accepted")
	}

	s.onMove(client, messages.MoveIntent{X: -5000, Y: 100})
	if sess.moveFresh {
		t.Error("out-of-bounds move accepted")
	}

	s.onMove(client, messages.MoveIntent{X: 300, Y: 200, Facing: 1})
	if !sess.moveFresh {
		t.Fatal("valid move dropped")
	}

	sess.dead = true
	sess.moveFresh = false
	s.onMove(client, messages.MoveIntent{X: 300, Y: 200, Facing: 1})
	if sess.moveFresh {
		t.Error("move accepted while dead")
	}
}

func TestMoveIntentFoldsIntoSimulation(t *testing.T) {
	s := newTestServer()
	client := &router.NetworkClient{}
	sess, _, err := s.addPlayer(client, messages.JoinRequest{PlayerName: "a"})
	if err != nil {
		t.Fatal(err)
	}
	sess.joined = false

	s.onMove(client, messages.MoveIntent{X: 300, Y: 200, VelX: 0, VelY: 0, Facing: 1})
	s.stepAvatars(16)

	if sess.kin.X != 300 {
		t.Errorf("kin.X = %v, want 300", sess.kin.X)
	}
	if sess.moveFresh {
		t.Error("move intent not consumed")
	}

	// The folded position has no support, so the following steps pull the
	// avatar down.
	s.stepAvatars(16)
	s.stepAvatars(16)
	if sess.kin.Y <= 200 {
		t.Errorf("kin.Y = %v, want > 200 after gravity", sess.kin.Y)
	}
}

func TestDashIntentAppliesSimulationGates(t *testing.T) {
	s := newTestServer()
	client := &router.NetworkClient{}
	sess, _, err := s.addPlayer(client, messages.JoinRequest{PlayerName: "a"})
	if err != nil {
		t.Fatal(err)
	}
	sess.joined = false

	// Grounded avatars cannot start a dash.
	s.onDash(client, messages.DashIntent{Active: true})
	if sess.kin.Dashing {
		t.Fatal("dash started while grounded")
	}

	sess.kin.Grounded = false
	sess.kin.VelX = 200
	s.onDash(client, messages.DashIntent{Active: true})
	if !sess.kin.Dashing {
		t.Fatal("airborne dash rejected")
	}
	if sess.kin.DashDirX != 1 || sess.kin.DashDirY != 0 {
		t.Errorf("dash direction = (%v, %v), want (1, 0)",
			sess.kin.DashDirX, sess.kin.DashDirY)
	}

	s.onDash(client, messages.DashIntent{Active: false})
	if sess.kin.Dashing {
		t.Error("dash still active after stop intent")
	}
}

func TestDisconnectRemovesAvatarFromWorld(t *testing.T) {
	s := newTestServer()
	client := &router.NetworkClient{}
	sess, _, err := s.addPlayer(client, messages.JoinRequest{PlayerName: "a"})
	if err != nil {
		t.Fatal(err)
	}
	sess.joined = false

	s.onDisconnect(client, nil)

	if len(s.sessions) != 0 || len(s.byID) != 0 {
		t.Fatal("session maps still hold the disconnected player")
	}
	if avatars := collectAvatars(s.world); len(avatars) != 0 {
		t.Fatalf("world still holds %d avatars", len(avatars))
	}
}
