package client

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"

	"github.com/pixelfray/strayfire/shared/messages"
	"github.com/pixelfray/strayfire/shared/netcomponents"
)

type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateConnected
	StateJoined
	StateError
)

// Snapshot events that arrive before the join response are held this long
// waiting for the local id. After the timeout they are applied anyway: the
// session degrades to treating everything as remote rather than stalling.
const idReplayTimeout = 3 * time.Second

// Minimum spacing between shoot intents. The server enforces its own
// cooldown; this just avoids sending messages it will certainly reject.
const fireCooldown = 250 * time.Millisecond

// Session manages a WebSocket connection to one match room. All shared
// fields are protected by mu (router callbacks run on necs goroutines while
// the game loop reads from its own).
//
// Snapshot diffs received before the local id is known are buffered and
// replayed in arrival order once it arrives, preserving per-entity event
// order. Without the buffer the session would misclassify its own avatar as
// a remote one when the room seed outruns the join response.
type Session struct {
	mu sync.RWMutex

	state     SessionState
	lastError error

	playerID       string
	team           string
	roomID         string
	serverName     string
	arenaName      string
	tickRate       int
	reconnectToken string

	conn    *websocket.Conn
	replica *Replica

	pending     []any
	idKnown     bool
	replayTimer *time.Timer

	events []Event

	nextShotAt time.Time
}

func NewSession() *Session {
	return &Session{
		state:   StateDisconnected,
		replica: NewReplica(),
	}
}

// Connect dials the server in a background goroutine and initiates the join
// handshake. A non-empty reconnectToken asks the server to restore the
// previous identity's team and name.
func (s *Session) Connect(address, version, playerName, reconnectToken string) {
	s.mu.Lock()
	s.state = StateConnecting
	s.lastError = nil
	s.replica = NewReplica()
	s.pending = nil
	s.idKnown = false
	s.playerID = ""
	s.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		s.mu.Lock()
		s.state = StateConnected
		s.mu.Unlock()

		if err := s.send(messages.JoinRequest{
			Version:        version,
			PlayerName:     playerName,
			ReconnectToken: reconnectToken,
		}); err != nil {
			s.fail(fmt.Errorf("send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		s.onJoinAccepted(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		s.mu.Lock()
		s.events = append(s.events, Event{Kind: EventJoinFailed, Reason: msg.Reason})
		s.mu.Unlock()
		s.fail(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, msg messages.AvatarAdded) { s.ingest(msg) })
	router.On(func(_ *router.NetworkClient, msg messages.AvatarUpdated) { s.ingest(msg) })
	router.On(func(_ *router.NetworkClient, msg messages.AvatarRemoved) { s.ingest(msg) })
	router.On(func(_ *router.NetworkClient, msg messages.ProjectileAdded) { s.ingest(msg) })
	router.On(func(_ *router.NetworkClient, msg messages.ProjectileUpdated) { s.ingest(msg) })
	router.On(func(_ *router.NetworkClient, msg messages.ProjectileRemoved) { s.ingest(msg) })
	router.On(func(_ *router.NetworkClient, msg messages.MatchUpdated) { s.ingest(msg) })

	router.On(func(_ *router.NetworkClient, msg messages.PlayerKilled) {
		s.mu.Lock()
		s.events = append(s.events, Event{Kind: EventPlayerKilled, Kill: msg})
		s.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.MatchEnded) {
		s.mu.Lock()
		s.events = append(s.events, Event{Kind: EventMatchEnded, Match: msg})
		s.mu.Unlock()
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		s.mu.Lock()
		if s.state != StateError {
			s.state = StateDisconnected
		}
		s.conn = nil
		reason := ""
		if err != nil {
			reason = err.Error()
		}
		s.events = append(s.events, Event{Kind: EventDisconnected, Reason: reason})
		s.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	s.mu.Lock()
	s.replayTimer = time.AfterFunc(idReplayTimeout, s.replayWithoutID)
	s.mu.Unlock()

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			s.mu.Lock()
			s.conn = conn
			s.mu.Unlock()
		})
		if err != nil {
			s.fail(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (s *Session) onJoinAccepted(msg messages.JoinAccepted) {
	log.Printf("[client] joined room %s as %s (team %s, arena %s, tick %d)",
		msg.RoomID, msg.PlayerID, msg.Team, msg.ArenaName, msg.TickRate)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.playerID = msg.PlayerID
	s.team = msg.Team
	s.roomID = msg.RoomID
	s.serverName = msg.ServerName
	s.arenaName = msg.ArenaName
	s.tickRate = msg.TickRate
	s.reconnectToken = msg.ReconnectToken
	s.state = StateJoined

	if s.replayTimer != nil {
		s.replayTimer.Stop()
	}
	s.idKnown = true
	for _, buffered := range s.pending {
		s.replica.Apply(buffered)
	}
	s.pending = nil

	s.events = append(s.events, Event{Kind: EventJoined, Join: msg})
}

// ingest routes one snapshot event into the replica, buffering while the
// local id is still unknown.
func (s *Session) ingest(msg any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.idKnown {
		s.pending = append(s.pending, msg)
		return
	}
	s.replica.Apply(msg)
}

// replayWithoutID runs when the join response never arrived inside the
// window. The buffered events are applied without a local id; every avatar
// renders as remote until the id finally shows up.
func (s *Session) replayWithoutID() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idKnown {
		return
	}
	log.Printf("[client] no join response after %s, applying %d buffered events",
		idReplayTimeout, len(s.pending))
	s.idKnown = true
	for _, buffered := range s.pending {
		s.replica.Apply(buffered)
	}
	s.pending = nil
}

// Disconnect tears the session down. Replica contents are discarded; stale
// snapshot data must not survive into a future session.
func (s *Session) Disconnect() {
	s.mu.Lock()
	conn := s.conn
	s.state = StateDisconnected
	s.conn = nil
	s.replica = NewReplica()
	s.pending = nil
	if s.replayTimer != nil {
		s.replayTimer.Stop()
	}
	s.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

// SendMove reports the local prediction. Non-finite payloads are dropped
// before transmission; a NaN must never reach the wire.
func (s *Session) SendMove(mv messages.MoveIntent) error {
	if !mv.Valid() {
		return fmt.Errorf("dropping malformed move intent: %+v", mv)
	}
	return s.send(mv)
}

// SendDash reports a dash transition (edges only, never periodic).
func (s *Session) SendDash(active bool) error {
	return s.send(messages.DashIntent{Active: active})
}

// SendShoot reports one shot from the given muzzle position, rate-limited to
// the fire cooldown.
func (s *Session) SendShoot(x, y float64) error {
	intent := messages.ShootIntent{X: x, Y: y}
	if !intent.Valid() {
		return fmt.Errorf("dropping malformed shoot intent: %+v", intent)
	}

	s.mu.Lock()
	now := time.Now()
	if now.Before(s.nextShotAt) {
		s.mu.Unlock()
		return nil
	}
	s.nextShotAt = now.Add(fireCooldown)
	s.mu.Unlock()

	return s.send(intent)
}

func (s *Session) send(msg any) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.state = StateError
	s.lastError = err
	s.mu.Unlock()
}

// Events drains the queued domain events in arrival order.
func (s *Session) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *Session) PlayerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerID
}

func (s *Session) Team() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.team
}

func (s *Session) ReconnectToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reconnectToken
}

func (s *Session) TickRate() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tickRate
}

func (s *Session) ArenaName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arenaName
}

// LocalAvatar returns the server's latest view of the local avatar and the
// tick it was applied on. The tick lets the game loop reconcile against each
// authoritative update exactly once; re-observing the same snapshot while the
// prediction advances would keep re-seeding the error from a stale position.
func (s *Session) LocalAvatar() (netcomponents.NetAvatarData, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.playerID == "" {
		return netcomponents.NetAvatarData{}, 0, false
	}
	snap, ok := s.replica.Avatar(s.playerID)
	if !ok {
		return netcomponents.NetAvatarData{}, 0, false
	}
	tick, _ := s.replica.AvatarTick(s.playerID)
	return snap, tick, true
}

// Avatars copies the current replica avatar set for the game loop.
func (s *Session) Avatars() map[string]netcomponents.NetAvatarData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replica.Avatars()
}

// Projectiles copies the current replica projectile set for the game loop.
func (s *Session) Projectiles() map[string]netcomponents.NetProjectileData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replica.Projectiles()
}

// Match returns the latest match state and whether one has arrived.
func (s *Session) Match() (netcomponents.NetMatchData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replica.Match()
}
