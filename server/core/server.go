package core

import (
	"crypto/rand"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"

	"github.com/pixelfray/strayfire/shared/arena"
	"github.com/pixelfray/strayfire/shared/messages"
	"github.com/pixelfray/strayfire/shared/netcomponents"
	"github.com/pixelfray/strayfire/shared/sim"
)

// Combat and match tuning.
const (
	MaxHealth          = 100
	ProjectileDamage   = 25
	ProjectileSpeed    = 840.0 // px/s
	ProjectileLifetime = 1500.0
	ProjectileWidth    = 8.0
	ProjectileHeight   = 4.0
	FireCooldown       = 250.0 // ms between accepted shots
	MuzzleTolerance    = 48.0  // px the reported muzzle may stray from the avatar
	RespawnDelay       = 3000.0
	ScoreLimit         = 15
	TimeLimit          = 5 * 60 * 1000.0
	// ReconnectWindow is how long a disconnected player's token stays
	// redeemable, in ms.
	ReconnectWindow = 5 * 60 * 1000.0
)

// playerSession is the server's view of one connected player: connection,
// canonical kinematic state, latest intents, and match bookkeeping.
type playerSession struct {
	client   *router.NetworkClient
	playerID string
	name     string
	team     string
	token    string

	entity donburi.Entity
	body   *arena.Body
	kin    sim.State

	// Latest intents, last-write-wins. Consumed by the next tick.
	move      messages.MoveIntent
	moveFresh bool
	inputDir  int
	shot      messages.ShootIntent
	shotFresh bool

	fireCooldownMs float64
	health         int
	dead           bool
	respawnMs      float64
	kills, deaths  int
	spawnCount     int
	joined         bool
}

type reconnectRecord struct {
	name  string
	team  string
	ttlMs float64
}

// Server owns the canonical world for one match room: every avatar,
// projectile, and the match singleton. It is the only writer; clients hold
// read-only copies.
type Server struct {
	mu sync.Mutex

	world donburi.World
	def   *arena.Def
	space *arena.Space
	loop  *GameLoop

	transport *transports.WsServerTransport

	name       string
	version    string
	roomID     string
	tickRate   int
	maxPlayers int

	tick     uint64
	sessions map[*router.NetworkClient]*playerSession
	byID     map[string]*playerSession

	projectiles    map[string]*projectile
	nextPlayer     atomic.Uint64
	nextProjectile atomic.Uint64

	match matchState
	sync  *Synchronizer

	// Events produced during a tick (kills, match end), flushed with the
	// snapshot diff.
	outbox []any

	reconnect map[string]reconnectRecord
}

func NewServer(def *arena.Def, name, version string, tickRate, maxPlayers int) *Server {
	s := &Server{
		world:       donburi.NewWorld(),
		def:         def,
		space:       arena.NewSpace(def),
		name:        name,
		version:     version,
		roomID:      newToken(),
		tickRate:    tickRate,
		maxPlayers:  maxPlayers,
		sessions:    make(map[*router.NetworkClient]*playerSession),
		byID:        make(map[string]*playerSession),
		projectiles: make(map[string]*projectile),
		sync:        NewSynchronizer(),
		reconnect:   make(map[string]reconnectRecord),
	}
	s.loop = NewGameLoop(s, tickRate)
	return s
}

// Start registers the router callbacks and serves WebSocket connections on
// the given port. Blocks until the transport fails.
func (s *Server) Start(port uint) error {
	s.registerHandlers()
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) RoomID() string { return s.roomID }

// PlayerCount returns total and per-team player counts.
func (s *Server) PlayerCount() (total, red, blue int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		total++
		switch sess.team {
		case "red":
			red++
		case "blue":
			blue++
		}
	}
	return total, red, blue
}

// Phase returns the current match phase name for room listings.
func (s *Server) Phase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.phase.String()
}

func (s *Server) registerHandlers() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[server] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client, err)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] client error: %v", err)
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.onJoin(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.MoveIntent) {
		s.onMove(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.DashIntent) {
		s.onDash(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.ShootIntent) {
		s.onShoot(client, msg)
	})
}

func (s *Server) onJoin(client *router.NetworkClient, msg messages.JoinRequest) {
	if s.version != "" && msg.Version != s.version {
		s.sendTo(client, messages.JoinRejected{
			Reason: fmt.Sprintf("version mismatch: server requires %s", s.version),
		})
		return
	}

	sess, seed, err := s.addPlayer(client, msg)
	if err != nil {
		s.sendTo(client, messages.JoinRejected{Reason: err.Error()})
		return
	}

	s.sendTo(client, messages.JoinAccepted{
		PlayerID:       sess.playerID,
		Team:           sess.team,
		RoomID:         s.roomID,
		ServerName:     s.name,
		ArenaName:      s.def.Name,
		TickRate:       s.tickRate,
		ReconnectToken: sess.token,
	})
	// Entities already in the room; live diffs take over from here.
	for _, m := range seed {
		s.sendTo(client, m)
	}

	log.Printf("[server] %s joined as %s on team %s", sess.name, sess.playerID, sess.team)
}

// addPlayer places a player on the smaller team (recovering team and name
// from a reconnect token when one matches), spawns the avatar, and returns
// add events for everything already in the room.
func (s *Server) addPlayer(client *router.NetworkClient, msg messages.JoinRequest) (*playerSession, []any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.maxPlayers {
		return nil, nil, fmt.Errorf("room is full (%d/%d)", len(s.sessions), s.maxPlayers)
	}

	name := msg.PlayerName
	var team string
	if rec, ok := s.reconnect[msg.ReconnectToken]; ok && msg.ReconnectToken != "" {
		team = rec.team
		if name == "" {
			name = rec.name
		}
		delete(s.reconnect, msg.ReconnectToken)
	} else {
		red, blue := 0, 0
		for _, sess := range s.sessions {
			switch sess.team {
			case "red":
				red++
			case "blue":
				blue++
			}
		}
		team = "red"
		if blue < red {
			team = "blue"
		}
	}
	if name == "" {
		name = "anonymous"
	}

	// Seed is built before the new avatar exists so the newcomer sees it
	// arrive through the same broadcast add as everyone else.
	seed := s.seedMessages()

	playerID := fmt.Sprintf("player-%d", s.nextPlayer.Add(1))
	sp := s.def.SpawnFor(team, len(s.sessions))

	entity := s.world.Create(netcomponents.NetID, netcomponents.NetAvatar)
	entry := s.world.Entry(entity)
	netcomponents.NetID.Set(entry, &netcomponents.NetIDData{ID: playerID})

	sess := &playerSession{
		client:   client,
		playerID: playerID,
		name:     name,
		team:     team,
		token:    newToken(),
		entity:   entity,
		body:     s.space.NewBody(sp.X, sp.Y),
		kin:      sim.NewState(sp.X, sp.Y),
		health:   MaxHealth,
		joined:   true,
	}
	s.writeAvatar(sess)

	s.sessions[client] = sess
	s.byID[playerID] = sess
	return sess, seed, nil
}

// seedMessages returns add events for the current room contents, tagged with
// the current tick.
func (s *Server) seedMessages() []any {
	var out []any
	for id, sess := range s.byID {
		entry := s.world.Entry(sess.entity)
		out = append(out, messages.AvatarAdded{
			Tick:  s.tick,
			ID:    id,
			State: *netcomponents.NetAvatar.Get(entry),
		})
	}
	for id, p := range s.projectiles {
		entry := s.world.Entry(p.entity)
		out = append(out, messages.ProjectileAdded{
			Tick:  s.tick,
			ID:    id,
			State: *netcomponents.NetProjectile.Get(entry),
		})
	}
	out = append(out, messages.MatchUpdated{Tick: s.tick, State: s.match.snapshot()})
	return out
}

func (s *Server) onDisconnect(client *router.NetworkClient, err error) {
	if err != nil {
		log.Printf("[server] client %s disconnected: %v", client.Id(), err)
	} else {
		log.Printf("[server] client %s disconnected", client.Id())
	}

	s.mu.Lock()
	sess, ok := s.sessions[client]
	if ok {
		delete(s.sessions, client)
		delete(s.byID, sess.playerID)
		s.reconnect[sess.token] = reconnectRecord{name: sess.name, team: sess.team, ttlMs: ReconnectWindow}
		s.space.RemoveBody(sess.body)
		if s.world.Valid(sess.entity) {
			// The next diff broadcasts the remove to every remaining session.
			s.world.Remove(sess.entity)
		}
	}
	s.mu.Unlock()

	if ok {
		log.Printf("[server] avatar %s removed", sess.playerID)
	}
}

func (s *Server) onMove(client *router.NetworkClient, msg messages.MoveIntent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[client]
	if !ok || sess.dead {
		return
	}
	// Malformed or out-of-bounds payloads are dropped, never applied.
	if !msg.Valid() || !s.def.Contains(msg.X, msg.Y) {
		return
	}
	sess.move = msg
	sess.moveFresh = true
}

func (s *Server) onDash(client *router.NetworkClient, msg messages.DashIntent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[client]
	if !ok || sess.dead {
		return
	}
	if !msg.Active {
		sim.StopDash(&sess.kin)
		return
	}
	// Direction comes from the avatar's current velocity; StartDash falls
	// back to facing when the avatar is effectively still, and silently
	// rejects the transition when the dash gates fail.
	dx, dy := sess.kin.VelX, sess.kin.VelY
	if math.Hypot(dx, dy) < 1 {
		dx, dy = 0, 0
	}
	sim.StartDash(&sess.kin, dx, dy)
}

func (s *Server) onShoot(client *router.NetworkClient, msg messages.ShootIntent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[client]
	if !ok || sess.dead || !msg.Valid() {
		return
	}
	sess.shot = msg
	sess.shotFresh = true
}

// Tick advances the canonical simulation by dtMs and flushes the resulting
// events and snapshot diff to every joined session.
func (s *Server) Tick(dtMs float64) {
	s.mu.Lock()
	s.tick++
	s.expireReconnects(dtMs)
	s.stepMatch(dtMs)
	s.stepAvatars(dtMs)
	s.stepProjectiles(dtMs)

	out := s.outbox
	s.outbox = nil
	out = append(out, s.sync.Diff(
		s.tick,
		collectAvatars(s.world),
		collectProjectiles(s.world),
		s.match.snapshot(),
	)...)

	targets := make([]*router.NetworkClient, 0, len(s.sessions))
	for client, sess := range s.sessions {
		if sess.joined && client != nil {
			targets = append(targets, client)
		}
	}
	s.mu.Unlock()

	for _, msg := range out {
		payload, err := router.Serialize(msg)
		if err != nil {
			log.Printf("[server] serialize broadcast: %v", err)
			continue
		}
		for _, client := range targets {
			if err := client.SendMessage(payload); err != nil {
				log.Printf("[server] send to %s: %v", client.Id(), err)
			}
		}
	}
}

func (s *Server) sendTo(client *router.NetworkClient, msg any) {
	if client == nil {
		return
	}
	payload, err := router.Serialize(msg)
	if err != nil {
		log.Printf("[server] serialize: %v", err)
		return
	}
	if err := client.SendMessage(payload); err != nil {
		log.Printf("[server] send to %s: %v", client.Id(), err)
	}
}

// writeAvatar publishes a session's canonical state into its snapshot
// component.
func (s *Server) writeAvatar(sess *playerSession) {
	if !s.world.Valid(sess.entity) {
		return
	}
	entry := s.world.Entry(sess.entity)
	netcomponents.NetAvatar.Set(entry, &netcomponents.NetAvatarData{
		X:         sess.kin.X,
		Y:         sess.kin.Y,
		VelX:      sess.kin.VelX,
		VelY:      sess.kin.VelY,
		Health:    sess.health,
		Team:      sess.team,
		Facing:    sess.kin.Facing,
		Dashing:   sess.kin.Dashing,
		Dead:      sess.dead,
		RespawnMs: math.Max(0, sess.respawnMs),
	})
}

// expireReconnects ages the pending reconnect records. An expired token no
// longer recovers its team and name; the map cannot grow past the players
// who disconnected inside the window.
func (s *Server) expireReconnects(dtMs float64) {
	for token, rec := range s.reconnect {
		rec.ttlMs -= dtMs
		if rec.ttlMs <= 0 {
			delete(s.reconnect, token)
			continue
		}
		s.reconnect[token] = rec
	}
}

func newToken() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x", b)
}
