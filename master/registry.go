package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"sync"
	"time"
)

// RoomInfo describes one match room visible to clients browsing for a game.
type RoomInfo struct {
	ID         string `json:"id"`
	RoomID     string `json:"roomId"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	ArenaName  string `json:"arenaName"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	RedCount   int    `json:"redCount"`
	BlueCount  int    `json:"blueCount"`
	Phase      string `json:"phase"`
	Version    string `json:"version"`
}

type roomRecord struct {
	RoomInfo
	LastSeen time.Time
}

// Registry is an in-memory store of active rooms with TTL-based expiry.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*roomRecord
	ttl    time.Duration
	stopCh chan struct{}
}

func NewRegistry(ttl time.Duration) *Registry {
	r := &Registry{
		rooms:  make(map[string]*roomRecord),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}
	go r.cleanupLoop()
	return r
}

func (r *Registry) Stop() {
	close(r.stopCh)
}

func (r *Registry) Register(info RoomInfo) string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	id := fmt.Sprintf("%x", b)

	info.ID = id

	r.mu.Lock()
	r.rooms[id] = &roomRecord{
		RoomInfo: info,
		LastSeen: time.Now(),
	}
	r.mu.Unlock()

	return id
}

// Heartbeat refreshes a room's liveness and live occupancy. Returns false
// when the id is unknown (expired or never registered).
func (r *Registry) Heartbeat(id string, players, red, blue int, phase string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rooms[id]
	if !ok {
		return false
	}
	rec.LastSeen = time.Now()
	rec.Players = players
	rec.RedCount = red
	rec.BlueCount = blue
	if phase != "" {
		rec.Phase = phase
	}
	return true
}

func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]RoomInfo, 0, len(r.rooms))
	for _, rec := range r.rooms {
		result = append(result, rec.RoomInfo)
	}
	return result
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.expire(time.Now())
		}
	}
}

func (r *Registry) expire(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range r.rooms {
		if now.Sub(rec.LastSeen) >= r.ttl {
			log.Printf("[master] expired room %q (id=%s, last seen %s ago)",
				rec.Name, id, now.Sub(rec.LastSeen).Round(time.Second))
			delete(r.rooms, id)
		}
	}
}
