package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Registration handles registering and heartbeating with the master server.
type Registration struct {
	masterURL  string
	serverID   string
	name       string
	address    string
	version    string
	arenaName  string
	maxPlayers int
	server     *Server
	client     *http.Client
	stopCh     chan struct{}
}

type regRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	RoomID     string `json:"roomId"`
	ArenaName  string `json:"arenaName"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	RedCount   int    `json:"redCount"`
	BlueCount  int    `json:"blueCount"`
	Phase      string `json:"phase"`
	Version    string `json:"version"`
}

type regResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID        string `json:"id"`
	Players   int    `json:"players"`
	RedCount  int    `json:"redCount"`
	BlueCount int    `json:"blueCount"`
	Phase     string `json:"phase"`
}

func NewRegistration(masterURL, name, address, version, arenaName string, maxPlayers int, server *Server) *Registration {
	return &Registration{
		masterURL:  masterURL,
		name:       name,
		address:    address,
		version:    version,
		arenaName:  arenaName,
		maxPlayers: maxPlayers,
		server:     server,
		client:     &http.Client{Timeout: 5 * time.Second},
		stopCh:     make(chan struct{}),
	}
}

func (r *Registration) Start() {
	if err := r.register(); err != nil {
		log.Printf("[registration] initial registration failed: %v", err)
	}
	go r.heartbeatLoop()
}

func (r *Registration) Stop() {
	close(r.stopCh)
}

func (r *Registration) register() error {
	total, red, blue := r.server.PlayerCount()
	body, err := json.Marshal(regRequest{
		Name:       r.name,
		Address:    r.address,
		RoomID:     r.server.RoomID(),
		ArenaName:  r.arenaName,
		Players:    total,
		MaxPlayers: r.maxPlayers,
		RedCount:   red,
		BlueCount:  blue,
		Phase:      r.server.Phase(),
		Version:    r.version,
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := r.client.Post(r.masterURL+"/rooms/register", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result regResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	r.serverID = result.ID
	log.Printf("[registration] registered with master (id=%s)", r.serverID)
	return nil
}

func (r *Registration) heartbeatLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			if err := r.sendHeartbeat(); err != nil {
				log.Printf("[registration] heartbeat failed: %v", err)
			}
		}
	}
}

func (r *Registration) sendHeartbeat() error {
	total, red, blue := r.server.PlayerCount()
	body, err := json.Marshal(heartbeatRequest{
		ID:        r.serverID,
		Players:   total,
		RedCount:  red,
		BlueCount: blue,
		Phase:     r.server.Phase(),
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := r.client.Post(r.masterURL+"/rooms/heartbeat", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Println("[registration] master lost our registration, re-registering")
		return r.register()
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return nil
}
