package main

import (
	"encoding/json"
	"log"
	"net/http"
)

type registerRequest struct {
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

type registerResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID        string `json:"id"`
	Players   int    `json:"players"`
	RedCount  int    `json:"redCount"`
	BlueCount int    `json:"blueCount"`
	Phase     string `json:"phase"`
}

func ListRooms(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		rooms := reg.List()
		if err := json.NewEncoder(w).Encode(rooms); err != nil {
			log.Printf("[master] list encode error: %v", err)
		}
	}
}

const maxRequestBody = 1 << 16 // 64 KB

func RegisterRoom(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		if req.Name == "" || req.Address == "" {
			http.Error(w, `{"error":"name and address required"}`, http.StatusBadRequest)
			return
		}

		id := reg.Register(RoomInfo{
			RoomID:     req.RoomID,
			Name:       req.Name,
			Address:    req.Address,
			ArenaName:  req.ArenaName,
			Players:    req.Players,
			MaxPlayers: req.MaxPlayers,
			RedCount:   req.RedCount,
			BlueCount:  req.BlueCount,
			Phase:      req.Phase,
			Version:    req.Version,
		})

		log.Printf("[master] registered room %q at %s (id=%s)", req.Name, req.Address, id)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(registerResponse{ID: id})
	}
}

func Heartbeat(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req heartbeatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}

		if !reg.Heartbeat(req.ID, req.Players, req.RedCount, req.BlueCount, req.Phase) {
			http.Error(w, `{"error":"unknown room"}`, http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
