package core

import (
	"log"
	"time"
)

// GameLoop drives the authoritative simulation at a fixed tick rate.
type GameLoop struct {
	server   *Server
	tickRate int
	stopChan chan struct{}
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
	}
}

func (g *GameLoop) Run() {
	interval := time.Second / time.Duration(g.tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[server] game loop started at %d ticks/second", g.tickRate)

	dtMs := 1000.0 / float64(g.tickRate)
	for {
		select {
		case <-g.stopChan:
			log.Println("[server] game loop stopped")
			return
		case <-ticker.C:
			g.server.Tick(dtMs)
		}
	}
}

func (g *GameLoop) Stop() {
	close(g.stopChan)
}
