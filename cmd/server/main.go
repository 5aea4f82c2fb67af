package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pixelfray/strayfire/server/core"
	"github.com/pixelfray/strayfire/shared/arena"
)

func main() {
	port := flag.Uint("port", 7373, "Server port")
	tickRate := flag.Int("tickrate", 60, "Simulation tick rate (ticks per second)")
	name := flag.String("name", "Strayfire Server", "Server display name")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	maxPlayers := flag.Int("maxplayers", 8, "Maximum players in the room")
	arenaPath := flag.String("arena", "", "Arena TMX file (empty = built-in arena)")
	masterURL := flag.String("master", "", "Master server URL (empty = no registration)")
	address := flag.String("address", "", "Public address advertised to the master")
	flag.Parse()

	def := arena.Default()
	if *arenaPath != "" {
		loaded, err := arena.LoadDef(os.DirFS("."), *arenaPath)
		if err != nil {
			log.Fatalf("[server] load arena %q: %v", *arenaPath, err)
		}
		def = loaded
	}

	server := core.NewServer(def, *name, *version, *tickRate, *maxPlayers)

	var reg *core.Registration
	if *masterURL != "" {
		addr := *address
		if addr == "" {
			addr = fmt.Sprintf("localhost:%d", *port)
		}
		reg = core.NewRegistration(*masterURL, *name, addr, *version, def.Name, *maxPlayers, server)
		reg.Start()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[server] shutting down...")
		if reg != nil {
			reg.Stop()
		}
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("[server] starting %q on port %d (arena %s, tick rate %d/s, version %q)",
		*name, *port, def.Name, *tickRate, *version)
	if err := server.Start(*port); err != nil {
		log.Fatalf("[server] fatal: %v", err)
	}
}
