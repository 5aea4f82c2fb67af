// Command botclient joins a room and plays a scripted loop: pace between the
// walls, jump now and then, fire on a timer. Useful for soaking a server and
// for eyeballing reconciliation against a live opponent.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pixelfray/strayfire/client"
	"github.com/pixelfray/strayfire/shared/arena"
	"github.com/pixelfray/strayfire/shared/sim"
)

type roomListing struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Players   int    `json:"players"`
	Phase     string `json:"phase"`
	ArenaName string `json:"arenaName"`
}

func main() {
	address := flag.String("address", "", "Server address (host:port); overrides master lookup")
	masterURL := flag.String("master", "http://localhost:8080", "Master server URL for room discovery")
	name := flag.String("name", "", "Bot display name (empty = saved profile name, then \"bot\")")
	version := flag.String("version", "", "Client version to report")
	arenaPath := flag.String("arena", "", "Arena TMX file matching the server's (empty = built-in arena)")
	flag.Parse()

	if err := client.InitProfileStore(); err != nil {
		log.Printf("[bot] profile persistence disabled: %v", err)
	}
	profile, _ := client.LoadProfile()

	def := arena.Default()
	if *arenaPath != "" {
		loaded, err := arena.LoadDef(os.DirFS("."), *arenaPath)
		if err != nil {
			log.Fatalf("[bot] load arena %q: %v", *arenaPath, err)
		}
		def = loaded
	}

	addr := *address
	if addr == "" {
		picked, err := pickRoom(*masterURL)
		if err != nil {
			log.Fatalf("[bot] room discovery: %v", err)
		}
		addr = picked
	}

	botName := *name
	if botName == "" {
		botName = "bot"
		if profile != nil && profile.PlayerName != "" {
			botName = profile.PlayerName
		}
	}
	// The token only means something to the server that issued it.
	token := ""
	if profile != nil && profile.LastAddress == addr {
		token = profile.ReconnectToken
	}

	session := client.NewSession()
	session.Connect(addr, *version, botName, token)
	log.Printf("[bot] connecting to %s as %q", addr, botName)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	var predictor *client.Predictor
	var reconciler client.Reconciler
	interpolator := client.NewInterpolator()
	tick := 0
	var lastSnapTick uint64
	snapSeen := false

	for {
		select {
		case <-sigChan:
			log.Println("[bot] leaving")
			session.Disconnect()
			return
		case <-ticker.C:
		}

		for _, ev := range session.Events() {
			switch ev.Kind {
			case client.EventJoined:
				log.Printf("[bot] joined room %s on team %s", ev.Join.RoomID, ev.Join.Team)
				if ev.Join.ArenaName != def.Name {
					log.Printf("[bot] arena mismatch: server runs %q, predicting on %q; expect permanent corrections",
						ev.Join.ArenaName, def.Name)
				}
				if err := client.SaveProfile(&client.Profile{
					PlayerName:     botName,
					LastAddress:    addr,
					ReconnectToken: ev.Join.ReconnectToken,
				}); err != nil {
					log.Printf("[bot] save profile: %v", err)
				}
			case client.EventJoinFailed:
				log.Fatalf("[bot] join failed: %s", ev.Reason)
			case client.EventDisconnected:
				log.Printf("[bot] disconnected: %s", ev.Reason)
				return
			case client.EventPlayerKilled:
				log.Printf("[bot] kill feed: %s -> %s", ev.Kill.KillerName, ev.Kill.VictimName)
			case client.EventMatchEnded:
				log.Printf("[bot] match over, winner %q", ev.Match.WinningTeam)
			}
		}

		if session.State() != client.StateJoined {
			continue
		}

		interpolator.Step(session.Avatars(), session.Projectiles(), session.PlayerID())

		snap, snapTick, ok := session.LocalAvatar()
		if !ok {
			continue
		}
		if predictor == nil {
			predictor = client.NewPredictor(def, snap.X, snap.Y)
		}

		// Reconcile against each authoritative update once; between updates
		// the prediction runs free.
		if !snapSeen || snapTick > lastSnapTick {
			for _, ev := range reconciler.Observe(predictor.State(), snap) {
				switch ev.Kind {
				case client.EventLocalDied:
					log.Printf("[bot] died, respawning in %.0fms", ev.RespawnMs)
				case client.EventLocalRespawned:
					predictor.Reset(snap.X, snap.Y)
				}
			}
			lastSnapTick, snapSeen = snapTick, true
		}
		if snap.Dead {
			continue
		}

		tick++
		in := scriptedInput(tick)
		dashChanged := predictor.Step(in, 1000.0/60.0)
		reconciler.Step(predictor.State(), 1000.0/60.0)

		if err := session.SendMove(predictor.MoveIntent()); err != nil {
			log.Printf("[bot] send move: %v", err)
		}
		if dashChanged {
			if err := session.SendDash(predictor.State().Dashing); err != nil {
				log.Printf("[bot] send dash: %v", err)
			}
		}
		if tick%90 == 0 {
			st := predictor.State()
			if err := session.SendShoot(st.X+arena.AvatarWidth/2, st.Y+arena.AvatarHeight/2); err != nil {
				log.Printf("[bot] send shoot: %v", err)
			}
		}
		if tick%600 == 0 {
			log.Printf("[bot] tracking %d remote avatars, %d projectiles",
				len(interpolator.Avatars()), len(interpolator.Projectiles()))
		}
	}
}

// scriptedInput paces left and right on a fixed period, jumping at the turn.
func scriptedInput(tick int) sim.Input {
	const period = 240 // four seconds each way at 60 ticks/s
	phase := tick % (2 * period)

	in := sim.Input{}
	if phase < period {
		in.Right = true
	} else {
		in.Left = true
	}
	// Hop shortly after each turnaround.
	if phase%period > 30 && phase%period < 40 {
		in.Jump = true
	}
	return in
}

func pickRoom(masterURL string) (string, error) {
	httpClient := &http.Client{Timeout: 5 * time.Second}
	resp, err := httpClient.Get(masterURL + "/rooms")
	if err != nil {
		return "", fmt.Errorf("list rooms: %w", err)
	}
	defer resp.Body.Close()

	var rooms []roomListing
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		return "", fmt.Errorf("decode room list: %w", err)
	}
	if len(rooms) == 0 {
		return "", fmt.Errorf("no rooms registered with %s", masterURL)
	}

	best := rooms[0]
	for _, room := range rooms[1:] {
		if room.Players > best.Players {
			best = room
		}
	}
	log.Printf("[bot] picked room %q at %s (%d players, %s)",
		best.Name, best.Address, best.Players, best.Phase)
	return best.Address, nil
}
