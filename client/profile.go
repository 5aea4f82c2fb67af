package client

import (
	"encoding/json"
	"log"

	"github.com/quasilyte/gdata"
)

// Profile is the locally persisted player identity: display name, the last
// server joined, and the reconnect token handed out by it. Stored per-user
// via gdata so a restarted client can resume its previous placement.
type Profile struct {
	PlayerName     string `json:"playerName"`
	LastAddress    string `json:"lastAddress"`
	ReconnectToken string `json:"reconnectToken"`
}

const profileItem = "profile"

var gdataManager *gdata.Manager

// InitProfileStore opens the per-user data directory. Failure is logged and
// tolerated; the client just runs without persistence.
func InitProfileStore() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "strayfire",
	})
	if err != nil {
		log.Printf("[client] persistence unavailable: %v", err)
		return err
	}
	gdataManager = m
	return nil
}

// LoadProfile reads the saved profile, returning nil when none exists.
func LoadProfile() (*Profile, error) {
	if gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem(profileItem)
	if err != nil {
		log.Printf("[client] could not load profile: %v", err)
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[client] could not parse saved profile: %v", err)
		return nil, err
	}
	return &p, nil
}

// SaveProfile writes the profile to the per-user data directory.
func SaveProfile(p *Profile) error {
	if gdataManager == nil || p == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := gdataManager.SaveItem(profileItem, data); err != nil {
		log.Printf("[client] could not save profile: %v", err)
		return err
	}
	return nil
}
