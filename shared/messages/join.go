// Package messages defines every wire message exchanged between client and
// server. All of them travel through the necs router as msgpack payloads.
package messages

// JoinRequest is sent by a client after connecting to request placement.
type JoinRequest struct {
	Version        string
	PlayerName     string
	ReconnectToken string
}

// JoinAccepted is the team-assignment message, sent once per connection
// after placement. Until it arrives the client does not know its own id.
type JoinAccepted struct {
	PlayerID       string
	Team           string
	RoomID         string
	ServerName     string
	ArenaName      string
	TickRate       int
	ReconnectToken string
}

// JoinRejected is sent when a client's join request is refused.
type JoinRejected struct {
	Reason string
}
