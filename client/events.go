// Package client implements the game-facing half of the netcode: the session
// to one server, the predictive simulation of the local avatar, server
// reconciliation, and interpolation of remote entities. Rendering consumes
// its output and never writes back.
package client

import "github.com/pixelfray/strayfire/shared/messages"

// EventKind enumerates every domain event the session surfaces to the game
// loop. The set is closed: presentation switches over it exhaustively instead
// of subscribing to string-keyed callbacks.
type EventKind int

const (
	// EventJoined fires once per connection, after placement.
	EventJoined EventKind = iota
	// EventJoinFailed carries the server's rejection reason.
	EventJoinFailed
	// EventDisconnected fires when the transport closes, expectedly or not.
	EventDisconnected
	// EventLocalHit fires when the local avatar's authoritative health drops
	// while it is still alive.
	EventLocalHit
	// EventLocalDied fires exactly once per death, on the authoritative
	// death-flag transition.
	EventLocalDied
	// EventLocalRespawned fires when the death flag clears.
	EventLocalRespawned
	// EventPlayerKilled is the kill-feed entry for any elimination in the room.
	EventPlayerKilled
	// EventMatchEnded carries the final standings.
	EventMatchEnded
)

// Event is one entry in the session's outbound queue. Only the fields
// relevant to Kind are populated.
type Event struct {
	Kind EventKind

	Join   messages.JoinAccepted // EventJoined
	Reason string                // EventJoinFailed, EventDisconnected

	Health    int     // EventLocalHit: authoritative health after the hit
	RespawnMs float64 // EventLocalDied: server-provided countdown

	Kill  messages.PlayerKilled // EventPlayerKilled
	Match messages.MatchEnded   // EventMatchEnded
}
