package messages

// PlayerKilled is broadcast once per elimination.
type PlayerKilled struct {
	KillerID   string
	VictimID   string
	KillerName string
	VictimName string
}

// PlayerStanding is one row of the end-of-match scoreboard.
type PlayerStanding struct {
	PlayerID string
	Name     string
	Team     string
	Kills    int
	Deaths   int
}

// MatchEnded is broadcast once per match, after the score threshold or time
// limit is reached.
type MatchEnded struct {
	WinningTeam string
	Standings   []PlayerStanding
}
