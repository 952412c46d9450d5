package models

// TopScorer is a derived, read-only view over goal and penalty match events.
// PlayerName comes from the event description, not from a participant join.
type TopScorer struct {
	Rank        int    `json:"rank"`
	PlayerName  string `json:"player_name"`
	TeamID      *int   `json:"team_id,omitempty"`
	TeamName    string `json:"team_name,omitempty"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
	Penalties   int    `json:"penalties"`
	Appearances int    `json:"appearances"`
}
