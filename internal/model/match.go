package model

// MatchResult is the final score, present only for finished matches.
type MatchResult struct {
	Anakena  int `json:"anakena"`
	Opponent int `json:"opponent"`
}

// Match represents a fixture, scheduled or played.
type Match struct {
	ID         int          `json:"id"`
	TeamID     int          `json:"teamId"`
	Opponent   string       `json:"opponent"`
	Date       string       `json:"date"`
	Time       string       `json:"time"`
	Location   string       `json:"location"`
	Type       string       `json:"type"`   // local or visitante
	Status     string       `json:"status"` // scheduled, finished or cancelled
	Result     *MatchResult `json:"result,omitempty"`
	Tournament string       `json:"tournament"`
}
