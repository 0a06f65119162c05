package model

// Player represents a member of one of the club's teams.
type Player struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	TeamID    int    `json:"teamId"`
	Position  string `json:"position"`
	Number    int    `json:"number,omitempty"`
	Age       int    `json:"age"`
	Carrera   string `json:"carrera"` // degree program, kept in Spanish like the UI
	IsCaptain bool   `json:"isCaptain"`
}
