package model

// NextMatch is the upcoming-fixture summary embedded in a Team.
type NextMatch struct {
	ID       int    `json:"id"`
	Date     string `json:"date"`
	Opponent string `json:"opponent"`
	Location string `json:"location"`
	Time     string `json:"time"`
}

// Team represents one of the club's squads.
//
// Resources use a small numeric public ID (assigned by the client that seeds
// the catalog, not by the database) because that is what the frontend routes
// and cross-references by — e.g. Player.TeamID and News.TeamID point at it.
type Team struct {
	ID           int        `json:"id"`
	Sport        string     `json:"sport"`
	Name         string     `json:"name"`
	Category     string     `json:"category"` // Masculino, Femenino or Mixto
	Description  string     `json:"description"`
	Founded      string     `json:"founded"`
	Captain      string     `json:"captain"`
	PlayersCount int        `json:"playersCount"`
	Achievements []string   `json:"achievements"`
	NextMatch    *NextMatch `json:"nextMatch,omitempty"`
	Image        string     `json:"image"`
}
