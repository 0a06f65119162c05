package model

// Tournament represents a competition the club takes part in.
type Tournament struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Sport     string `json:"sport"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Teams     int    `json:"teams"`  // number of participating teams
	Status    string `json:"status"` // active, finished or upcoming
}
