package model

// Event represents a calendar entry (trainings, matches, social events).
// Start and End are ISO date-time strings as the calendar UI sends them.
type Event struct {
	ID          int    `json:"id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Description string `json:"description"`
}
