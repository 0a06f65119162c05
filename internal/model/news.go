package model

// NewsItem represents a published article. TeamID is 0 for club-wide news.
type NewsItem struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Date     string `json:"date"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Image    string `json:"image"`
	TeamID   int    `json:"teamId,omitempty"`
	Featured bool   `json:"featured"`
}
