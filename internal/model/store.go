package model

// StoreItem represents a catalog entry in the club merchandise store.
type StoreItem struct {
	ID       int     `json:"id"`
	Label    string  `json:"label"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}
