package memory

import "time"

// Memory is an append-only fact remembered about a user.
type Memory struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Information string    `json:"information"`
	Importance  float64   `json:"importance"`
	CreatedAt   time.Time `json:"created_at"`
}
