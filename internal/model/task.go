package model

import "time"

// Task is a named category time can be logged against.
type Task struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
