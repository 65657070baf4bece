package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // don’t expose hash
	SessionID    string    `json:"-"` // set only when a session was just issued
	CreatedAt    time.Time `json:"created_at"`
}
