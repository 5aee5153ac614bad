package models

import "time"

// Comment is a reply attached to exactly one gram, authored by a user.
type Comment struct {
	ID        string    `json:"id"`
	GramID    string    `json:"gramId"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
