package models

import (
	"errors"
	"strings"
	"time"
)

// ErrMessageBlank is returned by Validate when the message is empty.
var ErrMessageBlank = errors.New("message can't be blank")

// Gram is a post: a text message with an optional picture. UserID is the
// owner, set at creation and never changed afterwards.
type Gram struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Picture   string    `json:"picture,omitempty"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks model-level constraints before the record is persisted.
func (g *Gram) Validate() error {
	if strings.TrimSpace(g.Message) == "" {
		return ErrMessageBlank
	}
	return nil
}
