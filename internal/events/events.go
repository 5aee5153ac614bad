package events

import (
	"encoding/json"
	"fmt"
)

// Routing keys for the topic exchange.
const (
	RKGramCreated    = "gram.created"
	RKCommentCreated = "gram.comment.created"
)

// GramCreated is published when a user posts a new gram.
type GramCreated struct {
	GramID  string `json:"gram_id"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// CommentCreated is published when a comment lands on a gram.
type CommentCreated struct {
	CommentID string `json:"comment_id"`
	GramID    string `json:"gram_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

func Unmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
