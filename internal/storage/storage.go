package storage

import (
	"context"
	"errors"

	"github.com/you/gramshare/internal/models"
)

// ErrNotFound is returned when a referenced record does not resolve.
var ErrNotFound = errors.New("record not found")

// ErrEmailTaken is returned when a user signs up with an email that is
// already registered.
var ErrEmailTaken = errors.New("email already taken")

// Storage is the interface for all backend types (in-memory and PostgreSQL).
type Storage interface {
	CreateUser(email, passwordHash string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)

	GetAllGrams() ([]models.Gram, error)
	GetGramByID(id string) (*models.Gram, error)
	AddGram(userID, message, picture string) (models.Gram, error)
	UpdateGram(id, message, picture string) (*models.Gram, error)
	DeleteGram(id string) error

	AddComment(gramID, userID, message string) (*models.Comment, error)
	GetCommentsByGramID(gramID string, limit, offset int) ([]*models.Comment, error)
	SubscribeToComments(ctx context.Context, gramID string) (<-chan *models.Comment, error)
}
