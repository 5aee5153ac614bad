package storage

import (
	"context"
	"sync"
	"time"

	"github.com/you/gramshare/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MemoryStorage keeps everything in process memory. Used for development
// and for handler tests.
type MemoryStorage struct {
	users         map[string]models.User
	grams         map[string]models.Gram
	comments      map[string][]models.Comment
	subscriptions map[string][]chan *models.Comment
	mu            sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:         make(map[string]models.User),
		grams:         make(map[string]models.Gram),
		comments:      make(map[string][]models.Comment),
		subscriptions: make(map[string][]chan *models.Comment),
	}
}

func (s *MemoryStorage) CreateUser(email, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrEmailTaken
		}
	}
	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemoryStorage) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) GetUserByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &user, nil
}

// GetAllGrams returns every gram. An empty listing is not an error.
func (s *MemoryStorage) GetAllGrams() ([]models.Gram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Gram
	for _, gram := range s.grams {
		result = append(result, gram)
	}
	return result, nil
}

func (s *MemoryStorage) GetGramByID(id string) (*models.Gram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gram, exists := s.grams[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &gram, nil
}

func (s *MemoryStorage) AddGram(userID, message, picture string) (models.Gram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gram := models.Gram{
		ID:        uuid.New().String(),
		Message:   message,
		Picture:   picture,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	s.grams[gram.ID] = gram
	return gram, nil
}

// UpdateGram replaces message and picture in one step. The owner never changes.
func (s *MemoryStorage) UpdateGram(id, message, picture string) (*models.Gram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gram, exists := s.grams[id]
	if !exists {
		return nil, ErrNotFound
	}
	gram.Message = message
	gram.Picture = picture
	s.grams[id] = gram
	return &gram, nil
}

func (s *MemoryStorage) DeleteGram(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.grams[id]; !exists {
		return ErrNotFound
	}
	delete(s.grams, id)
	delete(s.comments, id)
	return nil
}

func (s *MemoryStorage) AddComment(gramID, userID, message string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.grams[gramID]; !exists {
		return nil, ErrNotFound
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		GramID:    gramID,
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	s.comments[gramID] = append(s.comments[gramID], comment)

	// Fan the comment out to feed subscribers; a subscriber that can no
	// longer receive is dropped.
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if subscribers, ok := s.subscriptions[gramID]; ok {
			for i := 0; i < len(subscribers); {
				select {
				case subscribers[i] <- &comment:
					i++
				default:
					subscribers = append(subscribers[:i], subscribers[i+1:]...)
				}
			}
			s.subscriptions[gramID] = subscribers
		}
	}()

	return &comment, nil
}

func (s *MemoryStorage) GetCommentsByGramID(gramID string, limit, offset int) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.grams[gramID]; !exists {
		return nil, ErrNotFound
	}

	comments := s.comments[gramID]
	start := offset
	end := offset + limit
	if start > len(comments) {
		return []*models.Comment{}, nil
	}
	if end > len(comments) {
		end = len(comments)
	}

	var result []*models.Comment
	for i := start; i < end; i++ {
		result = append(result, &comments[i])
	}
	return result, nil
}

// SubscribeToComments registers a feed channel for new comments on a gram.
// The subscription is removed and its channel closed when ctx is cancelled.
func (s *MemoryStorage) SubscribeToComments(ctx context.Context, gramID string) (<-chan *models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.WithField("gram_id", gramID).Debug("subscribing to comments")
	ch := make(chan *models.Comment, 1)
	s.subscriptions[gramID] = append(s.subscriptions[gramID], ch)

	go func() {
		<-ctx.Done()
		s.unsubscribe(gramID, ch)
	}()

	return ch, nil
}

// unsubscribe removes a feed channel and closes it. The fan-out in AddComment
// holds the same lock, so it never sends on a closed channel.
func (s *MemoryStorage) unsubscribe(gramID string, ch chan *models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subscribers := s.subscriptions[gramID]
	for i, sub := range subscribers {
		if sub == ch {
			s.subscriptions[gramID] = append(subscribers[:i], subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}
