package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/you/gramshare/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// commentsChannel is the pg NOTIFY channel used for the live comment feed.
const commentsChannel = "comments_channel"

// PostgresStorage persists records in PostgreSQL.
type PostgresStorage struct {
	DB         *sql.DB
	DataSource string
}

// NewPostgresStorage creates a PostgreSQL-backed storage. DataSource is kept
// for the feed listener, which opens its own connection.
func NewPostgresStorage(db *sql.DB, dataSource string) *PostgresStorage {
	return &PostgresStorage{DB: db, DataSource: dataSource}
}

func (s *PostgresStorage) CreateUser(email, passwordHash string) (*models.User, error) {
	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	_, err := s.DB.Exec("INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)",
		user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrEmailTaken
		}
		log.WithError(err).Error("insert user failed")
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStorage) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.QueryRow("SELECT id, email, password_hash, created_at FROM users WHERE email=$1", email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStorage) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.QueryRow("SELECT id, email, password_hash, created_at FROM users WHERE id=$1", id).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAllGrams returns every gram, newest first.
func (s *PostgresStorage) GetAllGrams() ([]models.Gram, error) {
	rows, err := s.DB.Query("SELECT id, message, picture, user_id, created_at FROM grams ORDER BY created_at DESC")
	if err != nil {
		log.WithError(err).Error("fetch grams failed")
		return nil, err
	}
	defer rows.Close()

	var grams []models.Gram
	for rows.Next() {
		var gram models.Gram
		if err := rows.Scan(&gram.ID, &gram.Message, &gram.Picture, &gram.UserID, &gram.CreatedAt); err != nil {
			return nil, err
		}
		grams = append(grams, gram)
	}
	return grams, rows.Err()
}

func (s *PostgresStorage) GetGramByID(id string) (*models.Gram, error) {
	var gram models.Gram
	err := s.DB.QueryRow("SELECT id, message, picture, user_id, created_at FROM grams WHERE id=$1", id).
		Scan(&gram.ID, &gram.Message, &gram.Picture, &gram.UserID, &gram.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &gram, nil
}

func (s *PostgresStorage) AddGram(userID, message, picture string) (models.Gram, error) {
	gram := models.Gram{
		ID:        uuid.New().String(),
		Message:   message,
		Picture:   picture,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	_, err := s.DB.Exec("INSERT INTO grams (id, message, picture, user_id, created_at) VALUES ($1, $2, $3, $4, $5)",
		gram.ID, gram.Message, gram.Picture, gram.UserID, gram.CreatedAt)
	if err != nil {
		log.WithError(err).Error("insert gram failed")
		return models.Gram{}, err
	}
	return gram, nil
}

// UpdateGram applies message and picture in a single UPDATE, so an invalid
// change can never leave a partially written row behind.
func (s *PostgresStorage) UpdateGram(id, message, picture string) (*models.Gram, error) {
	res, err := s.DB.Exec("UPDATE grams SET message=$1, picture=$2 WHERE id=$3", message, picture, id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetGramByID(id)
}

func (s *PostgresStorage) DeleteGram(id string) error {
	res, err := s.DB.Exec("DELETE FROM grams WHERE id=$1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) AddComment(gramID, userID, message string) (*models.Comment, error) {
	var exists bool
	err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM grams WHERE id=$1)", gramID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		GramID:    gramID,
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	_, err = s.DB.Exec("INSERT INTO comments (id, gram_id, user_id, message, created_at) VALUES ($1, $2, $3, $4, $5)",
		comment.ID, comment.GramID, comment.UserID, comment.Message, comment.CreatedAt)
	if err != nil {
		log.WithError(err).Error("insert comment failed")
		return nil, err
	}

	// Notify feed listeners. The payload is the full comment as JSON.
	payload, err := json.Marshal(comment)
	if err != nil {
		return nil, err
	}
	if _, err := s.DB.Exec("SELECT pg_notify($1, $2)", commentsChannel, string(payload)); err != nil {
		log.WithError(err).Error("pg_notify failed")
		return nil, err
	}

	return &comment, nil
}

func (s *PostgresStorage) GetCommentsByGramID(gramID string, limit, offset int) ([]*models.Comment, error) {
	rows, err := s.DB.Query("SELECT id, gram_id, user_id, message, created_at FROM comments WHERE gram_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		gramID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.GramID, &comment.UserID, &comment.Message, &comment.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}

// SubscribeToComments listens for new comments on a gram through pg
// LISTEN/NOTIFY. The returned channel closes when ctx is cancelled or the
// listener dies.
func (s *PostgresStorage) SubscribeToComments(ctx context.Context, gramID string) (<-chan *models.Comment, error) {
	ch := make(chan *models.Comment)

	listener := pq.NewListener(s.DataSource, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.WithError(err).Error("postgres listener error")
		}
	})
	if err := listener.Listen(commentsChannel); err != nil {
		_ = listener.Close()
		return nil, err
	}

	go func() {
		defer close(ch)
		defer listener.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case <-time.After(90 * time.Second):
				if err := listener.Ping(); err != nil {
					log.WithError(err).Error("postgres listener ping failed")
					return
				}

			case notification := <-listener.Notify:
				if notification == nil {
					continue
				}
				var comment models.Comment
				if err := json.Unmarshal([]byte(notification.Extra), &comment); err != nil {
					log.WithError(err).Error("decode comment notification failed")
					continue
				}
				if comment.GramID != gramID {
					continue
				}
				select {
				case ch <- &comment:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
