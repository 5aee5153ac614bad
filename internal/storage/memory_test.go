package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetAllGrams_Empty(t *testing.T) {
	storage := NewMemoryStorage()

	grams, err := storage.GetAllGrams()

	// An empty listing always succeeds
	assert.NoError(t, err)
	assert.Empty(t, grams)
}

func TestGetAllGrams_ExistingGrams(t *testing.T) {
	storage := NewMemoryStorage()

	_, err := storage.AddGram("user-1", "Hello!", "")
	assert.NoError(t, err)

	grams, err := storage.GetAllGrams()

	assert.NoError(t, err)
	assert.Len(t, grams, 1)
	assert.Equal(t, "Hello!", grams[0].Message)
}

func TestGetGramByID_NotFound(t *testing.T) {
	storage := NewMemoryStorage()

	gram, err := storage.GetGramByID("nonexistent-id")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, gram)
}

func TestGetGramByID_Found(t *testing.T) {
	storage := NewMemoryStorage()

	gram, err := storage.AddGram("user-1", "Hello!", "")
	assert.NoError(t, err)

	fetched, err := storage.GetGramByID(gram.ID)

	assert.NoError(t, err)
	assert.Equal(t, gram.ID, fetched.ID)
	assert.Equal(t, gram.Message, fetched.Message)
}

func TestAddGram(t *testing.T) {
	storage := NewMemoryStorage()

	gram, err := storage.AddGram("user-1", "Hello!", "/uploads/picture.png")

	assert.NoError(t, err)
	assert.NotEmpty(t, gram.ID)
	assert.Equal(t, "Hello!", gram.Message)
	assert.Equal(t, "/uploads/picture.png", gram.Picture)
	assert.Equal(t, "user-1", gram.UserID)
}

func TestUpdateGram_NotFound(t *testing.T) {
	storage := NewMemoryStorage()

	gram, err := storage.UpdateGram("nonexistent-id", "Changed", "")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, gram)
}

func TestUpdateGram_KeepsOwner(t *testing.T) {
	storage := NewMemoryStorage()

	gram, err := storage.AddGram("user-1", "Initial value", "")
	assert.NoError(t, err)

	updated, err := storage.UpdateGram(gram.ID, "Changed", "")

	assert.NoError(t, err)
	assert.Equal(t, "Changed", updated.Message)
	assert.Equal(t, "user-1", updated.UserID)

	fetched, err := storage.GetGramByID(gram.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Changed", fetched.Message)
}

func TestDeleteGram(t *testing.T) {
	storage := NewMemoryStorage()

	gram, err := storage.AddGram("user-1", "Hello!", "")
	assert.NoError(t, err)

	assert.NoError(t, storage.DeleteGram(gram.ID))

	_, err = storage.GetGramByID(gram.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, storage.DeleteGram(gram.ID), ErrNotFound)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	storage := NewMemoryStorage()

	_, err := storage.CreateUser("a@example.com", "hash")
	assert.NoError(t, err)

	user, err := storage.CreateUser("a@example.com", "hash")

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Nil(t, user)
}

func TestGetUserByEmail(t *testing.T) {
	storage := NewMemoryStorage()

	created, err := storage.CreateUser("a@example.com", "hash")
	assert.NoError(t, err)

	user, err := storage.GetUserByEmail("a@example.com")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = storage.GetUserByEmail("missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddComment_NoGram(t *testing.T) {
	storage := NewMemoryStorage()

	comment, err := storage.AddComment("nonexistent-gram-id", "user-1", "test comment")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, comment)
}

func TestAddComment_Success(t *testing.T) {
	storage := NewMemoryStorage()

	gram, err := storage.AddGram("user-1", "Hello!", "")
	assert.NoError(t, err)

	comment, err := storage.AddComment(gram.ID, "user-2", "test comment")

	assert.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "test comment", comment.Message)
	assert.Equal(t, gram.ID, comment.GramID)
	assert.Equal(t, "user-2", comment.UserID)
}

func TestGetCommentsByGramID_NotFound(t *testing.T) {
	storage := NewMemoryStorage()

	comments, err := storage.GetCommentsByGramID("nonexistent-gram-id", 10, 0)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, comments)
}

func TestGetCommentsByGramID_Success(t *testing.T) {
	storage := NewMemoryStorage()

	gram, err := storage.AddGram("user-1", "Hello!", "")
	assert.NoError(t, err)

	_, err = storage.AddComment(gram.ID, "user-2", "test comment")
	assert.NoError(t, err)

	comments, err := storage.GetCommentsByGramID(gram.ID, 10, 0)

	assert.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Equal(t, "test comment", comments[0].Message)
}

func TestSubscribeToComments_Success(t *testing.T) {
	storage := NewMemoryStorage()

	gram, err := storage.AddGram("user-1", "Hello!", "")
	assert.NoError(t, err)

	ch, err := storage.SubscribeToComments(context.Background(), gram.ID)
	assert.NoError(t, err)
	assert.NotNil(t, ch)

	_, err = storage.AddComment(gram.ID, "user-2", "test comment")
	assert.NoError(t, err)

	select {
	case comment := <-ch:
		assert.Equal(t, "test comment", comment.Message)
	case <-time.After(1 * time.Second):
		assert.Fail(t, "failed to receive comment")
	}
}

func TestSubscribeToComments_CancelClosesChannel(t *testing.T) {
	storage := NewMemoryStorage()

	gram, err := storage.AddGram("user-1", "Hello!", "")
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := storage.SubscribeToComments(ctx, gram.ID)
	assert.NoError(t, err)

	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(1 * time.Second):
		assert.Fail(t, "channel not closed after cancel")
	}

	// A comment added after the cancel must not panic on the closed channel.
	_, err = storage.AddComment(gram.ID, "user-2", "late comment")
	assert.NoError(t, err)
}
