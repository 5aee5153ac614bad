package storage

import (
	"context"

	"github.com/you/gramshare/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(email, passwordHash string) (*models.User, error) {
	args := m.Called(email, passwordHash)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetAllGrams() ([]models.Gram, error) {
	args := m.Called()
	return args.Get(0).([]models.Gram), args.Error(1)
}

func (m *MockStorage) GetGramByID(id string) (*models.Gram, error) {
	args := m.Called(id)
	return args.Get(0).(*models.Gram), args.Error(1)
}

func (m *MockStorage) AddGram(userID, message, picture string) (models.Gram, error) {
	args := m.Called(userID, message, picture)
	return args.Get(0).(models.Gram), args.Error(1)
}

func (m *MockStorage) UpdateGram(id, message, picture string) (*models.Gram, error) {
	args := m.Called(id, message, picture)
	return args.Get(0).(*models.Gram), args.Error(1)
}

func (m *MockStorage) DeleteGram(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) AddComment(gramID, userID, message string) (*models.Comment, error) {
	args := m.Called(gramID, userID, message)
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockStorage) GetCommentsByGramID(gramID string, limit, offset int) ([]*models.Comment, error) {
	args := m.Called(gramID, limit, offset)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockStorage) SubscribeToComments(ctx context.Context, gramID string) (<-chan *models.Comment, error) {
	args := m.Called(ctx, gramID)
	return args.Get(0).(chan *models.Comment), args.Error(1)
}
