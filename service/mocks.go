package service

import (
	"context"

	"clicker/events"
	"clicker/models"

	"github.com/stretchr/testify/mock"
)

// MockUserScoreRepository is a mock implementation of UserScoreRepository
type MockUserScoreRepository struct {
	mock.Mock
}

func (m *MockUserScoreRepository) GetByUserID(ctx context.Context, userID string) (*models.UserScore, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserScore), args.Error(1)
}

func (m *MockUserScoreRepository) GetByUsername(ctx context.Context, username string) (*models.UserScore, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserScore), args.Error(1)
}

func (m *MockUserScoreRepository) Create(ctx context.Context, userID, username, avatarURL string) (*models.UserScore, error) {
	args := m.Called(ctx, userID, username, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserScore), args.Error(1)
}

func (m *MockUserScoreRepository) IncrementCounter(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserScoreRepository) UpdateUsername(ctx context.Context, userID, username string) error {
	args := m.Called(ctx, userID, username)
	return args.Error(0)
}

func (m *MockUserScoreRepository) UpdateAvatarURL(ctx context.Context, userID, avatarURL string) error {
	args := m.Called(ctx, userID, avatarURL)
	return args.Error(0)
}

func (m *MockUserScoreRepository) Sync(ctx context.Context, userID, username, avatarURL string) error {
	args := m.Called(ctx, userID, username, avatarURL)
	return args.Error(0)
}

func (m *MockUserScoreRepository) TopByCounter(ctx context.Context, direction models.SortDirection, limit, offset int) ([]*models.UserScore, error) {
	args := m.Called(ctx, direction, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserScore), args.Error(1)
}

func (m *MockUserScoreRepository) AllOrderedByCounterDesc(ctx context.Context) ([]*models.UserScore, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserScore), args.Error(1)
}

func (m *MockUserScoreRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.Event) {
	m.Called(ctx, event)
}
