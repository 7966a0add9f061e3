package service

import (
	"context"
	"errors"
	"fmt"

	"clicker/events"
	"clicker/models"

	log "github.com/sirupsen/logrus"
)

// userService implements the UserService interface
type userService struct {
	scoreRepo      UserScoreRepository
	eventPublisher EventPublisher
}

// NewUserService creates a new user service
func NewUserService(scoreRepo UserScoreRepository, eventPublisher EventPublisher) UserService {
	return &userService{
		scoreRepo:      scoreRepo,
		eventPublisher: eventPublisher,
	}
}

// GetOrCreateUser retrieves an existing record or creates a new one with
// counter 0. Two concurrent first-contact calls collapse to a single record:
// the loser of the insert race re-reads the winner's row.
func (s *userService) GetOrCreateUser(ctx context.Context, userID string, live Identity) (*models.UserScore, error) {
	score, err := s.scoreRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if score != nil {
		// Known player: keep the cached identity fields fresh
		if err := s.reconcileIdentity(ctx, score, live); err != nil {
			return nil, err
		}
		return score, nil
	}

	score, err = s.scoreRepo.Create(ctx, userID, live.Username, live.AvatarURL)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			// Lost the insert race; the existing record is the result
			score, err = s.scoreRepo.GetByUserID(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("failed to re-read user after create race: %w", err)
			}
			if score == nil {
				return nil, fmt.Errorf("user %s vanished after create race", userID)
			}
			return score, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"username": live.Username,
	}).Info("Created score record for new player")

	s.eventPublisher.Publish(ctx, events.UserCreatedEvent{
		UserID:   userID,
		Username: live.Username,
	})

	return score, nil
}

// reconcileIdentity writes back only the cached fields that diverge from the
// live snapshot. Both checks are independent; neither touches the counter.
func (s *userService) reconcileIdentity(ctx context.Context, stored *models.UserScore, live Identity) error {
	if stored.Username != live.Username {
		if err := s.scoreRepo.UpdateUsername(ctx, stored.UserID, live.Username); err != nil {
			return fmt.Errorf("failed to update username: %w", err)
		}
		stored.Username = live.Username
		log.Infof("Updated cached username for %s", stored.UserID)
	}

	if stored.AvatarURL != live.AvatarURL {
		if err := s.scoreRepo.UpdateAvatarURL(ctx, stored.UserID, live.AvatarURL); err != nil {
			return fmt.Errorf("failed to update avatar url: %w", err)
		}
		stored.AvatarURL = live.AvatarURL
		log.Infof("Updated cached avatar url for %s", stored.UserID)
	}

	return nil
}

// IncrementCounter atomically bumps the user's score and returns the
// authoritative post-increment value
func (s *userService) IncrementCounter(ctx context.Context, userID string) (int64, error) {
	counter, err := s.scoreRepo.IncrementCounter(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	return counter, nil
}

// SyncProfile is the explicit repair path: it creates the record when absent
// and then force-writes every mutable identity field regardless of whether
// the cached values look stale.
func (s *userService) SyncProfile(ctx context.Context, userID string, live Identity) error {
	score, err := s.scoreRepo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	if score == nil {
		if _, err := s.scoreRepo.Create(ctx, userID, live.Username, live.AvatarURL); err != nil && !errors.Is(err, ErrAlreadyExists) {
			return fmt.Errorf("failed to create user: %w", err)
		}
	}

	if err := s.scoreRepo.Sync(ctx, userID, live.Username, live.AvatarURL); err != nil {
		return fmt.Errorf("failed to sync profile: %w", err)
	}

	log.Infof("Synchronized profile for %s", userID)

	s.eventPublisher.Publish(ctx, events.ProfileSyncedEvent{
		UserID:   userID,
		Username: live.Username,
	})

	return nil
}

// GetProfileByUserID looks up a profile by stable user ID
func (s *userService) GetProfileByUserID(ctx context.Context, userID string) (*models.UserScore, error) {
	score, err := s.scoreRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if score == nil {
		return nil, ErrNotFound
	}
	return score, nil
}

// GetProfileByUsername looks up a profile by cached username. The cache can
// lag behind upstream renames, so a miss is a user-visible outcome rather
// than a defect.
func (s *userService) GetProfileByUsername(ctx context.Context, username string) (*models.UserScore, error) {
	score, err := s.scoreRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if score == nil {
		return nil, ErrNotFound
	}
	return score, nil
}
