package service

import (
	"context"

	"clicker/events"
	"clicker/models"
)

// Identity is a live snapshot of a user's upstream Discord profile. It is
// always authoritative over the cached fields on a stored record.
type Identity struct {
	Username  string
	AvatarURL string
}

// UserScoreRepository defines the score store contract. All mutation happens
// through single atomic store-side operations; callers never read-modify-write.
type UserScoreRepository interface {
	// GetByUserID retrieves a record by Discord user ID, nil when absent
	GetByUserID(ctx context.Context, userID string) (*models.UserScore, error)

	// GetByUsername retrieves a record by cached username, nil when absent.
	// Results may be stale or ambiguous after upstream renames.
	GetByUsername(ctx context.Context, username string) (*models.UserScore, error)

	// Create inserts a new record with counter 0. Returns ErrAlreadyExists
	// when a concurrent insert for the same user ID already landed.
	Create(ctx context.Context, userID, username, avatarURL string) (*models.UserScore, error)

	// IncrementCounter atomically adds 1 and returns the post-increment value
	IncrementCounter(ctx context.Context, userID string) (int64, error)

	// UpdateUsername updates only the cached username
	UpdateUsername(ctx context.Context, userID, username string) error

	// UpdateAvatarURL updates only the cached avatar URL
	UpdateAvatarURL(ctx context.Context, userID, avatarURL string) error

	// Sync unconditionally overwrites all mutable identity fields
	Sync(ctx context.Context, userID, username, avatarURL string) error

	// TopByCounter returns up to limit records ordered by counter
	TopByCounter(ctx context.Context, direction models.SortDirection, limit, offset int) ([]*models.UserScore, error)

	// AllOrderedByCounterDesc returns every record, highest counter first
	AllOrderedByCounterDesc(ctx context.Context) ([]*models.UserScore, error)

	// CountAll returns the total number of records
	CountAll(ctx context.Context) (int, error)
}

// UserService defines profile and identity operations
type UserService interface {
	// GetOrCreateUser returns the user's record, creating it with counter 0
	// on first contact. A create race collapses to the existing record. For
	// pre-existing records the cached identity fields are reconciled against
	// the live snapshot.
	GetOrCreateUser(ctx context.Context, userID string, live Identity) (*models.UserScore, error)

	// IncrementCounter atomically bumps the user's score and returns the
	// authoritative post-increment value
	IncrementCounter(ctx context.Context, userID string) (int64, error)

	// SyncProfile force-writes every mutable identity field, creating the
	// record first if absent. Only invoked by the explicit /sync command.
	SyncProfile(ctx context.Context, userID string, live Identity) error

	// GetProfileByUserID looks up a profile by user ID; ErrNotFound when absent
	GetProfileByUserID(ctx context.Context, userID string) (*models.UserScore, error)

	// GetProfileByUsername looks up a profile by cached username;
	// ErrNotFound when absent
	GetProfileByUsername(ctx context.Context, username string) (*models.UserScore, error)
}

// RankComputer computes a viewer's global rank. Isolated so the linear scan
// can be swapped for an indexed query without touching the leaderboard engine.
type RankComputer interface {
	// ComputeRank returns the viewer's 1-based rank among all records ordered
	// by descending counter, plus the total record count. Rank 0 means the
	// viewer has no record.
	ComputeRank(ctx context.Context, viewerID string) (rank int, total int, err error)
}

// LeaderboardService builds render-ready leaderboard views
type LeaderboardService interface {
	// RenderTop returns the top page in the requested direction together
	// with the viewer's global rank
	RenderTop(ctx context.Context, viewerID string, direction models.SortDirection) (*models.LeaderboardView, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}
