package repository

import (
	"context"
	"errors"
	"fmt"

	"clicker/database"
	"clicker/models"
	"clicker/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code for duplicate key inserts
const uniqueViolation = "23505"

// queryable abstracts over a connection pool or transaction
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserScoreRepository implements the score store on Postgres
type UserScoreRepository struct {
	q queryable
}

// NewUserScoreRepository creates a new user score repository
func NewUserScoreRepository(db *database.DB) *UserScoreRepository {
	return &UserScoreRepository{q: db.Pool}
}

const userScoreColumns = `user_id, username, avatar_url, counter, created_at, updated_at`

func scanUserScore(row pgx.Row) (*models.UserScore, error) {
	var score models.UserScore
	err := row.Scan(
		&score.UserID,
		&score.Username,
		&score.AvatarURL,
		&score.Counter,
		&score.CreatedAt,
		&score.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// GetByUserID retrieves a user score by Discord user ID
func (r *UserScoreRepository) GetByUserID(ctx context.Context, userID string) (*models.UserScore, error) {
	query := `
		SELECT ` + userScoreColumns + `
		FROM user_scores
		WHERE user_id = $1
	`

	score, err := scanUserScore(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user score for %s: %w", userID, err)
	}

	return score, nil
}

// GetByUsername retrieves a user score by cached username. The cache can be
// stale after an upstream rename, so a miss here doesn't mean the user has
// no record; callers that know the user ID should prefer GetByUserID.
func (r *UserScoreRepository) GetByUsername(ctx context.Context, username string) (*models.UserScore, error) {
	query := `
		SELECT ` + userScoreColumns + `
		FROM user_scores
		WHERE username = $1
		LIMIT 1
	`

	score, err := scanUserScore(r.q.QueryRow(ctx, query, username))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user score for username %s: %w", username, err)
	}

	return score, nil
}

// Create inserts a new record with counter 0. A concurrent insert for the
// same user ID surfaces as service.ErrAlreadyExists; callers treat that as
// success and re-read the existing record.
func (r *UserScoreRepository) Create(ctx context.Context, userID, username, avatarURL string) (*models.UserScore, error) {
	query := `
		INSERT INTO user_scores (user_id, username, avatar_url, counter)
		VALUES ($1, $2, $3, 0)
		RETURNING ` + userScoreColumns

	score, err := scanUserScore(r.q.QueryRow(ctx, query, userID, username, avatarURL))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("user %s: %w", userID, service.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create user score for %s: %w", userID, err)
	}

	return score, nil
}

// IncrementCounter atomically adds 1 to the user's counter and returns the
// post-increment value. The increment happens store-side in one statement so
// concurrent sessions for the same user never lose clicks.
func (r *UserScoreRepository) IncrementCounter(ctx context.Context, userID string) (int64, error) {
	query := `
		UPDATE user_scores
		SET counter = counter + 1, updated_at = NOW()
		WHERE user_id = $1
		RETURNING counter
	`

	var counter int64
	err := r.q.QueryRow(ctx, query, userID).Scan(&counter)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("user %s: %w", userID, service.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter for %s: %w", userID, err)
	}

	return counter, nil
}

// UpdateUsername updates only the cached username
func (r *UserScoreRepository) UpdateUsername(ctx context.Context, userID, username string) error {
	return r.updateField(ctx, userID, "username", username)
}

// UpdateAvatarURL updates only the cached avatar URL
func (r *UserScoreRepository) UpdateAvatarURL(ctx context.Context, userID, avatarURL string) error {
	return r.updateField(ctx, userID, "avatar_url", avatarURL)
}

func (r *UserScoreRepository) updateField(ctx context.Context, userID, column, value string) error {
	// column is one of two compile-time constants, never user input
	query := fmt.Sprintf(`
		UPDATE user_scores
		SET %s = $1, updated_at = NOW()
		WHERE user_id = $2
	`, column)

	result, err := r.q.Exec(ctx, query, value, userID)
	if err != nil {
		return fmt.Errorf("failed to update %s for %s: %w", column, userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, service.ErrNotFound)
	}

	return nil
}

// Sync unconditionally overwrites every mutable identity field, including a
// redundant re-write of user_id. This is the explicit repair path behind
// /sync and must not be called from automatic reconciliation.
func (r *UserScoreRepository) Sync(ctx context.Context, userID, username, avatarURL string) error {
	query := `
		UPDATE user_scores
		SET user_id = $1, username = $2, avatar_url = $3, updated_at = NOW()
		WHERE user_id = $1
	`

	result, err := r.q.Exec(ctx, query, userID, username, avatarURL)
	if err != nil {
		return fmt.Errorf("failed to sync user %s: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, service.ErrNotFound)
	}

	return nil
}

// TopByCounter returns up to limit records ordered by counter in the
// requested direction, skipping offset records
func (r *UserScoreRepository) TopByCounter(ctx context.Context, direction models.SortDirection, limit, offset int) ([]*models.UserScore, error) {
	order := "DESC"
	if direction == models.SortAscending {
		order = "ASC"
	}

	query := `
		SELECT ` + userScoreColumns + `
		FROM user_scores
		ORDER BY counter ` + order + `
		LIMIT $1 OFFSET $2
	`

	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}
	defer rows.Close()

	return collectUserScores(rows)
}

// AllOrderedByCounterDesc returns every record ordered by descending counter.
// Used for viewer rank computation; fine at this bot's scale, replace with an
// indexed rank query if the table ever grows past that.
func (r *UserScoreRepository) AllOrderedByCounterDesc(ctx context.Context) ([]*models.UserScore, error) {
	query := `
		SELECT ` + userScoreColumns + `
		FROM user_scores
		ORDER BY counter DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all user scores: %w", err)
	}
	defer rows.Close()

	return collectUserScores(rows)
}

// CountAll returns the total number of score records
func (r *UserScoreRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM user_scores`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user scores: %w", err)
	}
	return count, nil
}

func collectUserScores(rows pgx.Rows) ([]*models.UserScore, error) {
	var scores []*models.UserScore
	for rows.Next() {
		score, err := scanUserScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user score: %w", err)
		}
		scores = append(scores, score)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user scores: %w", err)
	}

	return scores, nil
}
