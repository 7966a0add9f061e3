package repository

import (
	"context"
	"sync"
	"testing"

	"clicker/models"
	"clicker/repository/testutil"
	"clicker/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserScoreRepository_GetByUserID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserScoreRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		score, err := repo.GetByUserID(ctx, "999999")
		require.NoError(t, err)
		assert.Nil(t, score)
	})

	t.Run("user found", func(t *testing.T) {
		created, err := repo.Create(ctx, "123456", "testuser", "https://cdn.example/a.png")
		require.NoError(t, err)

		score, err := repo.GetByUserID(ctx, "123456")
		require.NoError(t, err)
		require.NotNil(t, score)

		assert.Equal(t, "123456", score.UserID)
		assert.Equal(t, "testuser", score.Username)
		assert.Equal(t, "https://cdn.example/a.png", score.AvatarURL)
		assert.Equal(t, int64(0), score.Counter)
		assert.Equal(t, created.CreatedAt, score.CreatedAt)
	})
}

func TestUserScoreRepository_GetByUsername(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserScoreRepository(testDB.DB)
	ctx := context.Background()

	t.Run("username not found", func(t *testing.T) {
		score, err := repo.GetByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, score)
	})

	t.Run("username found", func(t *testing.T) {
		_, err := repo.Create(ctx, "123456", "testuser", "")
		require.NoError(t, err)

		score, err := repo.GetByUsername(ctx, "testuser")
		require.NoError(t, err)
		require.NotNil(t, score)
		assert.Equal(t, "123456", score.UserID)
	})
}

func TestUserScoreRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserScoreRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation starts at zero", func(t *testing.T) {
		score, err := repo.Create(ctx, "123456", "testuser", "")
		require.NoError(t, err)
		require.NotNil(t, score)

		assert.Equal(t, int64(0), score.Counter)
		assert.False(t, score.CreatedAt.IsZero())
		assert.False(t, score.UpdatedAt.IsZero())
	})

	t.Run("duplicate user ID", func(t *testing.T) {
		_, err := repo.Create(ctx, "789012", "testuser2", "")
		require.NoError(t, err)

		_, err = repo.Create(ctx, "789012", "different_name", "")
		assert.ErrorIs(t, err, service.ErrAlreadyExists)
	})
}

func TestUserScoreRepository_IncrementCounter(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserScoreRepository(testDB.DB)
	ctx := context.Background()

	t.Run("returns post-increment value", func(t *testing.T) {
		_, err := repo.Create(ctx, "123456", "testuser", "")
		require.NoError(t, err)

		counter, err := repo.IncrementCounter(ctx, "123456")
		require.NoError(t, err)
		assert.Equal(t, int64(1), counter)

		counter, err = repo.IncrementCounter(ctx, "123456")
		require.NoError(t, err)
		assert.Equal(t, int64(2), counter)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.IncrementCounter(ctx, "999999")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("concurrent increments never lose clicks", func(t *testing.T) {
		_, err := repo.Create(ctx, "555555", "clicker", "")
		require.NoError(t, err)

		const workers = 10
		const clicksEach = 5

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < clicksEach; i++ {
					_, err := repo.IncrementCounter(ctx, "555555")
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		score, err := repo.GetByUserID(ctx, "555555")
		require.NoError(t, err)
		assert.Equal(t, int64(workers*clicksEach), score.Counter)
	})
}

func TestUserScoreRepository_UpdateIdentityFields(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserScoreRepository(testDB.DB)
	ctx := context.Background()

	t.Run("update username only", func(t *testing.T) {
		_, err := repo.Create(ctx, "123456", "old_name", "https://cdn.example/a.png")
		require.NoError(t, err)

		err = repo.UpdateUsername(ctx, "123456", "new_name")
		require.NoError(t, err)

		score, err := repo.GetByUserID(ctx, "123456")
		require.NoError(t, err)
		assert.Equal(t, "new_name", score.Username)
		assert.Equal(t, "https://cdn.example/a.png", score.AvatarURL)
	})

	t.Run("update avatar only", func(t *testing.T) {
		_, err := repo.Create(ctx, "789012", "testuser", "https://cdn.example/old.png")
		require.NoError(t, err)

		err = repo.UpdateAvatarURL(ctx, "789012", "https://cdn.example/new.png")
		require.NoError(t, err)

		score, err := repo.GetByUserID(ctx, "789012")
		require.NoError(t, err)
		assert.Equal(t, "testuser", score.Username)
		assert.Equal(t, "https://cdn.example/new.png", score.AvatarURL)
	})

	t.Run("missing user", func(t *testing.T) {
		err := repo.UpdateUsername(ctx, "999999", "nobody")
		assert.ErrorIs(t, err, service.ErrNotFound)

		err = repo.UpdateAvatarURL(ctx, "999999", "")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestUserScoreRepository_Sync(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserScoreRepository(testDB.DB)
	ctx := context.Background()

	t.Run("force-writes all identity fields, counter untouched", func(t *testing.T) {
		_, err := repo.Create(ctx, "123456", "old_name", "https://cdn.example/old.png")
		require.NoError(t, err)

		_, err = repo.IncrementCounter(ctx, "123456")
		require.NoError(t, err)

		err = repo.Sync(ctx, "123456", "new_name", "https://cdn.example/new.png")
		require.NoError(t, err)

		score, err := repo.GetByUserID(ctx, "123456")
		require.NoError(t, err)
		assert.Equal(t, "new_name", score.Username)
		assert.Equal(t, "https://cdn.example/new.png", score.AvatarURL)
		assert.Equal(t, int64(1), score.Counter)
	})

	t.Run("missing user", func(t *testing.T) {
		err := repo.Sync(ctx, "999999", "nobody", "")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestUserScoreRepository_TopByCounter(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserScoreRepository(testDB.DB)
	ctx := context.Background()

	seed := []struct {
		userID   string
		username string
		clicks   int
	}{
		{"100", "alice", 5},
		{"200", "bob", 2},
		{"300", "carol", 8},
		{"400", "dave", 0},
	}
	for _, s := range seed {
		_, err := repo.Create(ctx, s.userID, s.username, "")
		require.NoError(t, err)
		for i := 0; i < s.clicks; i++ {
			_, err := repo.IncrementCounter(ctx, s.userID)
			require.NoError(t, err)
		}
	}

	t.Run("descending order", func(t *testing.T) {
		scores, err := repo.TopByCounter(ctx, models.SortDescending, 10, 0)
		require.NoError(t, err)
		require.Len(t, scores, 4)

		assert.Equal(t, "carol", scores[0].Username)
		assert.Equal(t, "alice", scores[1].Username)
		assert.Equal(t, "bob", scores[2].Username)
		assert.Equal(t, "dave", scores[3].Username)
	})

	t.Run("ascending order", func(t *testing.T) {
		scores, err := repo.TopByCounter(ctx, models.SortAscending, 10, 0)
		require.NoError(t, err)
		require.Len(t, scores, 4)

		assert.Equal(t, "dave", scores[0].Username)
		assert.Equal(t, "carol", scores[3].Username)
	})

	t.Run("limit and offset", func(t *testing.T) {
		scores, err := repo.TopByCounter(ctx, models.SortDescending, 2, 1)
		require.NoError(t, err)
		require.Len(t, scores, 2)

		assert.Equal(t, "alice", scores[0].Username)
		assert.Equal(t, "bob", scores[1].Username)
	})

	t.Run("all ordered descending", func(t *testing.T) {
		scores, err := repo.AllOrderedByCounterDesc(ctx)
		require.NoError(t, err)
		require.Len(t, scores, 4)
		for i := 1; i < len(scores); i++ {
			assert.GreaterOrEqual(t, scores[i-1].Counter, scores[i].Counter)
		}
	})

	t.Run("count all", func(t *testing.T) {
		count, err := repo.CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})
}
