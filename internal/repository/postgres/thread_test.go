package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osintsev/tweetgen/internal/apperrors"
	"github.com/osintsev/tweetgen/internal/models"
	"github.com/osintsev/tweetgen/internal/repository"
	"github.com/osintsev/tweetgen/internal/testutil"
)

// Create user the threads belong to
func createThreadOwner(t *testing.T, tx pgx.Tx, username string) models.User {
	t.Helper()

	r := UserRepo{DB: tx}
	user, err := r.CreateUser(t.Context(), username, username+"@example.com", "hash")
	require.NoError(t, err, "user should be created to own threads")
	return user
}

func Test_ThreadRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	tweets := []string{"[1/2] go is boring", "[2/2] and that is the point"}

	t.Run("create thread ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ThreadRepo{DB: tx}
			owner := createThreadOwner(t, tx, "author")

			thread, err := repo.CreateThread(t.Context(), owner.ID, "why go", tweets)

			require.NoError(t, err)
			assert.Equal(t, owner.ID, thread.UserID)
			assert.Equal(t, "why go", thread.Topic)
			assert.Equal(t, tweets, thread.Tweets, "tweets should survive the jsonb round trip in order")
			assert.Equal(t, 2, thread.TweetCount)
			assert.WithinDuration(t, time.Now(), thread.CreatedAt, time.Second)
		})
	})

	t.Run("get thread ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ThreadRepo{DB: tx}
			owner := createThreadOwner(t, tx, "author")
			created, err := repo.CreateThread(t.Context(), owner.ID, "why go", tweets)
			require.NoError(t, err)

			got, err := repo.GetThread(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.Tweets, got.Tweets)
		})
	})

	t.Run("get thread not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ThreadRepo{DB: tx}

			_, err := repo.GetThread(t.Context(), 404404)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrThreadNotFound)
		})
	})

	t.Run("list threads newest first", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ThreadRepo{DB: tx}
			owner := createThreadOwner(t, tx, "author")
			other := createThreadOwner(t, tx, "other")

			for _, topic := range []string{"first", "second", "third"} {
				_, err := repo.CreateThread(t.Context(), owner.ID, topic, tweets)
				require.NoError(t, err)
			}
			_, err := repo.CreateThread(t.Context(), other.ID, "not mine", tweets)
			require.NoError(t, err)

			threads, err := repo.ListThreads(t.Context(), owner.ID, repository.ListThreadsOpts{})

			require.NoError(t, err)
			require.Len(t, threads, 3, "threads of other users should not leak into the list")
			assert.Equal(t, "third", threads[0].Topic)
			assert.Equal(t, "second", threads[1].Topic)
			assert.Equal(t, "first", threads[2].Topic)
		})
	})

	t.Run("list threads with pagination", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ThreadRepo{DB: tx}
			owner := createThreadOwner(t, tx, "author")

			for _, topic := range []string{"first", "second", "third"} {
				_, err := repo.CreateThread(t.Context(), owner.ID, topic, tweets)
				require.NoError(t, err)
			}

			threads, err := repo.ListThreads(t.Context(), owner.ID, repository.ListThreadsOpts{Limit: 1, Offset: 1})

			require.NoError(t, err)
			require.Len(t, threads, 1)
			assert.Equal(t, "second", threads[0].Topic)
		})
	})

	t.Run("count threads", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ThreadRepo{DB: tx}
			owner := createThreadOwner(t, tx, "author")

			count, err := repo.CountThreads(t.Context(), owner.ID)
			require.NoError(t, err)
			require.Zero(t, count)

			_, err = repo.CreateThread(t.Context(), owner.ID, "why go", tweets)
			require.NoError(t, err)

			count, err = repo.CountThreads(t.Context(), owner.ID)
			require.NoError(t, err)
			require.Equal(t, int64(1), count)
		})
	})

	t.Run("delete thread ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ThreadRepo{DB: tx}
			owner := createThreadOwner(t, tx, "author")
			created, err := repo.CreateThread(t.Context(), owner.ID, "why go", tweets)
			require.NoError(t, err)

			err = repo.DeleteThread(t.Context(), created.ID)
			require.NoError(t, err)

			_, err = repo.GetThread(t.Context(), created.ID)
			assert.ErrorIs(t, err, apperrors.ErrThreadNotFound)
		})
	})

	t.Run("delete thread not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := ThreadRepo{DB: tx}

			err := repo.DeleteThread(t.Context(), 404404)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrThreadNotFound)
		})
	})
}
