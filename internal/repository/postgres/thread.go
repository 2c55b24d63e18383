package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osintsev/tweetgen/internal/apperrors"
	"github.com/osintsev/tweetgen/internal/models"
	"github.com/osintsev/tweetgen/internal/repository"
)

type ThreadRepo struct {
	DB DBTX
}

const createThread = `-- name: CreateThread
INSERT INTO threads (user_id, topic, tweets, tweet_count)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, created_at, modified_at, topic, tweets, tweet_count
`

func (r *ThreadRepo) CreateThread(ctx context.Context, userID int64, topic string, tweets []string) (models.Thread, error) {
	rows, _ := r.DB.Query(ctx, createThread, userID, topic, tweets, len(tweets))
	thread, err := pgx.CollectOneRow(rows, rowToThread)
	if err != nil {
		return thread, fmt.Errorf("db error: %w", err)
	}

	return thread, nil
}

const getThread = `-- name: GetThread
SELECT id, user_id, created_at, modified_at, topic, tweets, tweet_count
FROM threads
WHERE id = $1
`

func (r *ThreadRepo) GetThread(ctx context.Context, threadID int64) (models.Thread, error) {
	rows, _ := r.DB.Query(ctx, getThread, threadID)
	thread, err := pgx.CollectOneRow(rows, rowToThread)

	switch {
	case err == nil:
		return thread, nil
	case errors.Is(err, pgx.ErrNoRows):
		return thread, apperrors.ErrThreadNotFound
	default:
		return thread, fmt.Errorf("db error: %w", err)
	}
}

const listThreads = `-- name: ListThreads newest first
SELECT id, user_id, created_at, modified_at, topic, tweets, tweet_count
FROM threads
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT NULLIF($2, 0) OFFSET $3
`

func (r *ThreadRepo) ListThreads(ctx context.Context, userID int64, opts repository.ListThreadsOpts) ([]models.Thread, error) {
	rows, _ := r.DB.Query(ctx, listThreads, userID, opts.Limit, opts.Offset)
	threads, err := pgx.CollectRows(rows, rowToThread)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return threads, nil
}

const countThreads = `-- name: CountThreads
SELECT count(*) FROM threads
WHERE user_id = $1
`

func (r *ThreadRepo) CountThreads(ctx context.Context, userID int64) (int64, error) {
	rows, _ := r.DB.Query(ctx, countThreads, userID)
	count, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

const deleteThread = `-- name: DeleteThread
DELETE FROM threads
WHERE id = $1
`

func (r *ThreadRepo) DeleteThread(ctx context.Context, threadID int64) error {
	tag, err := r.DB.Exec(ctx, deleteThread, threadID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrThreadNotFound
	}

	return nil
}

func rowToThread(row pgx.CollectableRow) (models.Thread, error) {
	var t models.Thread
	err := row.Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.ModifiedAt, &t.Topic, &t.Tweets, &t.TweetCount)
	return t, err
}
