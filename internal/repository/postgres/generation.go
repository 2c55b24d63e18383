package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osintsev/tweetgen/internal/models"
	"github.com/osintsev/tweetgen/internal/repository"
)

type GenerationRepo struct {
	DB DBTX
}

const saveGeneration = `-- name: SaveGeneration
INSERT INTO generations (thread_id, user_id, params, processing_ms, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, thread_id, user_id, created_at, params, processing_ms, status
`

func (r *GenerationRepo) SaveGeneration(ctx context.Context, gen models.Generation) (models.Generation, error) {
	rows, _ := r.DB.Query(ctx, saveGeneration, gen.ThreadID, gen.UserID, gen.Params, gen.ProcessingMS, gen.Status)
	saved, err := pgx.CollectOneRow(rows, rowToGeneration)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

// Aggregate threads and the generation log in one round trip
const getTotals = `-- name: GetTotals
SELECT
	(SELECT count(*) FROM threads WHERE user_id = $1),
	(SELECT COALESCE(sum(tweet_count), 0) FROM threads WHERE user_id = $1),
	count(*),
	count(*) FILTER (WHERE status = 'success'),
	count(*) FILTER (WHERE status = 'failed'),
	COALESCE(sum(processing_ms) FILTER (WHERE status = 'success'), 0)
FROM generations
WHERE user_id = $1
`

func (r *GenerationRepo) GetTotals(ctx context.Context, userID int64) (repository.GenerationTotals, error) {
	var t repository.GenerationTotals

	err := r.DB.QueryRow(ctx, getTotals, userID).Scan(
		&t.TotalThreads,
		&t.TotalTweets,
		&t.TotalRuns,
		&t.SuccessfulRuns,
		&t.FailedRuns,
		&t.SumProcessingMS,
	)
	if err != nil {
		return t, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func rowToGeneration(row pgx.CollectableRow) (models.Generation, error) {
	var g models.Generation
	err := row.Scan(&g.ID, &g.ThreadID, &g.UserID, &g.CreatedAt, &g.Params, &g.ProcessingMS, &g.Status)
	return g, err
}
