package repository

import (
	"context"
	"time"

	"github.com/osintsev/tweetgen/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username or email exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, email string, hashedPassword string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Save token in repository
	Save(ctx context.Context, token models.RefreshToken) error

	// Return the token if it exists in the database
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Return token and mark it used in one go
	// If the token is used already, must return error apperrors.ErrRefreshTokenIsUsed
	// and must not overwrite the existing 'usedAt'
	GetAndMarkUsed(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Delete tokens that expired before the given time
	// Returns the number of deleted tokens
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Options to list user threads, zero values mean no limit
type ListThreadsOpts struct {
	Limit  int
	Offset int
}

// Thread repository interface
type ThreadRepo interface {
	// Save generated thread
	CreateThread(ctx context.Context, userID int64, topic string, tweets []string) (models.Thread, error)

	// Get thread by id no matter who owns it
	// If thread not found must return apperrors.ErrThreadNotFound
	GetThread(ctx context.Context, threadID int64) (models.Thread, error)

	// List user threads newest first
	ListThreads(ctx context.Context, userID int64, opts ListThreadsOpts) ([]models.Thread, error)

	// Count all user threads
	CountThreads(ctx context.Context, userID int64) (int64, error)

	// Delete thread by id
	// If thread not found must return apperrors.ErrThreadNotFound
	DeleteThread(ctx context.Context, threadID int64) error
}

// Raw per-user totals over the generation log
// Rates and averages are derived in the service layer
type GenerationTotals struct {
	TotalThreads    int64
	TotalTweets     int64
	TotalRuns       int64
	SuccessfulRuns  int64
	FailedRuns      int64
	SumProcessingMS int64
}

// Generation log repository interface
type GenerationRepo interface {
	// Save one generator call record
	SaveGeneration(ctx context.Context, gen models.Generation) (models.Generation, error)

	// Aggregate the generation log and threads for the user
	GetTotals(ctx context.Context, userID int64) (GenerationTotals, error)
}

// Storage aggregates all repositories and allows to run them in one transaction
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Thread() ThreadRepo
	Generation() GenerationRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}
