package thread

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osintsev/tweetgen/internal/apperrors"
	"github.com/osintsev/tweetgen/internal/logger"
	"github.com/osintsev/tweetgen/internal/models"
	"github.com/osintsev/tweetgen/internal/repository"
	"github.com/osintsev/tweetgen/internal/service/generator"
)

const (
	minTopicLen = 10

	minTweets        = 1
	maxTweets        = 20
	defaultMaxTweets = 5

	defaultTemperature = 0.7
)

type completionClient interface {
	Complete(ctx context.Context, system string, user string, temperature float64) (string, error)
}

type ThreadService struct {
	client  completionClient
	storage repository.Storage
	logger  logger.Logger
}

func NewService(client completionClient, storage repository.Storage, logger logger.Logger) *ThreadService {
	return &ThreadService{
		client:  client,
		storage: storage,
		logger:  logger,
	}
}

type GenerateOpts struct {
	Topic string

	// Tone of the thread, unknown ones fall back to the default
	Tone string

	// How many tweets to ask for, zero means the default
	MaxTweets int

	// Model temperature, nil means the default
	// Explicit zero is a valid deterministic setting and is kept as is
	Temperature *float64
}

// Generate asks the model for a thread on the topic, post-processes the
// result and stores both the thread and the generation log record.
// Failed calls are logged to the generation log as well.
func (s *ThreadService) Generate(ctx context.Context, user models.User, opts GenerateOpts) (models.Thread, error) {
	if len(strings.TrimSpace(opts.Topic)) < minTopicLen {
		return models.Thread{}, apperrors.ErrTopicTooShort
	}

	if opts.MaxTweets == 0 {
		opts.MaxTweets = defaultMaxTweets
	}
	if opts.MaxTweets < minTweets || opts.MaxTweets > maxTweets {
		return models.Thread{}, apperrors.ErrTweetCountInvalid
	}

	if opts.Temperature == nil {
		t := defaultTemperature
		opts.Temperature = &t
	}
	opts.Tone = generator.NormalizeTone(opts.Tone)

	started := time.Now()

	raw, err := s.client.Complete(
		ctx,
		generator.SystemPrompt(opts.Tone, opts.Topic, opts.MaxTweets),
		generator.UserPrompt(opts.Topic, opts.MaxTweets),
		*opts.Temperature,
	)
	if err != nil {
		s.saveFailed(ctx, user.ID, opts, err)
		return models.Thread{}, fmt.Errorf("generator call failed: %w", err)
	}

	tweets, err := generator.ParseFragments(raw)
	if err != nil {
		s.saveFailed(ctx, user.ID, opts, err)
		return models.Thread{}, err
	}

	for i, tweet := range tweets {
		tweets[i] = generator.TrimToLimit(tweet)
	}
	if len(tweets) > 1 {
		tweets = generator.NumberThread(tweets)
	}
	if len(tweets) > opts.MaxTweets {
		tweets = tweets[:opts.MaxTweets]
	}

	processingMS := time.Since(started).Milliseconds()

	// Thread and its log record land in one transaction
	var thread models.Thread
	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		var err error
		thread, err = st.Thread().CreateThread(ctx, user.ID, opts.Topic, tweets)
		if err != nil {
			return err
		}

		_, err = st.Generation().SaveGeneration(ctx, models.Generation{
			ThreadID: &thread.ID,
			UserID:   user.ID,
			Params: models.GenerationParams{
				Tone:        opts.Tone,
				MaxTweets:   opts.MaxTweets,
				Temperature: *opts.Temperature,
			},
			ProcessingMS: processingMS,
			Status:       models.GenerationSuccess,
		})
		return err
	})
	if err != nil {
		return models.Thread{}, fmt.Errorf("failed to save thread: %w", err)
	}

	return thread, nil
}

// saveFailed records the failed generator call. Errors are logged and
// swallowed: the caller already has a more useful error to return.
func (s *ThreadService) saveFailed(ctx context.Context, userID int64, opts GenerateOpts, genErr error) {
	_, err := s.storage.Generation().SaveGeneration(ctx, models.Generation{
		UserID: userID,
		Params: models.GenerationParams{
			Tone:        opts.Tone,
			MaxTweets:   opts.MaxTweets,
			Temperature: *opts.Temperature,
			Error:       genErr.Error(),
		},
		Status: models.GenerationFailed,
	})
	if err != nil {
		s.logger.Error("Failed to save failed generation record", "error", err)
	}
}

type HistoryOpts struct {
	Page     int
	PageSize int
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// History returns one page of user threads, newest first, and the total count
func (s *ThreadService) History(ctx context.Context, user models.User, opts HistoryOpts) ([]models.Thread, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = defaultPageSize
	}
	if opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}

	threads, err := s.storage.Thread().ListThreads(ctx, user.ID, repository.ListThreadsOpts{
		Limit:  opts.PageSize,
		Offset: (opts.Page - 1) * opts.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list threads: %w", err)
	}

	total, err := s.storage.Thread().CountThreads(ctx, user.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count threads: %w", err)
	}

	return threads, total, nil
}

// Get returns the thread if it exists and belongs to the user
func (s *ThreadService) Get(ctx context.Context, user models.User, threadID int64) (models.Thread, error) {
	thread, err := s.storage.Thread().GetThread(ctx, threadID)
	if err != nil {
		return models.Thread{}, err
	}

	if thread.UserID != user.ID {
		return models.Thread{}, apperrors.ErrThreadAccessDenied
	}

	return thread, nil
}

// Delete removes the thread if it exists and belongs to the user
func (s *ThreadService) Delete(ctx context.Context, user models.User, threadID int64) error {
	thread, err := s.storage.Thread().GetThread(ctx, threadID)
	if err != nil {
		return err
	}

	if thread.UserID != user.ID {
		return apperrors.ErrThreadAccessDenied
	}

	return s.storage.Thread().DeleteThread(ctx, thread.ID)
}

// Stats aggregates the user's generation activity
func (s *ThreadService) Stats(ctx context.Context, user models.User) (models.GenerationStats, error) {
	totals, err := s.storage.Generation().GetTotals(ctx, user.ID)
	if err != nil {
		return models.GenerationStats{}, fmt.Errorf("failed to get generation totals: %w", err)
	}

	stats := models.GenerationStats{
		TotalThreads:   totals.TotalThreads,
		TotalTweets:    totals.TotalTweets,
		TotalRuns:      totals.TotalRuns,
		SuccessfulRuns: totals.SuccessfulRuns,
		FailedRuns:     totals.FailedRuns,
	}

	if totals.TotalRuns > 0 {
		stats.SuccessRate = decimal.NewFromInt(totals.SuccessfulRuns).
			Div(decimal.NewFromInt(totals.TotalRuns)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	if totals.SuccessfulRuns > 0 {
		stats.AvgProcessingMS = decimal.NewFromInt(totals.SumProcessingMS).
			Div(decimal.NewFromInt(totals.SuccessfulRuns)).
			Round(2)
	}

	return stats, nil
}
