package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/osintsev/tweetgen/internal/apperrors"
	"github.com/osintsev/tweetgen/internal/handlers/render"
	"github.com/osintsev/tweetgen/internal/handlers/userctx"
	"github.com/osintsev/tweetgen/internal/logger"
	"github.com/osintsev/tweetgen/internal/models"
	"github.com/osintsev/tweetgen/internal/service/thread"
)

type threadResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Topic      string    `json:"topic"`
	Tweets     []string  `json:"tweets"`
	TweetCount int       `json:"tweet_count"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

func newThreadResponse(t models.Thread) threadResponse {
	return threadResponse{
		ID:         t.ID,
		UserID:     t.UserID,
		Topic:      t.Topic,
		Tweets:     t.Tweets,
		TweetCount: t.TweetCount,
		CreatedAt:  t.CreatedAt,
		ModifiedAt: t.ModifiedAt,
	}
}

func handleGenerateThread(threadService threadService, l logger.Logger) http.Handler {
	type request struct {
		Topic     string `json:"topic" validate:"required,min=10,max=500"`
		Tone      string `json:"tone" validate:"omitempty,max=50"`
		MaxTweets int    `json:"max_tweets" validate:"omitempty,min=1,max=20"`

		// Pointer keeps the explicit zero apart from an omitted field
		Temperature *float64 `json:"temperature" validate:"omitempty,min=0,max=1"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		generated, err := threadService.Generate(r.Context(), user, thread.GenerateOpts{
			Topic:       data.Topic,
			Tone:        data.Tone,
			MaxTweets:   data.MaxTweets,
			Temperature: data.Temperature,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrTopicTooShort):
				render.ServiceError(w, "Topic must be at least 10 characters long", http.StatusBadRequest)
			case errors.Is(err, apperrors.ErrTweetCountInvalid):
				render.ServiceError(w, "max_tweets must be between 1 and 20", http.StatusBadRequest)
			default:
				l.Error("Failed to generate thread", "error", err, "user_id", user.ID)
				render.ServiceError(w, "Tweet generation failed", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, newThreadResponse(generated), http.StatusCreated)
	})
}

func handleThreadHistory(threadService threadService, l logger.Logger) http.Handler {
	type response struct {
		Threads    []threadResponse `json:"threads"`
		TotalCount int64            `json:"total_count"`
		Page       int              `json:"page"`
		PageSize   int              `json:"page_size"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		opts := thread.HistoryOpts{}
		if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
			opts.Page = page
		}
		if size, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
			opts.PageSize = size
		}

		threads, total, err := threadService.History(r.Context(), user, opts)
		if err != nil {
			l.Error("Failed to list threads", "error", err, "user_id", user.ID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := response{
			Threads:    make([]threadResponse, 0, len(threads)),
			TotalCount: total,
			Page:       max(opts.Page, 1),
			PageSize:   len(threads),
		}
		for _, t := range threads {
			res.Threads = append(res.Threads, newThreadResponse(t))
		}

		render.JSON(w, res)
	})
}

func handleGetThread(threadService threadService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		threadID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.ServiceError(w, "Invalid thread id", http.StatusBadRequest)
			return
		}

		got, err := threadService.Get(r.Context(), user, threadID)
		if err != nil {
			renderThreadError(w, l, err)
			return
		}

		render.JSON(w, newThreadResponse(got))
	})
}

func handleDeleteThread(threadService threadService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		threadID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.ServiceError(w, "Invalid thread id", http.StatusBadRequest)
			return
		}

		if err := threadService.Delete(r.Context(), user, threadID); err != nil {
			renderThreadError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func handleThreadStats(threadService threadService, l logger.Logger) http.Handler {
	type response struct {
		TotalThreads    int64   `json:"total_threads"`
		TotalTweets     int64   `json:"total_tweets"`
		TotalRuns       int64   `json:"total_generations"`
		SuccessfulRuns  int64   `json:"successful_generations"`
		FailedRuns      int64   `json:"failed_generations"`
		SuccessRate     float64 `json:"success_rate"`
		AvgProcessingMS float64 `json:"avg_processing_time_ms"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		stats, err := threadService.Stats(r.Context(), user)
		if err != nil {
			l.Error("Failed to get stats", "error", err, "user_id", user.ID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		successRate, _ := stats.SuccessRate.Float64()
		avgProcessing, _ := stats.AvgProcessingMS.Float64()
		render.JSON(w, response{
			TotalThreads:    stats.TotalThreads,
			TotalTweets:     stats.TotalTweets,
			TotalRuns:       stats.TotalRuns,
			SuccessfulRuns:  stats.SuccessfulRuns,
			FailedRuns:      stats.FailedRuns,
			SuccessRate:     successRate,
			AvgProcessingMS: avgProcessing,
		})
	})
}

func renderThreadError(w http.ResponseWriter, l logger.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrThreadNotFound):
		render.ServiceError(w, "Thread not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrThreadAccessDenied):
		render.ServiceError(w, "You don't have permission to access this thread", http.StatusForbidden)
	default:
		l.Error("Thread request failed", "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
