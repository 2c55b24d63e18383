package handlers

import (
	"context"
	"net/http"

	"github.com/osintsev/tweetgen/internal/handlers/middleware"
	"github.com/osintsev/tweetgen/internal/logger"
	"github.com/osintsev/tweetgen/internal/models"
	"github.com/osintsev/tweetgen/internal/service/thread"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	threadService threadService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	apiuser := http.NewServeMux()

	apiuser.Handle("POST /login", handleLogin(authService, logger))
	apiuser.Handle("POST /register", handleRegister(authService, logger))
	apiuser.Handle("POST /refresh", handleTokenRefresh(authService, logger))
	apiuser.Handle("GET /me", withAuth(handleUserMe()))

	apithreads := http.NewServeMux()

	apithreads.Handle("POST /generate", withAuth(handleGenerateThread(threadService, logger)))
	apithreads.Handle("GET /history", withAuth(handleThreadHistory(threadService, logger)))
	apithreads.Handle("GET /analytics/stats", withAuth(handleThreadStats(threadService, logger)))
	apithreads.Handle("GET /{id}", withAuth(handleGetThread(threadService, logger)))
	apithreads.Handle("DELETE /{id}", withAuth(handleDeleteThread(threadService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/user/", http.StripPrefix("/api/user", apiuser))
	root.Handle("/api/threads/", http.StripPrefix("/api/threads", apithreads))
	root.Handle("GET /api/health", handleHealth())

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register user with username, email and password
	// Has to return apperrors.ErrUserAlreadyExists if user already exists
	Register(ctx context.Context, username string, email string, password string) (models.TokenPair, error)

	// Login user with username and password
	// Has to return apperrors.ErrUserNotFound if user not found or password is wrong
	Login(ctx context.Context, username string, password string) (models.TokenPair, error)

	// Refresh tokens using refresh token
	// If token expired: has to return apperrors.ErrRefreshTokenExpired
	// If token not found: has to return apperrors.ErrRefreshTokenNotFound
	RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error)

	// Set auth tokens (access, refresh) to response
	SetTokens(ctx context.Context, w http.ResponseWriter, pair models.TokenPair)

	// Get refresh token from request
	GetRefresh(r *http.Request) (string, error)

	// Get request and return user if it authenticated or error
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

type threadService interface {
	Generate(ctx context.Context, user models.User, opts thread.GenerateOpts) (models.Thread, error)
	History(ctx context.Context, user models.User, opts thread.HistoryOpts) ([]models.Thread, int64, error)
	Get(ctx context.Context, user models.User, threadID int64) (models.Thread, error)
	Delete(ctx context.Context, user models.User, threadID int64) error
	Stats(ctx context.Context, user models.User) (models.GenerationStats, error)
}
