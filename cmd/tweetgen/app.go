package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/osintsev/tweetgen/internal/db"
	"github.com/osintsev/tweetgen/internal/handlers"
	"github.com/osintsev/tweetgen/internal/logger"
	"github.com/osintsev/tweetgen/internal/repository/postgres"
	"github.com/osintsev/tweetgen/internal/service/auth"
	"github.com/osintsev/tweetgen/internal/service/auth/tokencleaner"
	"github.com/osintsev/tweetgen/internal/service/auth/tokenmanager"
	"github.com/osintsev/tweetgen/internal/service/generator"
	"github.com/osintsev/tweetgen/internal/service/thread"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	cleaner *tokencleaner.Cleaner
	logger  logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey}, storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager: %w", err)
	}
	authService, err := auth.NewService(auth.Config{}, tokenManager, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	generatorClient := generator.NewClient(generator.Config{
		Addr:   c.GeneratorAddr,
		APIKey: c.GeneratorAPIKey,
		Model:  c.GeneratorModel,
	}, logger)
	threadService := thread.NewService(generatorClient, storage, logger)

	mux := handlers.NewRouter(authService, threadService, logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		cleaner:    tokencleaner.New(storage.Refresh(), logger),
		logger:     logger,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	// Expired refresh tokens are swept while the server runs
	cleanerStopped := s.cleaner.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	<-cleanerStopped

	return err
}
