package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/clipboardhq/clipboard/internal/store"
)

// HousekeepingService periodically deletes expired database records so
// sessions, refresh_tokens, and password_reset_tokens don't grow without
// bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. Zero or negative intervals default to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut it
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker and blocks until any in-progress cleanup
// finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup deletes expired rows. Each deletion is independent so a
// failure in one table won't stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	s.Logger.Debug("starting housekeeping cleanup")

	if err := s.Store.Sessions().DeleteExpiredSessions(ctx); err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
	}
	if err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx); err != nil {
		s.Logger.Error("failed to delete expired refresh tokens", "error", err)
	}
	if err := s.Store.ResetTokens().DeleteExpiredResetTokens(ctx); err != nil {
		s.Logger.Error("failed to delete expired reset tokens", "error", err)
	}

	s.Logger.Debug("housekeeping cleanup completed")
}
