package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cardiag/workshop/internal/auth/metrics"
	"github.com/cardiag/workshop/internal/auth/store"
	"github.com/cardiag/workshop/pkg/sessiontoken"
)

// HousekeepingService periodically clears the current-session slot once
// its token has aged out, so a workstation left logged in does not keep
// a dead session row around until the next read.
type HousekeepingService struct {
	Store    store.Store
	Tokens   *sessiontoken.Codec
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// sweep interval. An interval of 0 or less defaults to 1 hour.
func NewHousekeepingService(st store.Store, tokens *sessiontoken.Codec, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Tokens:   tokens,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop. Non-blocking; call Stop to
// shut the worker down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the background worker, blocking until any in-progress
// sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep clears the stored session when its token no longer parses or
// has exceeded its lifetime. A healthy session is left alone.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	sess, err := s.Store.Sessions().Get(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.Logger.Error("failed to read stored session", "error", err)
		}
		return
	}

	subject, issuedAt, err := s.Tokens.Parse(sess.Token)
	if err == nil && subject == sess.SubjectID && !s.Tokens.Expired(issuedAt, time.Now()) {
		return
	}

	if err := s.Store.Sessions().Clear(ctx); err != nil {
		s.Logger.Error("failed to clear expired session", "error", err)
		return
	}
	metrics.SessionsDiscarded.WithLabelValues("expired").Inc()
	s.Logger.Info("cleared expired session", "subject_id", sess.SubjectID)
}
