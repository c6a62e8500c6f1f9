package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"mediadeck/internal/session"
)

// recheckTimeout bounds each scheduled auth re-validation
const recheckTimeout = 1 * time.Minute

// Scheduler periodically re-validates the session token. For a
// long-running client this is the counterpart of re-checking auth on
// route entry: the token is confirmed against the server, and the
// session clears itself if the check fails.
type Scheduler struct {
	cron    *cron.Cron
	session *session.Store
	spec    string
	logger  *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(sess *session.Store, spec string, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		session: sess,
		spec:    spec,
		logger:  logger,
	}
}

// Start registers the re-validation job and starts the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.recheckAuth)
	if err != nil {
		return fmt.Errorf("failed to schedule auth re-check: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("spec", s.spec).Info("Scheduler started")
	return nil
}

// Stop stops the cron loop
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("Scheduler stopped")
}

// recheckAuth runs one session re-validation pass
func (s *Scheduler) recheckAuth() {
	if !s.session.IsAuthenticated() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recheckTimeout)
	defer cancel()

	if err := s.session.CheckAuth(ctx); err != nil {
		s.logger.WithError(err).Warn("Scheduled auth re-check failed, session cleared")
		return
	}

	s.logger.Debug("Scheduled auth re-check passed")
}
