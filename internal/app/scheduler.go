package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic jobs: the portfolio metrics refresh and the
// expired-session sweep.
type Scheduler struct {
	app  *App
	cron *cron.Cron
}

func NewScheduler(a *App) *Scheduler {
	return &Scheduler{
		app:  a,
		cron: cron.New(),
	}
}

func (s *Scheduler) Start() error {
	schedule := s.app.Config.Metrics.RefreshSchedule
	if _, err := s.cron.AddFunc(schedule, s.refreshMetrics); err != nil {
		return fmt.Errorf("invalid metrics refresh schedule %q: %w", schedule, err)
	}

	sweep := fmt.Sprintf("@every %s", s.app.Config.Auth.GetSweepInterval())
	if _, err := s.cron.AddFunc(sweep, s.sweepSessions); err != nil {
		return fmt.Errorf("invalid session sweep interval: %w", err)
	}

	s.cron.Start()
	s.app.Logger.Info().
		Str("metrics_schedule", schedule).
		Str("session_sweep", sweep).
		Msg("Scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		s.app.Logger.Warn().Msg("Scheduler jobs still running at shutdown deadline")
	}
}

func (s *Scheduler) refreshMetrics() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := s.app.Metrics.RefreshAll(ctx); err != nil {
		s.app.Logger.Error().Err(err).Msg("Metrics refresh job failed")
	}
}

func (s *Scheduler) sweepSessions() {
	s.app.Sessions.Sweep()
}
