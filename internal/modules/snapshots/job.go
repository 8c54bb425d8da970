package snapshots

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ColeJam13/InvestED/internal/modules/portfolio"
)

// PortfolioLister enumerates portfolios for the capture sweep
type PortfolioLister interface {
	GetAll() ([]portfolio.Portfolio, error)
}

// CaptureJob snapshots every portfolio on a cron schedule. One failing
// portfolio does not stop the sweep; the first error is reported after
// the remaining portfolios have been captured.
type CaptureJob struct {
	service    *Service
	portfolios PortfolioLister
	timeout    time.Duration
	log        zerolog.Logger
}

// NewCaptureJob creates the scheduled snapshot job
func NewCaptureJob(service *Service, portfolios PortfolioLister, timeout time.Duration, log zerolog.Logger) *CaptureJob {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &CaptureJob{
		service:    service,
		portfolios: portfolios,
		timeout:    timeout,
		log:        log.With().Str("job", "snapshot_capture").Logger(),
	}
}

// Name implements scheduler.Job
func (j *CaptureJob) Name() string {
	return "snapshot_capture"
}

// Run implements scheduler.Job
func (j *CaptureJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	all, err := j.portfolios.GetAll()
	if err != nil {
		return err
	}

	var firstErr error
	captured := 0
	for _, pf := range all {
		if _, err := j.service.Capture(ctx, pf.ID); err != nil {
			j.log.Error().Err(err).Int64("portfolio_id", pf.ID).Msg("Snapshot capture failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		captured++
	}

	j.log.Info().
		Int("captured", captured).
		Int("total", len(all)).
		Msg("Snapshot sweep finished")

	return firstErr
}
