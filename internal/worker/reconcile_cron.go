package worker

// reconcile_cron.go
// Periodically replays the order journal against the warehouse projection.

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReconcileFunc runs one reconciliation pass and returns the drifted row count.
type ReconcileFunc func(ctx context.Context) (int, error)

// RunReconcileCron schedules fn on spec and blocks until ctx is cancelled.
// An empty spec disables the job. Overlapping runs are skipped.
func RunReconcileCron(ctx context.Context, spec string, fn ReconcileFunc) error {
	if spec == "" {
		log.Info().Msg("reconcile_cron: disabled")
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(spec, func() {
		drift, err := fn(ctx)
		if err != nil {
			log.Error().Err(err).Msg("reconcile_cron: pass failed")
			return
		}
		if drift > 0 {
			log.Warn().Int("drift_rows", drift).Msg("reconcile_cron: warehouse drift detected")
			return
		}
		log.Debug().Msg("reconcile_cron: ledgers consistent")
	})
	if err != nil {
		return fmt.Errorf("reconcile_cron: bad schedule %q: %w", spec, err)
	}

	c.Start()
	log.Info().Str("schedule", spec).Msg("reconcile_cron: started")
	<-ctx.Done()
	<-c.Stop().Done()
	log.Info().Msg("reconcile_cron: shutting down")
	return nil
}
