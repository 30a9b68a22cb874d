package jobs

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/session"
	"github.com/stitts-dev/megasena-sim/pkg/logger"
)

const (
	ReloadJobID = "dataset_reload"
	SweepJobID  = "session_sweep"

	// SweepSchedule is how often expired in-memory sessions are dropped.
	SweepSchedule = "@every 10m"
)

// ReloadDataset refreshes the store from src. A failed reload keeps the
// previous dataset serving.
func ReloadDataset(store *draws.Store, src draws.Source) JobFunc {
	return func(ctx context.Context) error {
		ds, err := store.Reload(ctx, src)
		if err != nil {
			return err
		}
		logger.WithDataset(ds.Source, ds.Version).WithField("draws", len(ds.Draws)).Debug("Scheduled reload finished")
		return nil
	}
}

// SweepSessions drops expired sessions from an in-memory store.
func SweepSessions(store *session.MemoryStore, logger *logrus.Logger) JobFunc {
	return func(context.Context) error {
		if n := store.Sweep(); n > 0 {
			logger.WithField("removed", n).Debug("Expired sessions swept")
		}
		return nil
	}
}
