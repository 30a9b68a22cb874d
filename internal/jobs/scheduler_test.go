package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/internal/session"
	"github.com/stitts-dev/megasena-sim/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestScheduler_AddValidatesSchedule(t *testing.T) {
	s := NewScheduler(quietLogger())
	defer s.Stop()

	assert.Error(t, s.Add("bad", "Bad", "every tuesday", func(context.Context) error { return nil }))
	require.NoError(t, s.Add("ok", "OK", "0 6 * * 4", func(context.Context) error { return nil }))
	assert.Error(t, s.Add("ok", "Again", "@daily", func(context.Context) error { return nil }))

	jobs := s.Jobs()
	require.Contains(t, jobs, "ok")
	assert.Equal(t, StatusScheduled, jobs["ok"].Status)
}

func TestScheduler_TriggerRecordsOutcome(t *testing.T) {
	s := NewScheduler(quietLogger())
	defer s.Stop()

	fail := true
	require.NoError(t, s.Add("flaky", "Flaky", "@daily", func(context.Context) error {
		if fail {
			return errors.New("upstream down")
		}
		return nil
	}))

	assert.Error(t, s.Trigger("flaky"))
	info := s.Jobs()["flaky"]
	assert.Equal(t, StatusFailed, info.Status)
	assert.Equal(t, 1, info.ErrorCount)
	assert.Equal(t, "upstream down", info.LastError)

	fail = false
	require.NoError(t, s.Trigger("flaky"))
	info = s.Jobs()["flaky"]
	assert.Equal(t, StatusCompleted, info.Status)
	assert.Equal(t, 2, info.RunCount)
	assert.Empty(t, info.LastError)

	assert.Error(t, s.Trigger("missing"))
}

func TestScheduler_RecoversPanics(t *testing.T) {
	s := NewScheduler(quietLogger())
	defer s.Stop()

	require.NoError(t, s.Add("boom", "Boom", "@daily", func(context.Context) error { panic("kaboom") }))
	err := s.Trigger("boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, StatusFailed, s.Jobs()["boom"].Status)
}

func TestScheduler_RunsOnScheduleAndStopsCleanly(t *testing.T) {
	s := NewScheduler(quietLogger())

	var runs atomic.Int32
	require.NoError(t, s.Add("tick", "Tick", "@every 1s", func(context.Context) error {
		runs.Add(1)
		return nil
	}))

	s.Start()
	assert.True(t, s.IsRunning())
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
}

type fixedSource struct{ records []models.DrawRecord }

func (f fixedSource) Name() string { return "fixed" }

func (f fixedSource) Load(context.Context) ([]models.DrawRecord, *draws.ParseReport, error) {
	return f.records, &draws.ParseReport{Loaded: len(f.records)}, nil
}

func TestReloadDataset(t *testing.T) {
	rec, err := models.NewDrawRecord(1, time.Date(1996, 3, 11, 0, 0, 0, 0, time.UTC), []int{4, 5, 30, 33, 41, 52})
	require.NoError(t, err)

	store := draws.NewStore(quietLogger())
	s := NewScheduler(quietLogger())
	defer s.Stop()
	require.NoError(t, s.Add(ReloadJobID, "Reload", "@daily", ReloadDataset(store, fixedSource{records: []models.DrawRecord{rec}})))

	require.NoError(t, s.Trigger(ReloadJobID))
	require.NoError(t, s.Trigger(ReloadJobID))

	ds, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, int64(2), ds.Version)
}

func TestReloadDataset_LogsProvenance(t *testing.T) {
	rec, err := models.NewDrawRecord(1, time.Date(1996, 3, 11, 0, 0, 0, 0, time.UTC), []int{4, 5, 30, 33, 41, 52})
	require.NoError(t, err)

	var buf bytes.Buffer
	logger.InitLogger("debug", "json", false).SetOutput(&buf)
	t.Cleanup(func() { logger.Logger = nil })

	store := draws.NewStore(quietLogger())
	src := fixedSource{records: []models.DrawRecord{rec}}
	require.NoError(t, ReloadDataset(store, src)(context.Background()))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Scheduled reload finished", entry["msg"])
	assert.EqualValues(t, 1, entry["dataset_version"])
	assert.EqualValues(t, 1, entry["draws"])
	assert.Equal(t, src.Name(), entry["source"])
}

func TestSweepSessions(t *testing.T) {
	store := session.NewMemoryStore(time.Nanosecond)
	require.NoError(t, store.Save(context.Background(), session.NewState("gone")))
	time.Sleep(time.Millisecond)

	fn := SweepSessions(store, quietLogger())
	require.NoError(t, fn(context.Background()))
	assert.Equal(t, 0, store.Len())
}
