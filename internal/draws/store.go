package draws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

var (
	// ErrNoData means no dataset has been loaded yet.
	ErrNoData = errors.New("no draw data loaded")
	// ErrEmptyDataset means a load produced no valid draws. The previous
	// dataset, if any, stays in place.
	ErrEmptyDataset = errors.New("no valid draws")
)

// Dataset is an immutable snapshot of loaded draws. Draws are sorted by
// draw id and must not be modified.
type Dataset struct {
	Draws    []models.DrawRecord
	Source   string
	LoadedAt time.Time
	Version  int64
	Report   *ParseReport
}

// Bounds is the filter covering every draw in the set.
func (d *Dataset) Bounds() models.Filter {
	if len(d.Draws) == 0 {
		return models.Filter{}
	}
	b := models.Filter{
		MinDrawID: d.Draws[0].DrawID,
		MaxDrawID: d.Draws[len(d.Draws)-1].DrawID,
		StartDate: d.Draws[0].Date,
		EndDate:   d.Draws[0].Date,
	}
	for _, rec := range d.Draws[1:] {
		if rec.Date.Before(b.StartDate) {
			b.StartDate = rec.Date
		}
		if rec.Date.After(b.EndDate) {
			b.EndDate = rec.Date
		}
	}
	return b
}

// Status is the JSON view of a dataset.
type Status struct {
	Loaded   bool          `json:"loaded"`
	Source   string        `json:"source,omitempty"`
	LoadedAt *time.Time    `json:"loaded_at,omitempty"`
	Version  int64         `json:"version"`
	Count    int           `json:"count"`
	Bounds   models.Filter `json:"bounds"`
	Report   *ParseReport  `json:"report,omitempty"`
}

// Store holds the current dataset and swaps it atomically on reload.
type Store struct {
	current atomic.Pointer[Dataset]
	version atomic.Int64
	loadMu  sync.Mutex
	logger  *logrus.Logger
}

func NewStore(logger *logrus.Logger) *Store {
	return &Store{logger: logger}
}

// Current returns the loaded dataset or ErrNoData.
func (s *Store) Current() (*Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, ErrNoData
	}
	return ds, nil
}

func (s *Store) Status() Status {
	ds := s.current.Load()
	if ds == nil {
		return Status{}
	}
	loadedAt := ds.LoadedAt
	return Status{
		Loaded:   true,
		Source:   ds.Source,
		LoadedAt: &loadedAt,
		Version:  ds.Version,
		Count:    len(ds.Draws),
		Bounds:   ds.Bounds(),
		Report:   ds.Report,
	}
}

// Replace installs records as the new dataset. An empty set is refused and
// the previous dataset stays in place.
func (s *Store) Replace(records []models.DrawRecord, source string, report *ParseReport) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmptyDataset, source)
	}

	sorted := make([]models.DrawRecord, len(records))
	copy(sorted, records)
	SortByDrawID(sorted)

	ds := &Dataset{
		Draws:    sorted,
		Source:   source,
		LoadedAt: time.Now().UTC(),
		Version:  s.version.Add(1),
		Report:   report,
	}
	s.current.Store(ds)

	if s.logger != nil {
		fields := logrus.Fields{
			"source":          source,
			"dataset_version": ds.Version,
			"draws":           len(sorted),
		}
		if report != nil {
			fields["dropped"] = report.Dropped
		}
		s.logger.WithFields(fields).Info("Draw dataset loaded")
	}
	return ds, nil
}

// Reload loads from src and swaps the dataset in. On failure the previous
// dataset is kept. Concurrent reloads are serialised.
func (s *Store) Reload(ctx context.Context, src Source) (*Dataset, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	records, report, err := src.Load(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithField("source", src.Name()).Error("Failed to load draws")
		}
		return nil, fmt.Errorf("failed to load %s: %w", src.Name(), err)
	}
	return s.Replace(records, src.Name(), report)
}
