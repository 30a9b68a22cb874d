package draws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

// DatabaseSourceName selects the gorm archive as the draw source.
const DatabaseSourceName = "database"

// maxRemoteBytes caps a downloaded workbook.
const maxRemoteBytes = 64 << 20

// ErrSourceUnavailable wraps failures to fetch or open a draw source.
var ErrSourceUnavailable = errors.New("draw source unavailable")

// Source yields the full set of draws from one place.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]models.DrawRecord, *ParseReport, error)
}

// FileSource reads a workbook from local disk.
type FileSource struct {
	Path    string
	Options ParseOptions
}

func (s *FileSource) Name() string { return s.Path }

func (s *FileSource) Load(ctx context.Context) ([]models.DrawRecord, *ParseReport, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	return ParseWorkbook(f, s.Options)
}

// HTTPSource downloads a workbook. Calls go through a circuit breaker so a
// dead upstream is not hammered by scheduled reloads.
type HTTPSource struct {
	URL     string
	Options ParseOptions

	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

func NewHTTPSource(url string, opts ParseOptions, timeout time.Duration, threshold int, logger *logrus.Logger) *HTTPSource {
	if threshold < 1 {
		threshold = 1
	}
	settings := gobreaker.Settings{
		Name:        "draw-source",
		MaxRequests: uint32(threshold),
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &HTTPSource{
		URL:     url,
		Options: opts,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

func (s *HTTPSource) Name() string { return s.URL }

// State exposes the breaker state for readiness reporting.
func (s *HTTPSource) State() gobreaker.State { return s.breaker.State() }

func (s *HTTPSource) Load(ctx context.Context) ([]models.DrawRecord, *ParseReport, error) {
	body, err := s.breaker.Execute(func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return ParseWorkbook(bytes.NewReader(body.([]byte)), s.Options)
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return body, nil
}

// DatabaseSource serves the archive kept by Repository.
type DatabaseSource struct {
	Repo *Repository
}

func (s *DatabaseSource) Name() string { return DatabaseSourceName }

func (s *DatabaseSource) Load(ctx context.Context) ([]models.DrawRecord, *ParseReport, error) {
	records, err := s.Repo.All(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return records, &ParseReport{Sheet: DatabaseSourceName, Rows: len(records), Loaded: len(records)}, nil
}

// NewSource picks a Source for a configured location: an http(s) URL, the
// literal "database" (needs repo), or a file path.
func NewSource(location string, opts ParseOptions, repo *Repository, timeout time.Duration, threshold int, logger *logrus.Logger) (Source, error) {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, opts, timeout, threshold, logger), nil
	case location == DatabaseSourceName:
		if repo == nil {
			return nil, fmt.Errorf("draw source %q needs DATABASE_URL", DatabaseSourceName)
		}
		return &DatabaseSource{Repo: repo}, nil
	case location == "":
		return nil, fmt.Errorf("draw source is not configured")
	default:
		return &FileSource{Path: location, Options: opts}, nil
	}
}
