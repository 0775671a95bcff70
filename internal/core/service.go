package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/StoreDirectory/internal/logging"
	"github.com/google/uuid"
)

// Fetcher retrieves the raw CSV text of the store directory.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
	String() string
}

// Service owns the loaded master dataset.
//
// Readers get the current dataset without locking; a successful Load
// replaces it in one atomic swap. Loads themselves are serialized.
type Service struct {
	schema  *Schema
	fetcher Fetcher

	loadMu  sync.Mutex
	current atomic.Pointer[Dataset]

	errMu   sync.RWMutex
	lastErr error
}

// NewService creates a Service. No data is fetched until Load is called.
func NewService(fetcher Fetcher, schema *Schema) (*Service, error) {
	if fetcher == nil {
		return nil, errors.New("core: nil fetcher")
	}
	if schema == nil {
		schema = &DefaultSchema
	}
	return &Service{
		schema:  schema,
		fetcher: fetcher,
	}, nil
}

// Schema returns the column binding used by the service.
func (s *Service) Schema() *Schema {
	return s.schema
}

// Source describes where the dataset is loaded from.
func (s *Service) Source() string {
	return s.fetcher.String()
}

// Load performs one load attempt: fetch, parse, publish.
//
// On failure no dataset is produced and the error is returned; a dataset
// from an earlier successful load stays current. Load never retries.
func (s *Service) Load(ctx context.Context) (*Dataset, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	logger := logging.WithFields(ctx, "source", s.fetcher.String())
	logger.Info("loading store data")

	text, err := s.fetcher.Fetch(ctx)
	if err != nil {
		err = fmt.Errorf("load store data: %w", err)
		s.setLastErr(err)
		logger.Error("load failed", "error", err)
		return nil, err
	}

	result := ParseReport(text)
	ds := &Dataset{
		ID:       uuid.New(),
		Source:   s.fetcher.String(),
		LoadedAt: time.Now(),
		Header:   result.Header,
		Records:  result.Records,
		Skipped:  result.Skipped,
	}

	for _, sk := range result.Skipped {
		logger.Warn("skipping row",
			"line", sk.Line,
			"expected_fields", sk.Expected,
			"got_fields", sk.Got,
		)
	}

	s.current.Store(ds)
	s.setLastErr(nil)

	logger.Info("store data loaded",
		"load_id", ds.ID.String(),
		"headers", len(ds.Header),
		"stores", len(ds.Records),
		"skipped", len(ds.Skipped),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds, nil
}

// Current returns the loaded dataset, or ErrNotLoaded.
func (s *Service) Current() (*Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		if err := s.LastError(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotLoaded, err)
		}
		return nil, ErrNotLoaded
	}
	return ds, nil
}

// View returns a fresh view over the current dataset.
func (s *Service) View() (View, error) {
	ds, err := s.Current()
	if err != nil {
		return View{}, err
	}
	return NewView(s.schema, ds), nil
}

// LastError returns the error of the most recent failed load, if the
// most recent load failed.
func (s *Service) LastError() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	return s.lastErr
}

func (s *Service) setLastErr(err error) {
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
}
