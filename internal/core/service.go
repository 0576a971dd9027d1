package core

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultMaxFileSize is the per-file upload limit used when Options leaves it unset.
const DefaultMaxFileSize int64 = 50 * humanize.MiByte

// DefaultImportTimeout bounds a single preview or commit call.
const DefaultImportTimeout = 5 * time.Minute

// Options configures a Service. Zero values select the defaults.
type Options struct {
	Limiter     *Limiter
	Metrics     *Metrics
	MaxFileSize int64
	Timeout     time.Duration

	// Now returns the current time. Tests override it for stable timestamps.
	Now func() time.Time
}

// Service runs the import pipeline: preview uploaded files, then commit the
// reviewed records to a Store.
type Service struct {
	store       Store
	limiter     *Limiter
	metrics     *Metrics
	maxFileSize int64
	timeout     time.Duration
	now         func() time.Time
}

// NewService creates a Service backed by store.
func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:       store,
		limiter:     opts.Limiter,
		metrics:     opts.Metrics,
		maxFileSize: opts.MaxFileSize,
		timeout:     opts.Timeout,
		now:         opts.Now,
	}
	if s.limiter == nil {
		s.limiter = NewLimiter(0, 0)
	}
	if s.maxFileSize <= 0 {
		s.maxFileSize = DefaultMaxFileSize
	}
	if s.timeout <= 0 {
		s.timeout = DefaultImportTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Limiter returns the limiter guarding import calls.
func (s *Service) Limiter() *Limiter {
	return s.limiter
}

// MaxFileSize returns the per-file size limit in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// begin takes a limiter slot and applies the call timeout. The returned
// function releases both.
func (s *Service) begin(ctx context.Context) (context.Context, func(), error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return ctx, func() {
		cancel()
		s.limiter.Release()
	}, nil
}
