// Package directory coordinates submissions, reviews and published sites.
//
// The key-value store only guarantees per-key atomicity, so every operation
// here is an ordered sequence of single-key writes: the entity first, then
// the index lists that mirror it. A failure part way through leaves stale
// lists behind. Nothing is rolled back and nothing is retried.
package directory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/siteboard/internal/logger"
	"github.com/MrSnakeDoc/siteboard/internal/metrics"
	"github.com/MrSnakeDoc/siteboard/internal/store"
)

const (
	idPrefixSubmission = "submission"
	idPrefixSite       = "site"
)

// Service is the lifecycle coordinator and the read-side view builder.
type Service struct {
	repo        *store.Repository
	submissions *store.Index // status lists
	sites       *store.Index // sites_list and category lists
	logger      logger.Logger
	reviewer    string
	now         func() time.Time
	newID       func(prefix string, now time.Time) string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the default <prefix>_<millis>_<uuid> generator.
func WithIDGenerator(gen func(prefix string, now time.Time) string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithReviewer sets the name recorded as reviewedBy on reviewed submissions.
func WithReviewer(name string) Option {
	return func(s *Service) { s.reviewer = name }
}

// New creates the coordinator.
func New(
	repo *store.Repository,
	submissionLists *store.Index,
	siteLists *store.Index,
	log logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		repo:        repo,
		submissions: submissionLists,
		sites:       siteLists,
		logger:      log,
		now:         time.Now,
		newID:       defaultID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), uuid.NewString())
}

// fail logs a failed step of a multi-key operation and wraps the error.
// Earlier steps of the same operation stay applied.
func (s *Service) fail(op, step, id string, err error) error {
	s.logger.Error("operation step failed",
		logger.String("operation", op),
		logger.String("step", step),
		logger.String("id", id),
		logger.Error(err))
	return fmt.Errorf("%s: %s: %w", op, step, err)
}

func observe(op string, err *error) {
	metrics.ObserveOperation(op, *err)
}
