package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/siteboard/internal/domain"
	"github.com/MrSnakeDoc/siteboard/internal/kv"
)

// Repository stores Submission and Site entities, each under its own key.
// Every method is exactly one store call; nothing is batched, so two writes
// made by the same caller carry no ordering guarantee relative to readers.
type Repository struct {
	submissions kv.Store
	sites       kv.Store
}

// NewRepository creates a repository over the submissions and sites
// namespaces.
func NewRepository(submissions, sites kv.Store) *Repository {
	return &Repository{
		submissions: submissions,
		sites:       sites,
	}
}

// PutSubmission stores (or overwrites) a submission.
func (r *Repository) PutSubmission(ctx context.Context, s *domain.Submission) error {
	return putJSON(ctx, r.submissions, s.ID, s)
}

// GetSubmission loads a submission. Unknown ids yield domain.ErrNotFound.
func (r *Repository) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	return getJSON[domain.Submission](ctx, r.submissions, id)
}

// DeleteSubmission removes a submission entity.
func (r *Repository) DeleteSubmission(ctx context.Context, id string) error {
	if err := r.submissions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete submission %s: %w", id, err)
	}
	return nil
}

// PutSite stores (or overwrites) a site.
func (r *Repository) PutSite(ctx context.Context, s *domain.Site) error {
	return putJSON(ctx, r.sites, s.ID, s)
}

// GetSite loads a site. Unknown ids yield domain.ErrNotFound.
func (r *Repository) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	return getJSON[domain.Site](ctx, r.sites, id)
}

// DeleteSite removes a site entity.
func (r *Repository) DeleteSite(ctx context.Context, id string) error {
	if err := r.sites.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete site %s: %w", id, err)
	}
	return nil
}

func putJSON[T any](ctx context.Context, s kv.Store, id string, v *T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", id, err)
	}
	if err := s.Put(ctx, id, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", id, err)
	}
	return nil
}

func getJSON[T any](ctx context.Context, s kv.Store, id string) (*T, error) {
	data, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", id, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", id, err)
	}
	return &v, nil
}
