package directory

import (
	"context"
	"errors"
	"slices"

	"github.com/MrSnakeDoc/siteboard/internal/domain"
	"github.com/MrSnakeDoc/siteboard/internal/store"
)

// StatusFilterAll selects the union of the three status lists. Any value
// other than pending, approved or rejected behaves the same way.
const StatusFilterAll = "all"

// Submissions returns the submissions listed under the given status filter,
// newest submitTime first. Ids whose entity is gone are skipped.
func (s *Service) Submissions(ctx context.Context, statusFilter string) ([]*domain.Submission, error) {
	var keys []string
	switch domain.SubmissionStatus(statusFilter) {
	case domain.StatusPending, domain.StatusApproved, domain.StatusRejected:
		keys = []string{store.StatusKey(domain.SubmissionStatus(statusFilter))}
	default:
		keys = store.StatusKeys()
	}

	var ids []string
	for _, key := range keys {
		listed, err := s.submissions.Read(ctx, key)
		if err != nil {
			return nil, err
		}
		ids = append(ids, listed...)
	}

	out := make([]*domain.Submission, 0, len(ids))
	for _, id := range ids {
		sub, err := s.repo.GetSubmission(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, sub)
	}

	slices.SortFunc(out, func(a, b *domain.Submission) int {
		return b.SubmitTime.Compare(a.SubmitTime)
	})
	return out, nil
}

// Sites returns every listed site, newest addedAt first.
func (s *Service) Sites(ctx context.Context) ([]*domain.Site, error) {
	sites, err := s.listedSites(ctx)
	if err != nil {
		return nil, err
	}
	sortByAddedAtDesc(sites)
	return sites, nil
}

// listedSites loads every site id in sites_list, skipping ids whose entity
// no longer exists.
func (s *Service) listedSites(ctx context.Context) ([]*domain.Site, error) {
	ids, err := s.sites.Read(ctx, store.KeySitesList)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Site, 0, len(ids))
	for _, id := range ids {
		site, err := s.repo.GetSite(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, site)
	}
	return out, nil
}

func sortByAddedAtDesc(sites []*domain.Site) {
	slices.SortFunc(sites, func(a, b *domain.Site) int {
		return b.AddedAt.Compare(a.AddedAt)
	})
}
