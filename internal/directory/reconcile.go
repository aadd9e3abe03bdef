package directory

import (
	"context"
	"errors"
	"slices"

	"github.com/MrSnakeDoc/siteboard/internal/domain"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
	"github.com/MrSnakeDoc/siteboard/internal/metrics"
	"github.com/MrSnakeDoc/siteboard/internal/store"
)

// Repair kinds reported by Reconcile.
const (
	RepairDanglingSubmission = "dangling_submission"
	RepairMisfiledSubmission = "misfiled_submission"
	RepairDuplicateEntry     = "duplicate_entry"
	RepairDanglingSite       = "dangling_site"
	RepairCategoryList       = "category_list"
)

// RepairReport counts what a Reconcile pass changed, by repair kind.
type RepairReport map[string]int

// Total returns the number of repairs across all kinds.
func (r RepairReport) Total() int {
	n := 0
	for _, v := range r {
		n += v
	}
	return n
}

func (r RepairReport) add(kind string, n int) {
	if n <= 0 {
		return
	}
	r[kind] += n
	metrics.ObserveRepairs(kind, n)
}

// Reconcile rebuilds the derived lists from the entities they point at:
// status lists are regrouped by each submission's stored status, ids whose
// entity is gone are dropped, duplicates are collapsed and the category list
// of every listed category is rewritten from sites_list.
//
// Entities that are not referenced by any list cannot be found, since the
// store has no key enumeration. Reconcile writes lists with the same
// read-modify-write as request handlers, so running it next to live traffic
// can drop a concurrent append.
func (s *Service) Reconcile(ctx context.Context) (RepairReport, error) {
	ctx = context.WithoutCancel(ctx)
	report := RepairReport{}

	if err := s.reconcileSubmissions(ctx, report); err != nil {
		return report, err
	}
	if err := s.reconcileSites(ctx, report); err != nil {
		return report, err
	}

	if report.Total() > 0 {
		fields := make([]logger.Field, 0, len(report))
		for kind, n := range report {
			fields = append(fields, logger.Int(kind, n))
		}
		s.logger.Info("index reconciliation repaired lists", fields...)
	} else {
		s.logger.Debug("index reconciliation found nothing to repair")
	}
	return report, nil
}

func (s *Service) reconcileSubmissions(ctx context.Context, report RepairReport) error {
	current := make(map[string][]string, 3)
	rebuilt := make(map[string][]string, 3)
	seen := make(map[string]bool)

	for _, key := range store.StatusKeys() {
		ids, err := s.submissions.Read(ctx, key)
		if err != nil {
			return err
		}
		current[key] = ids
		rebuilt[key] = []string{}
	}

	for _, key := range store.StatusKeys() {
		for _, id := range current[key] {
			if seen[id] {
				report.add(RepairDuplicateEntry, 1)
				continue
			}
			sub, err := s.repo.GetSubmission(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					report.add(RepairDanglingSubmission, 1)
					continue
				}
				return err
			}
			seen[id] = true

			want := store.StatusKey(sub.Status)
			if want != key {
				report.add(RepairMisfiledSubmission, 1)
			}
			rebuilt[want] = append(rebuilt[want], id)
		}
	}

	for _, key := range store.StatusKeys() {
		if slices.Equal(current[key], rebuilt[key]) {
			continue
		}
		if err := s.submissions.Write(ctx, key, rebuilt[key]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) reconcileSites(ctx context.Context, report RepairReport) error {
	listed, err := s.sites.Read(ctx, store.KeySitesList)
	if err != nil {
		return err
	}

	live := make([]string, 0, len(listed))
	byCategory := make(map[string][]string)
	seen := make(map[string]bool, len(listed))
	var categories []string

	for _, id := range listed {
		if seen[id] {
			report.add(RepairDuplicateEntry, 1)
			continue
		}
		site, err := s.repo.GetSite(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				report.add(RepairDanglingSite, 1)
				continue
			}
			return err
		}
		seen[id] = true
		live = append(live, id)
		if _, ok := byCategory[site.Category]; !ok {
			categories = append(categories, site.Category)
		}
		byCategory[site.Category] = append(byCategory[site.Category], id)
	}

	if !slices.Equal(listed, live) {
		if err := s.sites.Write(ctx, store.KeySitesList, live); err != nil {
			return err
		}
	}

	for _, category := range categories {
		key := store.CategoryKey(category)
		have, err := s.sites.Read(ctx, key)
		if err != nil {
			return err
		}
		if slices.Equal(have, byCategory[category]) {
			continue
		}
		if err := s.sites.Write(ctx, key, byCategory[category]); err != nil {
			return err
		}
		report.add(RepairCategoryList, 1)
	}
	return nil
}
