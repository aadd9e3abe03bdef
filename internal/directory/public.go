package directory

import (
	"context"

	"github.com/MrSnakeDoc/siteboard/internal/domain"
)

// PublicSites builds the anonymous reader view: active sites grouped by
// category, each group sorted by addedAt, newest first. Ties keep whatever
// order the sort leaves them in. Nothing is written.
func (s *Service) PublicSites(ctx context.Context) (map[string][]*domain.Site, error) {
	sites, err := s.listedSites(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]*domain.Site)
	for _, site := range sites {
		if !site.IsActive() {
			continue
		}
		byCategory[site.Category] = append(byCategory[site.Category], site)
	}
	for _, group := range byCategory {
		sortByAddedAtDesc(group)
	}
	return byCategory, nil
}
