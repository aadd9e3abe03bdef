package directory

import (
	"context"

	"github.com/MrSnakeDoc/siteboard/internal/domain"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
)

// ImportSites adds admin sites whose URL is not already listed. Invalid
// entries are logged and skipped; a store failure stops the import.
func (s *Service) ImportSites(ctx context.Context, inputs []SiteInput) (added int, err error) {
	existing, err := s.listedSites(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(existing))
	for _, site := range existing {
		known[site.SiteURL] = true
	}

	for _, in := range inputs {
		in = trimSiteInput(in)
		if known[in.SiteURL] {
			s.logger.Debug("seed site already listed, skipping",
				logger.String("site_url", in.SiteURL))
			continue
		}

		if _, err := s.AddSite(ctx, in); err != nil {
			if domain.IsValidation(err) {
				s.logger.Warn("skipping invalid seed site",
					logger.String("site_name", in.SiteName),
					logger.String("site_url", in.SiteURL),
					logger.Error(err))
				continue
			}
			return added, err
		}
		known[in.SiteURL] = true
		added++
	}
	return added, nil
}
