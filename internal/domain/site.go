package domain

import "time"

// Provenance records how a Site came to exist.
type Provenance string

const (
	AddedByAdmin          Provenance = "admin"
	AddedByUserSubmission Provenance = "user_submission"
)

// SiteStatusActive is the only status a Site currently takes. Deletion is
// hard, so no inactive status is ever written.
const SiteStatusActive = "active"

// Site is a published directory entry.
type Site struct {
	// ID has the shape site_<unix millis>_<uuid>.
	ID string `json:"id"`

	SiteName    string `json:"siteName"`
	SiteURL     string `json:"siteUrl"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	LogoPath    string `json:"logoPath"`

	AddedBy Provenance `json:"addedBy"`
	AddedAt time.Time  `json:"addedAt"`
	Status  string     `json:"status"`
}

// IsActive reports whether the site may be shown to public readers.
func (s *Site) IsActive() bool {
	return s.Status == SiteStatusActive
}

// FromSubmission reports whether the site was created by approving a
// submission, which is what makes the delete cascade apply.
func (s *Site) FromSubmission() bool {
	return s.AddedBy == AddedByUserSubmission
}
