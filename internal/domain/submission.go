package domain

import "time"

// SubmissionStatus is the review state of a Submission.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// SubmissionStatuses lists every status in the order their index lists are
// scanned.
var SubmissionStatuses = []SubmissionStatus{StatusPending, StatusApproved, StatusRejected}

// Submission is a directory entry proposed by an outside submitter and
// waiting for (or past) an admin decision.
//
// The entity is authoritative; the status index lists only mirror Status.
type Submission struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID has the shape submission_<unix millis>_<uuid>.
	ID string `json:"id"`

	// ─────────────────────────────
	// Listing fields
	// ─────────────────────────────

	SiteName    string `json:"siteName"`
	SiteURL     string `json:"siteUrl"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	LogoPath    string `json:"logoPath"`

	// ─────────────────────────────
	// Submitter
	// ─────────────────────────────

	Email   string `json:"email"`
	Contact string `json:"contact"`

	// SubmitTime is caller supplied, or the creation time when absent.
	SubmitTime time.Time `json:"submitTime"`

	// ─────────────────────────────
	// Review
	// ─────────────────────────────

	// Status only ever moves pending -> approved or pending -> rejected.
	Status SubmissionStatus `json:"status"`

	// ReviewedAt and ReviewedBy are null until the submission leaves pending.
	ReviewedAt *time.Time `json:"reviewedAt"`
	ReviewedBy *string    `json:"reviewedBy"`
}

// IsPending reports whether the submission is still awaiting review.
func (s *Submission) IsPending() bool {
	return s.Status == StatusPending
}

// MarkReviewed moves the submission out of pending. It does not check the
// current status; callers guard with IsPending.
func (s *Submission) MarkReviewed(status SubmissionStatus, at time.Time, by string) {
	s.Status = status
	s.ReviewedAt = &at
	if by != "" {
		s.ReviewedBy = &by
	}
}
