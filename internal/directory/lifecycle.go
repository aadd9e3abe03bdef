package directory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/MrSnakeDoc/siteboard/internal/domain"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
	"github.com/MrSnakeDoc/siteboard/internal/store"
)

// Review actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// SubmitInput is the public submission form.
type SubmitInput struct {
	SiteName    string `json:"siteName"`
	SiteURL     string `json:"siteUrl"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	LogoPath    string `json:"logoPath"`
	Email       string `json:"email"`
	Contact     string `json:"contact"`
	SubmitTime  string `json:"submitTime"`
}

// SiteInput is the admin add-site form.
type SiteInput struct {
	SiteName    string `json:"siteName"`
	SiteURL     string `json:"siteUrl"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	LogoPath    string `json:"logoPath"`
}

// Submit validates a submission, stores it as pending and appends it to
// pending_submissions. Validation happens before any write.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (id string, err error) {
	const op = "submit"
	defer observe(op, &err)

	in = trimSubmitInput(in)
	if err := domain.RequireFields(
		domain.Field{Name: "siteName", Value: in.SiteName},
		domain.Field{Name: "siteUrl", Value: in.SiteURL},
		domain.Field{Name: "category", Value: in.Category},
		domain.Field{Name: "description", Value: in.Description},
		domain.Field{Name: "email", Value: in.Email},
	); err != nil {
		return "", err
	}
	if !domain.ValidURL(in.SiteURL) {
		return "", &domain.ValidationError{Field: "siteUrl", Reason: domain.ReasonBadURL}
	}
	if !domain.ValidEmail(in.Email) {
		return "", &domain.ValidationError{Field: "email", Reason: domain.ReasonBadEmail}
	}

	ctx = context.WithoutCancel(ctx)
	now := s.now()
	sub := &domain.Submission{
		ID:          s.newID(idPrefixSubmission, now),
		SiteName:    in.SiteName,
		SiteURL:     in.SiteURL,
		Category:    in.Category,
		Description: in.Description,
		Keywords:    in.Keywords,
		LogoPath:    in.LogoPath,
		Email:       in.Email,
		Contact:     in.Contact,
		SubmitTime:  parseSubmitTime(in.SubmitTime, now),
		Status:      domain.StatusPending,
	}

	if err := s.repo.PutSubmission(ctx, sub); err != nil {
		return "", s.fail(op, "put submission", sub.ID, err)
	}
	if err := s.submissions.Append(ctx, store.KeyPendingSubmissions, sub.ID); err != nil {
		return "", s.fail(op, "append pending list", sub.ID, err)
	}

	s.logger.Info("submission received",
		logger.String("submission_id", sub.ID),
		logger.String("site_url", sub.SiteURL),
		logger.String("category", sub.Category))
	return sub.ID, nil
}

// AddSite publishes a site directly, without a submission.
func (s *Service) AddSite(ctx context.Context, in SiteInput) (id string, err error) {
	const op = "add_site"
	defer observe(op, &err)

	in = trimSiteInput(in)
	if err := domain.RequireFields(
		domain.Field{Name: "siteName", Value: in.SiteName},
		domain.Field{Name: "siteUrl", Value: in.SiteURL},
		domain.Field{Name: "category", Value: in.Category},
		domain.Field{Name: "description", Value: in.Description},
	); err != nil {
		return "", err
	}
	if !domain.ValidURL(in.SiteURL) {
		return "", &domain.ValidationError{Field: "siteUrl", Reason: domain.ReasonBadURL}
	}

	ctx = context.WithoutCancel(ctx)
	now := s.now()
	site := &domain.Site{
		ID:          s.newID(idPrefixSite, now),
		SiteName:    in.SiteName,
		SiteURL:     in.SiteURL,
		Category:    in.Category,
		Description: in.Description,
		Keywords:    in.Keywords,
		LogoPath:    in.LogoPath,
		AddedBy:     domain.AddedByAdmin,
		AddedAt:     now,
		Status:      domain.SiteStatusActive,
	}
	if err := s.publish(ctx, op, site); err != nil {
		return "", err
	}

	s.logger.Info("site added",
		logger.String("site_id", site.ID),
		logger.String("site_url", site.SiteURL),
		logger.String("category", site.Category))
	return site.ID, nil
}

// publish writes a site entity, then appends it to sites_list and to its
// category list, in that order.
func (s *Service) publish(ctx context.Context, op string, site *domain.Site) error {
	if err := s.repo.PutSite(ctx, site); err != nil {
		return s.fail(op, "put site", site.ID, err)
	}
	if err := s.sites.Append(ctx, store.KeySitesList, site.ID); err != nil {
		return s.fail(op, "append sites list", site.ID, err)
	}
	if err := s.sites.Append(ctx, store.CategoryKey(site.Category), site.ID); err != nil {
		return s.fail(op, "append category list", site.ID, err)
	}
	return nil
}

// Review dispatches an approve or reject action. The returned site id is
// only set on approval.
func (s *Service) Review(ctx context.Context, submissionID, action string) (string, error) {
	if strings.TrimSpace(submissionID) == "" {
		return "", &domain.ValidationError{Field: "submissionId", Reason: domain.ReasonMissingField}
	}
	switch action {
	case ActionApprove:
		return s.Approve(ctx, submissionID)
	case ActionReject:
		return "", s.Reject(ctx, submissionID)
	case "":
		return "", &domain.ValidationError{Field: "action", Reason: domain.ReasonMissingField}
	default:
		return "", domain.ErrInvalidAction
	}
}

// Approve publishes a new site built from a pending submission, then marks
// the submission approved and moves its id from the pending list to the
// approved list.
//
// The site becomes visible before the submission leaves pending, so a
// failure in between leaves a published site next to a pending submission.
func (s *Service) Approve(ctx context.Context, submissionID string) (siteID string, err error) {
	const op = "approve"
	defer observe(op, &err)

	sub, err := s.loadPending(ctx, submissionID)
	if err != nil {
		return "", err
	}

	ctx = context.WithoutCancel(ctx)
	now := s.now()
	site := &domain.Site{
		ID:          s.newID(idPrefixSite, now),
		SiteName:    sub.SiteName,
		SiteURL:     sub.SiteURL,
		Category:    sub.Category,
		Description: sub.Description,
		Keywords:    sub.Keywords,
		LogoPath:    sub.LogoPath,
		AddedBy:     domain.AddedByUserSubmission,
		AddedAt:     now,
		Status:      domain.SiteStatusActive,
	}
	if err := s.publish(ctx, op, site); err != nil {
		return "", err
	}

	if err := s.settle(ctx, op, sub, domain.StatusApproved, now); err != nil {
		return "", err
	}

	s.logger.Info("submission approved",
		logger.String("submission_id", sub.ID),
		logger.String("site_id", site.ID),
		logger.String("category", site.Category))
	return site.ID, nil
}

// Reject marks a pending submission rejected and moves its id to the
// rejected list. No site is created.
func (s *Service) Reject(ctx context.Context, submissionID string) (err error) {
	const op = "reject"
	defer observe(op, &err)

	sub, err := s.loadPending(ctx, submissionID)
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.settle(ctx, op, sub, domain.StatusRejected, s.now()); err != nil {
		return err
	}

	s.logger.Info("submission rejected", logger.String("submission_id", sub.ID))
	return nil
}

func (s *Service) loadPending(ctx context.Context, id string) (*domain.Submission, error) {
	sub, err := s.repo.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.IsPending() {
		return nil, domain.ErrAlreadyReviewed
	}
	return sub, nil
}

// settle writes the reviewed submission, then removes it from the pending
// list and appends it to the list of its new status.
func (s *Service) settle(ctx context.Context, op string, sub *domain.Submission, status domain.SubmissionStatus, at time.Time) error {
	sub.MarkReviewed(status, at, s.reviewer)
	if err := s.repo.PutSubmission(ctx, sub); err != nil {
		return s.fail(op, "put submission", sub.ID, err)
	}
	if err := s.submissions.Remove(ctx, store.KeyPendingSubmissions, sub.ID); err != nil {
		return s.fail(op, "remove from pending list", sub.ID, err)
	}
	if err := s.submissions.Append(ctx, store.StatusKey(status), sub.ID); err != nil {
		return s.fail(op, "append to "+string(status)+" list", sub.ID, err)
	}
	return nil
}

// DeleteSite unlists and deletes a site. When the site came from a
// submission, the first submission (pending, then approved, then rejected
// list order) with the same site URL is deleted as well, and only that one.
func (s *Service) DeleteSite(ctx context.Context, siteID string) (err error) {
	const op = "delete_site"
	defer observe(op, &err)

	if strings.TrimSpace(siteID) == "" {
		return &domain.ValidationError{Field: "siteId", Reason: domain.ReasonMissingField}
	}
	site, err := s.repo.GetSite(ctx, siteID)
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.sites.Remove(ctx, store.KeySitesList, site.ID); err != nil {
		return s.fail(op, "remove from sites list", site.ID, err)
	}
	if err := s.sites.Remove(ctx, store.CategoryKey(site.Category), site.ID); err != nil {
		return s.fail(op, "remove from category list", site.ID, err)
	}
	if err := s.repo.DeleteSite(ctx, site.ID); err != nil {
		return s.fail(op, "delete site", site.ID, err)
	}

	cascaded := ""
	if site.FromSubmission() {
		cascaded, err = s.deleteFirstSubmissionFor(ctx, op, site.SiteURL)
		if err != nil {
			return err
		}
	}

	s.logger.Info("site deleted",
		logger.String("site_id", site.ID),
		logger.String("added_by", string(site.AddedBy)),
		logger.String("cascaded_submission_id", cascaded))
	return nil
}

// deleteFirstSubmissionFor removes the first submission whose site URL
// matches and stops there, even if later submissions share the URL.
func (s *Service) deleteFirstSubmissionFor(ctx context.Context, op, siteURL string) (string, error) {
	lists := make(map[string][]string, 3)
	var all []string
	for _, key := range store.StatusKeys() {
		ids, err := s.submissions.Read(ctx, key)
		if err != nil {
			return "", s.fail(op, "read "+key, siteURL, err)
		}
		lists[key] = ids
		all = append(all, ids...)
	}

	for _, id := range all {
		sub, err := s.repo.GetSubmission(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return "", s.fail(op, "load submission", id, err)
		}
		if sub.SiteURL != siteURL {
			continue
		}

		for _, key := range store.StatusKeys() {
			if !slices.Contains(lists[key], id) {
				continue
			}
			if err := s.submissions.Remove(ctx, key, id); err != nil {
				return "", s.fail(op, "remove from "+key, id, err)
			}
		}
		if err := s.repo.DeleteSubmission(ctx, id); err != nil {
			return "", s.fail(op, "delete submission", id, err)
		}
		return id, nil
	}
	return "", nil
}

func parseSubmitTime(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return fallback
	}
	return t
}

func trimSubmitInput(in SubmitInput) SubmitInput {
	in.SiteName = strings.TrimSpace(in.SiteName)
	in.SiteURL = strings.TrimSpace(in.SiteURL)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.Keywords = strings.TrimSpace(in.Keywords)
	in.LogoPath = strings.TrimSpace(in.LogoPath)
	in.Email = strings.TrimSpace(in.Email)
	in.Contact = strings.TrimSpace(in.Contact)
	in.SubmitTime = strings.TrimSpace(in.SubmitTime)
	return in
}

func trimSiteInput(in SiteInput) SiteInput {
	in.SiteName = strings.TrimSpace(in.SiteName)
	in.SiteURL = strings.TrimSpace(in.SiteURL)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.Keywords = strings.TrimSpace(in.Keywords)
	in.LogoPath = strings.TrimSpace(in.LogoPath)
	return in
}
