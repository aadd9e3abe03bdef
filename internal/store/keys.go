package store

import "github.com/MrSnakeDoc/siteboard/internal/domain"

const (
	// NamespaceSubmissions holds submission entities and the status lists.
	NamespaceSubmissions = "submissions"
	// NamespaceSites holds site entities, sites_list and the category lists.
	NamespaceSites = "sites"
	// NamespaceAdmin holds the admin token record.
	NamespaceAdmin = "admin"
)

const (
	// KeyPendingSubmissions lists submission ids awaiting review.
	KeyPendingSubmissions = "pending_submissions"
	// KeyApprovedSubmissions lists approved submission ids.
	KeyApprovedSubmissions = "approved_submissions"
	// KeyRejectedSubmissions lists rejected submission ids.
	KeyRejectedSubmissions = "rejected_submissions"
	// KeySitesList lists every site id.
	KeySitesList = "sites_list"
	// KeyPrefixCategory prefixes the per-category site lists.
	KeyPrefixCategory = "category_"
)

// CategoryKey returns the list key holding the site ids of a category.
func CategoryKey(category string) string {
	return KeyPrefixCategory + category
}

// StatusKey returns the list key mirroring a submission status.
func StatusKey(status domain.SubmissionStatus) string {
	switch status {
	case domain.StatusApproved:
		return KeyApprovedSubmissions
	case domain.StatusRejected:
		return KeyRejectedSubmissions
	default:
		return KeyPendingSubmissions
	}
}

// StatusKeys returns the three status list keys in scan order.
func StatusKeys() []string {
	return []string{KeyPendingSubmissions, KeyApprovedSubmissions, KeyRejectedSubmissions}
}
