package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/siteboard/internal/directory"
	"github.com/MrSnakeDoc/siteboard/internal/domain"
	"github.com/MrSnakeDoc/siteboard/internal/httpserver/deps"
)

type submitResponse struct {
	Envelope
	SubmissionID string `json:"submissionId"`
}

type publicSitesResponse struct {
	Envelope
	SitesByCategory map[string][]*domain.Site `json:"sitesByCategory"`
}

// Submit accepts a public site submission.
func Submit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in directory.SubmitInput
		if err := decode(w, r, &in); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		id, err := d.Directory.Submit(r.Context(), in)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		respond(w, r, submitResponse{
			Envelope:     ok("submission received, it will be reviewed shortly"),
			SubmissionID: id,
		})
	}
}

// PublicSites serves active sites grouped by category.
func PublicSites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := d.Directory.PublicSites(r.Context())
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		respond(w, r, publicSitesResponse{Envelope: ok("ok"), SitesByCategory: view})
	}
}

// Root answers GET / with a short plain-text banner. The directory front
// end is served separately.
func Root(d deps.Deps) http.HandlerFunc {
	banner := []byte("siteboard " + d.Version + ": API under /api/\n")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(banner)
	}
}

// NotFound answers unknown paths and methods with the failure envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	fail(w, r, http.StatusNotFound, "not found")
}
