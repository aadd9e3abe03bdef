package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/siteboard/internal/directory"
	"github.com/MrSnakeDoc/siteboard/internal/domain"
	"github.com/MrSnakeDoc/siteboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Envelope
	Token string `json:"token"`
}

type reviewRequest struct {
	SubmissionID string `json:"submissionId"`
	Action       string `json:"action"`
}

type deleteSiteRequest struct {
	SiteID string `json:"siteId"`
}

type siteIDResponse struct {
	Envelope
	SiteID string `json:"siteId,omitempty"`
}

type submissionsResponse struct {
	Envelope
	Submissions []*domain.Submission `json:"submissions"`
}

type sitesResponse struct {
	Envelope
	Sites []*domain.Site `json:"sites"`
}

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in loginRequest
		if err := decode(w, r, &in); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		token, err := d.Credentials.Login(r.Context(), in.Username, in.Password)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		d.Logger.Info("admin logged in", logger.String("username", in.Username))
		respond(w, r, loginResponse{Envelope: ok("login successful"), Token: token})
	}
}

// Submissions lists submissions; ?status=pending|approved|rejected|all.
func Submissions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("status")
		if filter == "" {
			filter = directory.StatusFilterAll
		}

		subs, err := d.Directory.Submissions(r.Context(), filter)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		respond(w, r, submissionsResponse{Envelope: ok("ok"), Submissions: subs})
	}
}

func AddSite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in directory.SiteInput
		if err := decode(w, r, &in); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		id, err := d.Directory.AddSite(r.Context(), in)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		respond(w, r, siteIDResponse{Envelope: ok("site added"), SiteID: id})
	}
}

func Review(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in reviewRequest
		if err := decode(w, r, &in); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		siteID, err := d.Directory.Review(r.Context(), in.SubmissionID, in.Action)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		msg := "submission rejected"
		if in.Action == directory.ActionApprove {
			msg = "submission approved and published"
		}
		respond(w, r, siteIDResponse{Envelope: ok(msg), SiteID: siteID})
	}
}

// Sites lists every site, newest first.
func Sites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sites, err := d.Directory.Sites(r.Context())
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		respond(w, r, sitesResponse{Envelope: ok("ok"), Sites: sites})
	}
}

func DeleteSite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in deleteSiteRequest
		if err := decode(w, r, &in); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		if err := d.Directory.DeleteSite(r.Context(), in.SiteID); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		respond(w, r, ok("site deleted"))
	}
}
