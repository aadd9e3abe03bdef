package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/siteboard/internal/domain"
	"github.com/MrSnakeDoc/siteboard/internal/kv"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
	"github.com/MrSnakeDoc/siteboard/internal/store"
)

type fixture struct {
	svc   *Service
	mem   *kv.Memory
	repo  *store.Repository
	subs  *store.Index
	sites *store.Index
}

// newFixture wires a Service over an in-memory store with a clock that
// advances one second per call and sequential ids.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := kv.NewMemory()
	subNS := kv.Namespace(mem, store.NamespaceSubmissions)
	siteNS := kv.Namespace(mem, store.NamespaceSites)
	repo := store.NewRepository(subNS, siteNS)
	subs := store.NewIndex(subNS)
	sites := store.NewIndex(siteNS)

	var mu sync.Mutex
	tick := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	seq := 0
	svc := New(repo, subs, sites, logger.Nop(),
		WithReviewer("admin"),
		WithClock(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			tick = tick.Add(time.Second)
			return tick
		}),
		WithIDGenerator(func(prefix string, _ time.Time) string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("%s_%d", prefix, seq)
		}),
	)
	return &fixture{svc: svc, mem: mem, repo: repo, subs: subs, sites: sites}
}

func (f *fixture) list(t *testing.T, idx *store.Index, key string) []string {
	t.Helper()
	ids, err := idx.Read(context.Background(), key)
	require.NoError(t, err)
	return ids
}

func validSubmission(url string) SubmitInput {
	return SubmitInput{
		SiteName:    "Foo",
		SiteURL:     url,
		Category:    "dev",
		Description: "x",
		Email:       "a@b.com",
	}
}

func countIn(ids []string, id string) int {
	n := 0
	for _, v := range ids {
		if v == id {
			n++
		}
	}
	return n
}

func TestSubmitStoresPendingSubmission(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.svc.Submit(ctx, SubmitInput{
		SiteName:    "  Foo  ",
		SiteURL:     " https://foo.dev ",
		Category:    "dev",
		Description: "x",
		Keywords:    " go, tools ",
		Email:       "a@b.com",
		Contact:     "@foo",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "submission_"))

	sub, err := f.repo.GetSubmission(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, sub.Status)
	assert.Equal(t, "Foo", sub.SiteName)
	assert.Equal(t, "https://foo.dev", sub.SiteURL)
	assert.Equal(t, "go, tools", sub.Keywords)
	assert.Nil(t, sub.ReviewedAt)
	assert.Nil(t, sub.ReviewedBy)
	assert.False(t, sub.SubmitTime.IsZero())

	assert.Equal(t, 1, countIn(f.list(t, f.subs, store.KeyPendingSubmissions), id))
	assert.Zero(t, countIn(f.list(t, f.subs, store.KeyApprovedSubmissions), id))
	assert.Zero(t, countIn(f.list(t, f.subs, store.KeyRejectedSubmissions), id))
}

func TestSubmitKeepsCallerSubmitTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := validSubmission("https://foo.dev")
	in.SubmitTime = "2024-02-03T04:05:06.789Z"
	id, err := f.svc.Submit(ctx, in)
	require.NoError(t, err)

	sub, err := f.repo.GetSubmission(ctx, id)
	require.NoError(t, err)
	assert.True(t, sub.SubmitTime.Equal(time.Date(2024, 2, 3, 4, 5, 6, 789_000_000, time.UTC)))
}

func TestSubmitValidationWritesNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmitInput)
		field  string
		reason string
	}{
		{"blank site name", func(in *SubmitInput) { in.SiteName = "   " }, "siteName", domain.ReasonMissingField},
		{"missing category", func(in *SubmitInput) { in.Category = "" }, "category", domain.ReasonMissingField},
		{"missing email", func(in *SubmitInput) { in.Email = "" }, "email", domain.ReasonMissingField},
		{"malformed url", func(in *SubmitInput) { in.SiteURL = "not-a-url" }, "siteUrl", domain.ReasonBadURL},
		{"malformed email", func(in *SubmitInput) { in.Email = "nobody" }, "email", domain.ReasonBadEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := validSubmission("https://foo.dev")
			tt.mutate(&in)

			_, err := f.svc.Submit(context.Background(), in)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.reason, ve.Reason)
			assert.Empty(t, f.mem.Keys())
		})
	}
}

func TestApprovePublishesSiteAndMovesSubmission(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := validSubmission("https://foo.dev")
	in.Keywords = "go"
	in.LogoPath = "/logos/foo.png"
	subID, err := f.svc.Submit(ctx, in)
	require.NoError(t, err)

	siteID, err := f.svc.Review(ctx, subID, ActionApprove)
	require.NoError(t, err)
	require.NotEmpty(t, siteID)

	sub, err := f.repo.GetSubmission(ctx, subID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, sub.Status)
	require.NotNil(t, sub.ReviewedAt)
	require.NotNil(t, sub.ReviewedBy)
	assert.Equal(t, "admin", *sub.ReviewedBy)

	assert.NotContains(t, f.list(t, f.subs, store.KeyPendingSubmissions), subID)
	assert.Equal(t, []string{subID}, f.list(t, f.subs, store.KeyApprovedSubmissions))

	site, err := f.repo.GetSite(ctx, siteID)
	require.NoError(t, err)
	assert.Equal(t, domain.AddedByUserSubmission, site.AddedBy)
	assert.Equal(t, domain.SiteStatusActive, site.Status)
	assert.Equal(t, sub.SiteName, site.SiteName)
	assert.Equal(t, sub.SiteURL, site.SiteURL)
	assert.Equal(t, sub.Category, site.Category)
	assert.Equal(t, sub.Description, site.Description)
	assert.Equal(t, sub.Keywords, site.Keywords)
	assert.Equal(t, sub.LogoPath, site.LogoPath)

	assert.Equal(t, []string{siteID}, f.list(t, f.sites, store.KeySitesList))
	assert.Equal(t, []string{siteID}, f.list(t, f.sites, store.CategoryKey("dev")))
}

func TestRejectMovesSubmissionWithoutSite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	subID, err := f.svc.Submit(ctx, validSubmission("https://foo.dev"))
	require.NoError(t, err)

	siteID, err := f.svc.Review(ctx, subID, ActionReject)
	require.NoError(t, err)
	assert.Empty(t, siteID)

	sub, err := f.repo.GetSubmission(ctx, subID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, sub.Status)
	assert.NotNil(t, sub.ReviewedAt)

	assert.Empty(t, f.list(t, f.subs, store.KeyPendingSubmissions))
	assert.Equal(t, []string{subID}, f.list(t, f.subs, store.KeyRejectedSubmissions))
	assert.Empty(t, f.list(t, f.sites, store.KeySitesList))
}

func TestReviewErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Review(ctx, "submission_404", ActionApprove)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Review(ctx, "", ActionApprove)
	assert.True(t, domain.IsValidation(err))

	subID, err := f.svc.Submit(ctx, validSubmission("https://foo.dev"))
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, subID, "")
	assert.True(t, domain.IsValidation(err))

	_, err = f.svc.Review(ctx, subID, "archive")
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
}

func TestReviewIsOneWay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	subID, err := f.svc.Submit(ctx, validSubmission("https://foo.dev"))
	require.NoError(t, err)
	_, err = f.svc.Review(ctx, subID, ActionReject)
	require.NoError(t, err)
	before := f.mem.Keys()

	_, err = f.svc.Review(ctx, subID, ActionApprove)
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
	err = f.svc.Reject(ctx, subID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)

	assert.Equal(t, before, f.mem.Keys())
	assert.Empty(t, f.list(t, f.sites, store.KeySitesList))
}

func TestStatusListsPartitionSubmissions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var ids []string
	for i := 0; i < 9; i++ {
		id, err := f.svc.Submit(ctx, validSubmission(fmt.Sprintf("https://site%d.dev", i)))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	for i, id := range ids {
		switch i % 3 {
		case 0:
			_, err := f.svc.Approve(ctx, id)
			require.NoError(t, err)
		case 1:
			require.NoError(t, f.svc.Reject(ctx, id))
		}
	}

	seen := map[string]int{}
	for _, key := range store.StatusKeys() {
		for _, id := range f.list(t, f.subs, key) {
			seen[id]++
			sub, err := f.repo.GetSubmission(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, key, store.StatusKey(sub.Status), "id %s listed under wrong status", id)
		}
	}
	require.Len(t, seen, len(ids))
	for _, id := range ids {
		assert.Equal(t, 1, seen[id], "id %s", id)
	}
}

func TestApproveFailureAfterPublishLeavesSubmissionPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	subID, err := f.svc.Submit(ctx, validSubmission("https://foo.dev"))
	require.NoError(t, err)

	down := errors.New("store unavailable")
	f.mem.SetHook(func(op kv.Op, key string) error {
		if op == kv.OpPut && key == "submissions:"+subID {
			return down
		}
		return nil
	})

	_, err = f.svc.Approve(ctx, subID)
	require.ErrorIs(t, err, down)
	f.mem.SetHook(nil)

	// the site is already public while the submission still reads pending
	sites := f.list(t, f.sites, store.KeySitesList)
	require.Len(t, sites, 1)
	public, err := f.svc.PublicSites(ctx)
	require.NoError(t, err)
	assert.Len(t, public["dev"], 1)

	sub, err := f.repo.GetSubmission(ctx, subID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, sub.Status)
	assert.Equal(t, []string{subID}, f.list(t, f.subs, store.KeyPendingSubmissions))
}

func TestSubmitFailureOnIndexKeepsEntity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	down := errors.New("store unavailable")
	f.mem.SetHook(func(op kv.Op, key string) error {
		if op == kv.OpPut && key == "submissions:"+store.KeyPendingSubmissions {
			return down
		}
		return nil
	})

	_, err := f.svc.Submit(ctx, validSubmission("https://foo.dev"))
	require.ErrorIs(t, err, down)

	// entity written, index stale
	assert.Equal(t, []string{"submissions:submission_1"}, f.mem.Keys())
}

func TestDeleteAdminSiteLeavesSubmissionsAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	subID, err := f.svc.Submit(ctx, validSubmission("https://foo.dev"))
	require.NoError(t, err)
	siteID, err := f.svc.AddSite(ctx, SiteInput{
		SiteName: "Foo", SiteURL: "https://foo.dev", Category: "dev", Description: "x",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSite(ctx, siteID))

	assert.Empty(t, f.list(t, f.sites, store.KeySitesList))
	assert.Empty(t, f.list(t, f.sites, store.CategoryKey("dev")))
	_, err = f.repo.GetSite(ctx, siteID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.repo.GetSubmission(ctx, subID)
	assert.NoError(t, err)
	assert.Equal(t, []string{subID}, f.list(t, f.subs, store.KeyPendingSubmissions))
}

func TestDeleteSubmittedSiteCascadesToFirstMatchOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	approved, err := f.svc.Submit(ctx, validSubmission("https://foo.dev"))
	require.NoError(t, err)
	other, err := f.svc.Submit(ctx, validSubmission("https://bar.dev"))
	require.NoError(t, err)
	duplicate, err := f.svc.Submit(ctx, validSubmission("https://foo.dev"))
	require.NoError(t, err)

	siteID, err := f.svc.Approve(ctx, approved)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSite(ctx, siteID))

	// pending list is scanned before approved, so the still-pending
	// duplicate is the first match and the approved one survives
	_, err = f.repo.GetSubmission(ctx, duplicate)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{other}, f.list(t, f.subs, store.KeyPendingSubmissions))

	_, err = f.repo.GetSubmission(ctx, approved)
	assert.NoError(t, err)
	assert.Equal(t, []string{approved}, f.list(t, f.subs, store.KeyApprovedSubmissions))

	assert.Empty(t, f.list(t, f.sites, store.KeySitesList))
	assert.Empty(t, f.list(t, f.sites, store.CategoryKey("dev")))
}

func TestDeleteSubmittedSiteRemovesApprovedSubmission(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	subID, err := f.svc.Submit(ctx, validSubmission("https://foo.dev"))
	require.NoError(t, err)
	siteID, err := f.svc.Approve(ctx, subID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSite(ctx, siteID))

	_, err = f.repo.GetSubmission(ctx, subID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, key := range store.StatusKeys() {
		assert.Empty(t, f.list(t, f.subs, key), key)
	}
}

func TestDeleteSiteErrors(t *testing.T) {
	f := newFixture(t)

	err := f.svc.DeleteSite(context.Background(), "site_404")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.svc.DeleteSite(context.Background(), " ")
	assert.True(t, domain.IsValidation(err))
}

func TestAddSiteValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddSite(context.Background(), SiteInput{SiteName: "Foo", SiteURL: "https://foo.dev", Category: "dev"})
	assert.True(t, domain.IsValidation(err))

	_, err = f.svc.AddSite(context.Background(), SiteInput{
		SiteName: "Foo", SiteURL: "foo.dev", Category: "dev", Description: "x",
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, domain.ReasonBadURL, ve.Reason)

	assert.Empty(t, f.mem.Keys())
}

func TestPublicSitesGroupsActiveSitesNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	add := func(name, category string) string {
		id, err := f.svc.AddSite(ctx, SiteInput{
			SiteName: name, SiteURL: "https://" + name + ".dev", Category: category, Description: "x",
		})
		require.NoError(t, err)
		return id
	}
	a := add("a", "tools")
	b := add("b", "tools")
	c := add("c", "news")

	// a listed site that is not active must not be shown
	hidden := &domain.Site{ID: "site_hidden", SiteName: "h", Category: "tools", Status: "inactive", AddedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, f.repo.PutSite(ctx, hidden))
	require.NoError(t, f.sites.Append(ctx, store.KeySitesList, hidden.ID))

	// a dangling id is skipped
	require.NoError(t, f.sites.Append(ctx, store.KeySitesList, "site_gone"))

	view, err := f.svc.PublicSites(ctx)
	require.NoError(t, err)
	require.Len(t, view, 2)

	ids := func(sites []*domain.Site) []string {
		out := make([]string, 0, len(sites))
		for _, s := range sites {
			out = append(out, s.ID)
		}
		return out
	}
	assert.Equal(t, []string{b, a}, ids(view["tools"]))
	assert.Equal(t, []string{c}, ids(view["news"]))

	all, err := f.svc.Sites(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, []string{c, b, a, hidden.ID}, ids(all))
}

func TestSubmissionsFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	submit := func(url, at string) string {
		in := validSubmission(url)
		in.SubmitTime = at
		id, err := f.svc.Submit(ctx, in)
		require.NoError(t, err)
		return id
	}
	oldest := submit("https://a.dev", "2024-01-01T00:00:00Z")
	newest := submit("https://b.dev", "2024-03-01T00:00:00Z")
	middle := submit("https://c.dev", "2024-02-01T00:00:00Z")
	require.NoError(t, f.svc.Reject(ctx, middle))

	ids := func(subs []*domain.Submission) []string {
		out := make([]string, 0, len(subs))
		for _, s := range subs {
			out = append(out, s.ID)
		}
		return out
	}

	pending, err := f.svc.Submissions(ctx, "pending")
	require.NoError(t, err)
	assert.Equal(t, []string{newest, oldest}, ids(pending))

	rejected, err := f.svc.Submissions(ctx, "rejected")
	require.NoError(t, err)
	assert.Equal(t, []string{middle}, ids(rejected))

	approved, err := f.svc.Submissions(ctx, "approved")
	require.NoError(t, err)
	assert.Empty(t, approved)

	for _, filter := range []string{StatusFilterAll, "", "bogus"} {
		all, err := f.svc.Submissions(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, []string{newest, middle, oldest}, ids(all), "filter %q", filter)
	}
}

func TestImportSitesSkipsKnownAndInvalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.AddSite(ctx, SiteInput{SiteName: "Foo", SiteURL: "https://foo.dev", Category: "dev", Description: "x"})
	require.NoError(t, err)

	added, err := f.svc.ImportSites(ctx, []SiteInput{
		{SiteName: "Foo again", SiteURL: "https://foo.dev", Category: "dev", Description: "x"},
		{SiteName: "Bar", SiteURL: "https://bar.dev", Category: "dev", Description: "y"},
		{SiteName: "Broken", SiteURL: "bar", Category: "dev", Description: "y"},
		{SiteName: "Bar twice", SiteURL: "https://bar.dev", Category: "dev", Description: "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Len(t, f.list(t, f.sites, store.KeySitesList), 2)
}
