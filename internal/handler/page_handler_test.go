package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/unclebandit/dinerreach/internal/fixtures"
	"github.com/unclebandit/dinerreach/internal/handler"
	"github.com/unclebandit/dinerreach/internal/middleware"
	"github.com/unclebandit/dinerreach/internal/model"
	"github.com/unclebandit/dinerreach/internal/repository"
	"github.com/unclebandit/dinerreach/internal/service"
	"github.com/unclebandit/dinerreach/internal/session"
)

type MockCampaignRepo struct {
	campaigns []model.Campaign
	err       error
}

func (m *MockCampaignRepo) ListCampaigns(ctx context.Context, f repository.CampaignFilter) ([]model.Campaign, error) {
	return m.campaigns, m.err
}

func (m *MockCampaignRepo) CreateCampaign(ctx context.Context, c *model.Campaign) error {
	return nil
}

func newPageHandler(t *testing.T, repo *MockCampaignRepo) (*handler.PageHandler, *session.Workspace) {
	t.Helper()
	catalog, err := fixtures.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	log, _ := test.NewNullLogger()

	h := &handler.PageHandler{
		Directory: &service.Directory{
			Source:    fixtures.NewRoster(catalog.Diners),
			Cities:    catalog.Cities,
			Interests: catalog.Interests,
		},
		Dashboard:   &service.Dashboard{Store: repo, Log: log},
		Suggestions: catalog.Suggestions,
		Log:         log,
	}
	store := session.NewStore(func() *service.Composer {
		return service.NewComposer(repo, nil, nil, nil, log)
	}, 0)
	return h, store.Create()
}

func get(t *testing.T, fn http.HandlerFunc, ws *session.Workspace, target string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if ws != nil {
		req = req.WithContext(middleware.WithWorkspace(req.Context(), ws))
	}
	w := httptest.NewRecorder()
	fn(w, req)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return w, doc
}

func TestLandingPage(t *testing.T) {
	h, _ := newPageHandler(t, &MockCampaignRepo{})

	w, doc := get(t, h.Landing, nil, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if n := doc.Find(".feature").Length(); n != 3 {
		t.Errorf("expected 3 features, got %d", n)
	}
	if n := doc.Find(".benefit").Length(); n != 5 {
		t.Errorf("expected 5 benefits, got %d", n)
	}
	if n := doc.Find(".stat").Length(); n != 4 {
		t.Errorf("expected 4 stats, got %d", n)
	}
}

func TestSearchPageFindsChen(t *testing.T) {
	h, ws := newPageHandler(t, &MockCampaignRepo{})

	_, doc := get(t, h.Search, ws, "/search?search=chen&city=all")

	names := doc.Find(".diner h3")
	if names.Length() != 1 || names.First().Text() != "Mike Chen" {
		t.Errorf("expected Mike Chen only, got %d results", names.Length())
	}
	if doc.Find(".empty-state").Length() != 0 {
		t.Errorf("empty state must not render with results")
	}
	if ws.Selection().Search != "chen" {
		t.Errorf("query should update the workspace selection")
	}
}

func TestSearchPageEmptyState(t *testing.T) {
	h, ws := newPageHandler(t, &MockCampaignRepo{})

	_, doc := get(t, h.Search, ws, "/search?search=pizza")

	if doc.Find(".diner").Length() != 0 {
		t.Errorf("expected no diner cards")
	}
	if !strings.Contains(doc.Find(".empty-state h3").Text(), "No matches found") {
		t.Errorf("expected empty state element")
	}
}

func TestSearchPageClearKeepsSearch(t *testing.T) {
	h, ws := newPageHandler(t, &MockCampaignRepo{})
	ws.Update(func(sel *model.Selection) {
		sel.Search = "a"
		sel.City = "Austin, TX"
		sel.ToggleInterest("Wine")
		sel.ToggleDiner(2)
	})

	_, doc := get(t, h.Search, ws, "/search?clear=1")

	sel := ws.Selection()
	if sel.Search != "a" || sel.City != model.AllCities || len(sel.Interests) != 0 || !sel.IsSelected(2) {
		t.Errorf("unexpected selection after clear: %+v", sel)
	}
	if got := doc.Find(".selected-count").Text(); got != "1 selected" {
		t.Errorf("expected 1 selected, got %q", got)
	}
	if doc.Find("a.create-campaign").Length() != 1 {
		t.Errorf("expected create campaign link with a selection")
	}
}

func TestComposerPage(t *testing.T) {
	h, ws := newPageHandler(t, &MockCampaignRepo{})
	ws.Update(func(sel *model.Selection) {
		sel.ToggleDiner(1)
		sel.ToggleDiner(2)
	})
	ws.Composer.SetDraft(service.Draft{Channel: model.ChannelSMS})

	_, doc := get(t, h.Composer, ws, "/campaigns/new")

	if got := doc.Find(".preview-heading").Text(); got != "SMS MESSAGE" {
		t.Errorf("expected SMS heading, got %q", got)
	}
	if got := doc.Find(".preview-title").Text(); got != "Your offer title will appear here" {
		t.Errorf("expected placeholder title, got %q", got)
	}
	if n := doc.Find(".recipients li").Length(); n != 2 {
		t.Errorf("expected 2 recipients, got %d", n)
	}
	if _, disabled := doc.Find("button.send").Attr("disabled"); !disabled {
		t.Errorf("send must be disabled for an empty draft")
	}
	if n := doc.Find(".suggestions li").Length(); n != 3 {
		t.Errorf("expected 3 quick suggestions, got %d", n)
	}
}

func TestDashboardPage(t *testing.T) {
	repo := &MockCampaignRepo{campaigns: []model.Campaign{
		{ID: 2, Name: "Weekend", Channel: model.ChannelEmail, Status: model.StatusCompleted, Recipients: 100, Opened: 25,
			Revenue: decimal.NewNullDecimal(decimal.NewFromInt(500))},
		{ID: 1, Name: "Happy Hour", Channel: model.ChannelSMS, Status: model.StatusDraft, Recipients: 50, Opened: 10},
	}}
	h, _ := newPageHandler(t, repo)

	w, doc := get(t, h.Dashboard, nil, "/dashboard")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := doc.Find(".total-revenue strong").Text(); got != "$500.00" {
		t.Errorf("expected $500.00, got %q", got)
	}
	if got := doc.Find(".avg-open-rate strong").Text(); got != "25%" {
		t.Errorf("expected 25%%, got %q", got)
	}
	if got := doc.Find(".active-campaigns strong").Text(); got != "1" {
		t.Errorf("expected 1 active campaign, got %q", got)
	}
	rows := doc.Find("tr.campaign")
	if rows.Length() != 2 {
		t.Fatalf("expected 2 rows, got %d", rows.Length())
	}
	if got := rows.First().Find(".open-rate").Text(); got != "25%" {
		t.Errorf("expected 25%% open rate, got %q", got)
	}
}

func TestDashboardPageEmptyRendersTable(t *testing.T) {
	h, _ := newPageHandler(t, &MockCampaignRepo{})

	_, doc := get(t, h.Dashboard, nil, "/dashboard")
	if doc.Find("table.campaigns").Length() != 1 {
		t.Errorf("expected the table with zero rows")
	}
	if doc.Find(".loading, .error-state").Length() != 0 {
		t.Errorf("a rendered page is either ready or failed")
	}
	if doc.Find("tr.campaign").Length() != 0 {
		t.Errorf("expected zero rows")
	}
	if got := doc.Find(".avg-open-rate strong").Text(); got != "0%" {
		t.Errorf("expected 0%%, got %q", got)
	}
}

func TestDashboardPageError(t *testing.T) {
	h, _ := newPageHandler(t, &MockCampaignRepo{err: errors.New("relation \"campaigns\" does not exist")})

	w, doc := get(t, h.Dashboard, nil, "/dashboard")
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(doc.Find(".error-state").Text(), `relation "campaigns" does not exist`) {
		t.Errorf("expected error message in page")
	}
	if doc.Find("table.campaigns").Length() != 0 {
		t.Errorf("table must not render in the error state")
	}
}
