package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/suwandre/fundingarb/internal/metrics"
	"github.com/suwandre/fundingarb/internal/models"
	"github.com/suwandre/fundingarb/internal/scheduler"
)

type fakeSource struct {
	result     *models.Result
	refreshErr error
	refreshes  int
}

func (f *fakeSource) Latest() (*models.Result, bool) {
	return f.result, f.result != nil
}

func (f *fakeSource) Opportunity(asset string) (models.Opportunity, error) {
	if f.result == nil {
		return models.Opportunity{}, scheduler.ErrNoResult
	}
	for _, o := range f.result.Opportunities {
		if o.Asset == asset {
			return o, nil
		}
	}
	return models.Opportunity{}, scheduler.ErrNotFound
}

func (f *fakeSource) Refresh(ctx context.Context) (*models.Result, error) {
	f.refreshes++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.result, nil
}

func opportunity(asset, label string, apr float64) models.Opportunity {
	return models.Opportunity{
		Asset:        asset,
		BestStrategy: label,
		CurrentAPR:   apr,
		MaxSpread:    apr / 36500,
		PerVenue:     map[models.Venue]models.VenueRate{},
	}
}

func sampleResult() *models.Result {
	return &models.Result{
		SnapshotID: uuid.New(),
		ComputedAt: time.Unix(1_700_000_000, 0).UTC(),
		Opportunities: []models.Opportunity{
			opportunity("BTC", "Buy Spot / Short Hyperliquid", 182.5),
			opportunity("WBTC", "Long GMX / Short Drift", 50),
			opportunity("ETH", "Buy Spot / Short Paradex", 90),
		},
		Venues: map[models.Venue]*models.VenueStatus{
			models.VenueGMX:   {Venue: models.VenueGMX, Error: "down"},
			models.VenueDrift: {Venue: models.VenueDrift, OK: true, Records: 12},
		},
	}
}

func newApp(source *fakeSource) *fiber.App {
	app := fiber.New()
	SetupRoutes(app, source, nil)
	return app
}

func do(t *testing.T, app *fiber.App, method, target string) (int, map[string]any) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var out map[string]any
	if len(body) > 0 && body[0] == '{' {
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
	}
	return resp.StatusCode, out
}

func assetsOf(t *testing.T, body map[string]any) string {
	t.Helper()
	list, ok := body["opportunities"].([]any)
	if !ok {
		t.Fatalf("missing opportunities in %v", body)
	}
	names := make([]string, len(list))
	for i, item := range list {
		names[i] = item.(map[string]any)["asset"].(string)
	}
	return strings.Join(names, ",")
}

func TestListOpportunities(t *testing.T) {
	app := newApp(&fakeSource{result: sampleResult()})

	status, body := do(t, app, http.MethodGet, "/v1/opportunities")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if got := assetsOf(t, body); got != "BTC,ETH,WBTC" {
		t.Errorf("default order = %s", got)
	}

	_, body = do(t, app, http.MethodGet, "/v1/opportunities?q=btc&sort=apr&dir=asc")
	if got := assetsOf(t, body); got != "WBTC,BTC" {
		t.Errorf("filtered ascending = %s", got)
	}

	_, body = do(t, app, http.MethodGet, "/v1/opportunities?venues=drift,paradex")
	if got := assetsOf(t, body); got != "ETH,WBTC" {
		t.Errorf("venue filter = %s", got)
	}
	if body["count"].(float64) != 2 {
		t.Errorf("count = %v", body["count"])
	}
}

func TestListOpportunitiesBadSort(t *testing.T) {
	app := newApp(&fakeSource{result: sampleResult()})

	for _, target := range []string{"/v1/opportunities?sort=volume", "/v1/opportunities?dir=sideways"} {
		if status, _ := do(t, app, http.MethodGet, target); status != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, status)
		}
	}
}

func TestNotReady(t *testing.T) {
	app := newApp(&fakeSource{})

	for _, target := range []string{"/v1/opportunities", "/v1/opportunities/BTC", "/v1/venues"} {
		if status, _ := do(t, app, http.MethodGet, target); status != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", target, status)
		}
	}
}

func TestGetOpportunity(t *testing.T) {
	app := newApp(&fakeSource{result: sampleResult()})

	status, body := do(t, app, http.MethodGet, "/v1/opportunities/eth")
	if status != http.StatusOK || body["asset"] != "ETH" {
		t.Fatalf("status = %d body = %v", status, body)
	}

	if status, _ := do(t, app, http.MethodGet, "/v1/opportunities/DOGE"); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestRefresh(t *testing.T) {
	src := &fakeSource{result: sampleResult()}
	app := newApp(src)

	status, body := do(t, app, http.MethodPost, "/v1/refresh")
	if status != http.StatusOK || src.refreshes != 1 {
		t.Fatalf("status = %d refreshes = %d", status, src.refreshes)
	}
	if body["opportunities"].(float64) != 3 {
		t.Errorf("opportunities = %v", body["opportunities"])
	}

	src.refreshErr = errors.New("boom")
	if status, _ := do(t, app, http.MethodPost, "/v1/refresh"); status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", status)
	}
}

func TestVenues(t *testing.T) {
	app := newApp(&fakeSource{result: sampleResult()})

	status, body := do(t, app, http.MethodGet, "/v1/venues")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	venues := body["venues"].([]any)
	if len(venues) != 2 {
		t.Fatalf("venues = %v", venues)
	}
	// Ordered like models.AllVenues: Drift before GMX.
	if venues[0].(map[string]any)["venue"] != "Drift" {
		t.Errorf("first venue = %v", venues[0])
	}
}

func TestMetricsAndHealth(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg).SetOpportunities(3)

	app := fiber.New()
	SetupRoutes(app, &fakeSource{}, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "fundingarb_opportunities 3") {
		t.Errorf("metrics output missing gauge:\n%s", body)
	}

	if status, _ := do(t, app, http.MethodGet, "/healthz"); status != http.StatusOK {
		t.Errorf("healthz status = %d", status)
	}
}
