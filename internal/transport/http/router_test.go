package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/fakes"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/browse_catalog"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/get_rates"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/quote_cart"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/quote_price"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/registry"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newServer(t *testing.T, withRates bool) (*httptest.Server, *fakes.Store) {
	t.Helper()
	store := fakes.NewStore()
	store.PutProduct(fakes.GoldRing("ring", now))
	store.PutProduct(fakes.SilverChain("chain", now.Add(time.Minute)))
	store.PutProduct(fakes.DiamondStud("stud", now.Add(2*time.Minute)))
	if withRates {
		store.PutRate(domain.MetalGold, domain.NewMoneyFromInt(6000))
		store.PutRate(domain.MetalSilver, domain.NewMoneyFromInt(80))
	}

	reg := registry.New(store.RateRepo(), zap.NewNop())
	require.NoError(t, reg.Refresh(context.Background()))

	products, offers := store.ProductRepo(), store.OfferRepo()
	router := NewRouter(
		NewPricingHandler(
			get_rates.NewQuery(reg),
			quote_price.NewQuery(products, offers, reg),
			quote_cart.NewQuery(products, offers, reg),
			browse_catalog.NewQuery(products, offers, reg, clock.NewMockClock(now.Add(time.Hour))),
			zap.NewNop(),
		),
		NewEventsHandler(list_events.NewQuery(store.OutboxRepo())),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestRates(t *testing.T) {
	srv, _ := newServer(t, true)

	var body map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/rates", &body))
	assert.Equal(t, "6000.00", body["gold"])
	assert.Equal(t, true, body["rates_loaded"])
}

func TestCatalog(t *testing.T) {
	srv, _ := newServer(t, true)

	var body struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/catalog?sort=price-low&limit=2", &body))
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "chain", body.Items[0]["product_id"])
	assert.Equal(t, "1980.00", body.Items[0]["price"])
	assert.Equal(t, "stud", body.Items[1]["product_id"])
}

func TestCatalog_PriceRangePreset(t *testing.T) {
	srv, _ := newServer(t, true)

	var body struct {
		Items []map[string]any `json:"items"`
	}
	url := srv.URL + "/api/v1/catalog?price_range=" + "%E2%82%B925%2C000%20-%20%E2%82%B950%2C000"
	require.Equal(t, http.StatusOK, getJSON(t, url, &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "stud", body.Items[0]["product_id"])
}

func TestCatalog_UnavailablePrice(t *testing.T) {
	srv, _ := newServer(t, false)

	var body struct {
		Items []map[string]any `json:"items"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/catalog?sort=price-high", &body))
	require.Len(t, body.Items, 3)
	assert.Equal(t, "stud", body.Items[0]["product_id"])
	for _, item := range body.Items[1:] {
		assert.Equal(t, false, item["price_available"])
		assert.NotContains(t, item, "price")
	}
}

func TestCatalog_BadRequest(t *testing.T) {
	srv, _ := newServer(t, true)

	for _, q := range []string{"sort=cheapest", "min_price=abc", "min_price=10&max_price=5", "limit=-1", "price_range=cheap", "created_after=yesterday", "new_arrivals=maybe"} {
		var body map[string]string
		assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/v1/catalog?"+q, &body), q)
		assert.NotEmpty(t, body["error"])
	}
}

func TestCatalog_SearchAndNewArrivals(t *testing.T) {
	srv, _ := newServer(t, true)

	var body struct {
		Items []map[string]any `json:"items"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/catalog?q=hallmarked", &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "ring", body.Items[0]["product_id"])
	assert.Equal(t, "Hallmarked 22K band", body.Items[0]["description"])

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/catalog?new_arrivals=true", &body))
	assert.Len(t, body.Items, 3)

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/catalog?created_after=2026-03-01T12:01:00Z", &body))
	require.Len(t, body.Items, 2)
	assert.Equal(t, "chain", body.Items[0]["product_id"])
}

func postJSON(t *testing.T, url, payload string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestCartQuote(t *testing.T) {
	srv, _ := newServer(t, true)

	var body map[string]any
	code := postJSON(t, srv.URL+"/api/v1/cart/quote",
		`{"lines":[{"product_id":"ring","quantity":2},{"product_id":"chain","quantity":1}]}`, &body)
	require.Equal(t, http.StatusOK, code)
	// 2 * 55960 + 1980 = 113900, GST 3417
	assert.Equal(t, "113900.00", body["subtotal"])
	assert.Equal(t, "3417.00", body["gst"])
	assert.Equal(t, "117317.00", body["total"])
	assert.Len(t, body["lines"], 2)

	var bad map[string]string
	assert.Equal(t, http.StatusBadRequest, postJSON(t, srv.URL+"/api/v1/cart/quote", `{"lines":[{"product_id":"ring","quantity":0}]}`, &bad))
	assert.Equal(t, http.StatusBadRequest, postJSON(t, srv.URL+"/api/v1/cart/quote", `{"items":[]}`, &bad))
	assert.Equal(t, http.StatusNotFound, postJSON(t, srv.URL+"/api/v1/cart/quote", `{"lines":[{"product_id":"nope","quantity":1}]}`, &bad))
}

func TestCartQuote_RatesMissing(t *testing.T) {
	srv, _ := newServer(t, false)

	var body map[string]any
	require.Equal(t, http.StatusOK, postJSON(t, srv.URL+"/api/v1/cart/quote", `{"lines":[{"product_id":"stud","quantity":1},{"product_id":"ring","quantity":1}]}`, &body))
	assert.Equal(t, false, body["total_available"])
	assert.NotContains(t, body, "total")
}

func TestQuote(t *testing.T) {
	srv, _ := newServer(t, true)

	var body map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/products/ring/quote", &body))
	assert.Equal(t, "55960.00", body["price"])
	assert.Equal(t, float64(55960), body["price_rounded"])

	var missing map[string]string
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/v1/products/nope/quote", &missing))
}

func TestEvents(t *testing.T) {
	srv, store := newServer(t, true)
	outbox := store.OutboxRepo()
	ev, err := outbox.EnrichEvent(&domain.OfferRemovedEvent{ProductID: "ring", Timestamp: now})
	require.NoError(t, err)
	plan := committer.NewPlan()
	plan.Add(outbox.InsertMut(ev))
	require.NoError(t, store.Committer().Apply(context.Background(), plan))

	var body ListEventsResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/events?aggregate_id=ring", &body))
	require.Len(t, body.Events, 1)
	assert.Equal(t, "offer.removed", body.Events[0].EventType)
	assert.JSONEq(t, ev.Payload, string(body.Events[0].Payload))

	resp, err := http.Post(srv.URL+"/api/v1/events", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
