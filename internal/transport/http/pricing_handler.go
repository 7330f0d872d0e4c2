package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/browse_catalog"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/get_rates"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/quote_cart"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/quote_price"
)

const maxCartBody = 64 << 10

// PricingHandler serves the storefront's read endpoints.
type PricingHandler struct {
	getRates      *get_rates.Query
	quotePrice    *quote_price.Query
	quoteCart     *quote_cart.Query
	browseCatalog *browse_catalog.Query
	logger        *zap.Logger
}

// NewPricingHandler creates a new HTTP pricing handler.
func NewPricingHandler(
	getRates *get_rates.Query,
	quotePrice *quote_price.Query,
	quoteCart *quote_cart.Query,
	browseCatalog *browse_catalog.Query,
	logger *zap.Logger,
) *PricingHandler {
	return &PricingHandler{
		getRates:      getRates,
		quotePrice:    quotePrice,
		quoteCart:     quoteCart,
		browseCatalog: browseCatalog,
		logger:        logger,
	}
}

// Rates handles GET /api/v1/rates.
func (h *PricingHandler) Rates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.getRates.Execute().Fields())
}

// Quote handles GET /api/v1/products/{id}/quote.
func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	item, err := h.quotePrice.Execute(r.Context(), &quote_price.Request{ProductID: r.PathValue("id")})
	if err != nil {
		h.fail(w, "quote price", err)
		return
	}
	writeJSON(w, http.StatusOK, item.Fields())
}

// Catalog handles GET /api/v1/catalog.
//
// Query parameters: category, type, karat, purity, price_range (preset label),
// min_price, max_price, q (text search), created_after (RFC 3339),
// new_arrivals (bool), sort (best|price-low|price-high|new), limit.
func (h *PricingHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &browse_catalog.Request{
		Category:   q.Get("category"),
		Type:       q.Get("type"),
		Karat:      q.Get("karat"),
		Purity:     q.Get("purity"),
		PriceRange: q.Get("price_range"),
		Query:      q.Get("q"),
		Sort:       q.Get("sort"),
	}
	if v := q.Get("created_after"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "created_after must be an RFC 3339 timestamp")
			return
		}
		req.CreatedAfter = &since
	}
	if v := q.Get("new_arrivals"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "new_arrivals must be a boolean")
			return
		}
		req.NewArrivals = on
	}
	if v := q.Get("min_price"); v != "" {
		req.MinPrice = &v
	}
	if v := q.Get("max_price"); v != "" {
		req.MaxPrice = &v
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		req.Limit = limit
	}

	resp, err := h.browseCatalog.Execute(r.Context(), req)
	if err != nil {
		h.fail(w, "browse catalog", err)
		return
	}

	items := make([]map[string]any, len(resp.Items))
	for i, item := range resp.Items {
		items[i] = item.Fields()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": resp.Total,
		"rates": resp.Rates.Fields(),
	})
}

type cartRequest struct {
	Lines []struct {
		ProductID string `json:"product_id"`
		Quantity  int64  `json:"quantity"`
	} `json:"lines"`
}

// Cart handles POST /api/v1/cart/quote with a body of
// {"lines": [{"product_id": "...", "quantity": 2}]}.
func (h *PricingHandler) Cart(w http.ResponseWriter, r *http.Request) {
	var body cartRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCartBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid cart body: "+err.Error())
		return
	}

	req := &quote_cart.Request{Lines: make([]quote_cart.Line, len(body.Lines))}
	for i, l := range body.Lines {
		req.Lines[i] = quote_cart.Line{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	quote, err := h.quoteCart.Execute(r.Context(), req)
	if err != nil {
		h.fail(w, "quote cart", err)
		return
	}
	writeJSON(w, http.StatusOK, quote.Fields())
}

func (h *PricingHandler) fail(w http.ResponseWriter, op string, err error) {
	if code := writeDomainError(w, err); code >= http.StatusInternalServerError {
		h.logger.Error("pricing request failed", zap.String("op", op), zap.Error(err))
	}
}
