// Package http serves the read-only JSON API used by the storefront.
package http

import "net/http"

// NewRouter mounts the pricing and events endpoints.
func NewRouter(pricing *PricingHandler, events *EventsHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/rates", pricing.Rates)
	mux.HandleFunc("GET /api/v1/catalog", pricing.Catalog)
	mux.HandleFunc("GET /api/v1/products/{id}/quote", pricing.Quote)
	mux.HandleFunc("POST /api/v1/cart/quote", pricing.Cart)
	mux.Handle("/api/v1/events", events)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}
