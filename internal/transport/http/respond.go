package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
)

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeDomainError maps err to an HTTP status, writes it, and returns the status.
func writeDomainError(w http.ResponseWriter, err error) int {
	code := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOfferNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidSortKey),
		errors.Is(err, domain.ErrInvalidPriceRange),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrUnsupportedMetal):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrRateFetch):
		code, msg = http.StatusServiceUnavailable, "metal rates are temporarily unavailable"
	}

	writeError(w, code, msg)
	return code
}
