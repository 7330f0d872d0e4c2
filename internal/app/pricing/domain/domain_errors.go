package domain

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values
var (
	// Product errors
	ErrProductNotFound     = errors.New("product not found")
	ErrEmptyName           = errors.New("product name cannot be empty")
	ErrInvalidCategory     = errors.New("product category cannot be empty")
	ErrInvalidWeight       = errors.New("product weight cannot be negative")
	ErrInvalidMakingCharge = errors.New("making charge cannot be negative")
	ErrMissingStoredRate   = errors.New("a stored rate is required for products without a tracked metal rate")
	ErrUnknownKarat        = errors.New("unknown karat tag")
	ErrUnknownPurity       = errors.New("unknown purity tag")

	// Rate errors
	ErrInvalidRate      = errors.New("metal rate cannot be negative")
	ErrNoRatesToUpdate  = errors.New("at least one metal rate must be provided")
	ErrUnsupportedMetal = errors.New("metal has no tracked market rate")
	ErrRateFetch        = errors.New("failed to fetch metal rates")

	// Offer errors
	ErrOfferNotFound          = errors.New("offer not found")
	ErrInvalidDiscountPercent = errors.New("discount percentage must be between 0 and 100")

	// Catalog errors
	ErrInvalidSortKey    = errors.New("unknown sort order")
	ErrInvalidPriceRange = errors.New("price range minimum cannot exceed maximum")

	// Cart errors
	ErrInvalidQuantity = errors.New("cart quantity must be at least 1")

	// Money errors
	ErrInvalidAmount = errors.New("invalid decimal amount")
	ErrMoneyOverflow = errors.New("amount exceeds storage capacity")
)

// RateFetchError is returned when the rate store could not be read.
// The registry keeps serving its previous snapshot when this happens.
type RateFetchError struct {
	Err error
}

func (e *RateFetchError) Error() string {
	return fmt.Sprintf("%s: %v", ErrRateFetch, e.Err)
}

func (e *RateFetchError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrRateFetch).
func (e *RateFetchError) Is(target error) bool {
	return target == ErrRateFetch
}

// InvalidDiscountError is returned when an offer percentage falls outside [0,100].
type InvalidDiscountError struct {
	Percent int64
}

func (e *InvalidDiscountError) Error() string {
	return fmt.Sprintf("%s, got %d", ErrInvalidDiscountPercent, e.Percent)
}

// Is allows errors.Is(err, ErrInvalidDiscountPercent).
func (e *InvalidDiscountError) Is(target error) bool {
	return target == ErrInvalidDiscountPercent
}
