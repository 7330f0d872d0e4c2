package pricing

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// mapDomainErrorToGRPC converts domain errors to gRPC status codes.
func mapDomainErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOfferNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidWeight),
		errors.Is(err, domain.ErrInvalidMakingCharge),
		errors.Is(err, domain.ErrMissingStoredRate),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrNoRatesToUpdate),
		errors.Is(err, domain.ErrUnsupportedMetal),
		errors.Is(err, domain.ErrUnknownKarat),
		errors.Is(err, domain.ErrUnknownPurity),
		errors.Is(err, domain.ErrInvalidDiscountPercent),
		errors.Is(err, domain.ErrInvalidSortKey),
		errors.Is(err, domain.ErrInvalidPriceRange),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrMoneyOverflow):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, committer.ErrVersionConflict):
		return status.Error(codes.Aborted, err.Error())

	case errors.Is(err, domain.ErrRateFetch):
		return status.Error(codes.Unavailable, "metal rates are temporarily unavailable")

	default:
		// Unknown error - return Internal
		return status.Error(codes.Internal, "internal server error")
	}
}
