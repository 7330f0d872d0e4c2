package pricing

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/browse_catalog"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/get_rates"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/quote_cart"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/quote_price"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/rate_history"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/create_product"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/delete_product"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/remove_offer"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/update_product"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/update_rates"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/upsert_offer"
)

// Handler implements PricingServiceServer.
// It's a thin coordinator that delegates to use cases and queries.
type Handler struct {
	// Commands
	updateRates   *update_rates.Interactor
	upsertOffer   *upsert_offer.Interactor
	removeOffer   *remove_offer.Interactor
	createProduct *create_product.Interactor
	updateProduct *update_product.Interactor
	deleteProduct *delete_product.Interactor

	// Queries
	getRates      *get_rates.Query
	quotePrice    *quote_price.Query
	quoteCart     *quote_cart.Query
	browseCatalog *browse_catalog.Query
	rateHistory   *rate_history.Query

	logger *zap.Logger
}

var _ PricingServiceServer = (*Handler)(nil)

// NewHandler creates a new gRPC pricing handler.
func NewHandler(
	updateRates *update_rates.Interactor,
	upsertOffer *upsert_offer.Interactor,
	removeOffer *remove_offer.Interactor,
	createProduct *create_product.Interactor,
	updateProduct *update_product.Interactor,
	deleteProduct *delete_product.Interactor,
	getRates *get_rates.Query,
	quotePrice *quote_price.Query,
	quoteCart *quote_cart.Query,
	browseCatalog *browse_catalog.Query,
	rateHistory *rate_history.Query,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		updateRates:   updateRates,
		upsertOffer:   upsertOffer,
		removeOffer:   removeOffer,
		createProduct: createProduct,
		updateProduct: updateProduct,
		deleteProduct: deleteProduct,
		getRates:      getRates,
		quotePrice:    quotePrice,
		quoteCart:     quoteCart,
		browseCatalog: browseCatalog,
		rateHistory:   rateHistory,
		logger:        logger,
	}
}

// GetRates returns the cached market rates.
func (h *Handler) GetRates(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(h.getRates.Execute().Fields())
}

// UpdateRates stores admin-entered rates.
func (h *Handler) UpdateRates(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)
	gold, err := f.optDecimal("gold")
	if err != nil {
		return nil, err
	}
	silver, err := f.optDecimal("silver")
	if err != nil {
		return nil, err
	}
	changedBy, err := f.str("changed_by")
	if err != nil {
		return nil, err
	}

	resp, err := h.updateRates.Execute(ctx, &update_rates.Request{
		Gold:      gold,
		Silver:    silver,
		ChangedBy: changedBy,
	})
	if err != nil {
		return nil, h.fail("update rates", err)
	}

	changed := make([]any, len(resp.Changed))
	for i, m := range resp.Changed {
		changed[i] = string(m)
	}
	return toStruct(map[string]any{
		"rates":   contracts.NewRatesDTO(resp.Rates).Fields(),
		"changed": changed,
	})
}

// QuotePrice prices one product.
func (h *Handler) QuotePrice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, err := fieldsOf(req).requiredStr("product_id")
	if err != nil {
		return nil, err
	}

	item, err := h.quotePrice.Execute(ctx, &quote_price.Request{ProductID: productID})
	if err != nil {
		return nil, h.fail("quote price", err)
	}
	return toStruct(item.Fields())
}

// QuoteCart prices a cart with 3% GST.
func (h *Handler) QuoteCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	appReq, err := cartRequest(fieldsOf(req))
	if err != nil {
		return nil, err
	}

	quote, err := h.quoteCart.Execute(ctx, appReq)
	if err != nil {
		return nil, h.fail("quote cart", err)
	}
	return toStruct(quote.Fields())
}

// BrowseCatalog returns the filtered, sorted and priced catalog.
func (h *Handler) BrowseCatalog(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	appReq, err := browseRequest(fieldsOf(req))
	if err != nil {
		return nil, err
	}

	resp, err := h.browseCatalog.Execute(ctx, appReq)
	if err != nil {
		return nil, h.fail("browse catalog", err)
	}

	items := make([]any, len(resp.Items))
	for i, item := range resp.Items {
		items[i] = item.Fields()
	}
	return toStruct(map[string]any{
		"items": items,
		"total": float64(resp.Total),
		"rates": resp.Rates.Fields(),
	})
}

// UpsertOffer creates or replaces a product's offer.
func (h *Handler) UpsertOffer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)
	productID, err := f.requiredStr("product_id")
	if err != nil {
		return nil, err
	}
	percent, err := f.optInt("discount_percent")
	if err != nil {
		return nil, err
	}
	if percent == nil {
		return nil, status.Error(codes.InvalidArgument, "discount_percent is required")
	}

	offer, err := h.upsertOffer.Execute(ctx, &upsert_offer.Request{
		ProductID:       productID,
		DiscountPercent: *percent,
	})
	if err != nil {
		return nil, h.fail("upsert offer", err)
	}
	return toStruct(map[string]any{
		"product_id":               offer.ProductID(),
		"discount_percent":         float64(offer.Percent()),
		"discounted_making_charge": offer.DiscountedMakingCharge().String(),
	})
}

// RemoveOffer deletes a product's offer.
func (h *Handler) RemoveOffer(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	productID, err := fieldsOf(req).requiredStr("product_id")
	if err != nil {
		return nil, err
	}
	if err := h.removeOffer.Execute(ctx, &remove_offer.Request{ProductID: productID}); err != nil {
		return nil, h.fail("remove offer", err)
	}
	return &emptypb.Empty{}, nil
}

// CreateProduct adds a jewelry item.
func (h *Handler) CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	appReq, err := createRequest(fieldsOf(req))
	if err != nil {
		return nil, err
	}

	productID, err := h.createProduct.Execute(ctx, appReq)
	if err != nil {
		return nil, h.fail("create product", err)
	}
	return toStruct(map[string]any{"product_id": productID})
}

// UpdateProduct edits a jewelry item.
func (h *Handler) UpdateProduct(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	appReq, err := updateRequest(fieldsOf(req))
	if err != nil {
		return nil, err
	}
	if err := h.updateProduct.Execute(ctx, appReq); err != nil {
		return nil, h.fail("update product", err)
	}
	return &emptypb.Empty{}, nil
}

// DeleteProduct removes a jewelry item and its offer.
func (h *Handler) DeleteProduct(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	productID, err := fieldsOf(req).requiredStr("product_id")
	if err != nil {
		return nil, err
	}
	if err := h.deleteProduct.Execute(ctx, &delete_product.Request{ProductID: productID}); err != nil {
		return nil, h.fail("delete product", err)
	}
	return &emptypb.Empty{}, nil
}

// ListRateHistory lists recent rate changes for a metal.
func (h *Handler) ListRateHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)
	metal, err := f.requiredStr("metal")
	if err != nil {
		return nil, err
	}
	limit, err := f.integer("limit")
	if err != nil {
		return nil, err
	}

	records, err := h.rateHistory.Execute(ctx, &rate_history.Request{Metal: metal, Limit: limit})
	if err != nil {
		return nil, h.fail("list rate history", err)
	}

	out := make([]any, len(records))
	for i, r := range records {
		rec := map[string]any{
			"history_id": r.HistoryID,
			"metal":      string(r.Metal),
			"new_rate":   r.NewRate.String(),
			"changed_by": r.ChangedBy,
			"changed_at": r.ChangedAt.Format(time.RFC3339),
		}
		if r.OldRate != nil {
			rec["old_rate"] = r.OldRate.String()
		}
		out[i] = rec
	}
	return toStruct(map[string]any{"records": out})
}

// fail logs unexpected errors and maps every error to a status.
func (h *Handler) fail(op string, err error) error {
	st := mapDomainErrorToGRPC(err)
	if status.Code(st) == codes.Internal || status.Code(st) == codes.Unavailable {
		h.logger.Error("pricing request failed", zap.String("op", op), zap.Error(err))
	}
	return st
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return s, nil
}
