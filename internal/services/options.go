package services

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/browse_catalog"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/get_rates"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/quote_cart"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/quote_price"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/rate_history"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/registry"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/repo"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/create_product"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/delete_product"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/remove_offer"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/update_product"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/update_rates"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/upsert_offer"
	"github.com/light-bringer/jewel-pricing-service/internal/notify"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/config"
	"github.com/light-bringer/jewel-pricing-service/internal/transport/grpc/pricing"
	httptransport "github.com/light-bringer/jewel-pricing-service/internal/transport/http"
)

// ServiceOptions holds all dependencies for the server.
type ServiceOptions struct {
	SpannerClient  *spanner.Client
	Registry       *registry.Registry
	Notifier       contracts.RateChangeNotifier
	PricingHandler *pricing.Handler
	HTTPHandler    http.Handler

	closeNotifier func() error
}

// NewServiceOptions creates and wires up all server dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	// 1. Initialize Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	// 2. Create infrastructure components
	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)
	notifier, closeNotifier, err := notify.New(cfg, logger)
	if err != nil {
		spannerClient.Close()
		return nil, err
	}

	// 3. Create repositories
	productRepo := repo.NewProductRepo(spannerClient)
	offerRepo := repo.NewOfferRepo(spannerClient)
	rateRepo := repo.NewRateRepo(spannerClient, clk)
	historyRepo := repo.NewRateHistoryRepo(spannerClient)
	outboxRepo := repo.NewOutboxRepo(spannerClient)
	eventsReadModel := repo.NewEventsReadModel(spannerClient)

	// 4. Rate registry; the caller loads it and starts watching
	reg := registry.New(rateRepo, logger.Named("registry"))

	// 5. Create command use cases (write operations)
	updateRatesUseCase := update_rates.NewInteractor(rateRepo, historyRepo, outboxRepo, comm, notifier, clk, logger)
	upsertOfferUseCase := upsert_offer.NewInteractor(productRepo, offerRepo, outboxRepo, comm, clk)
	removeOfferUseCase := remove_offer.NewInteractor(offerRepo, outboxRepo, comm, clk)
	createProductUseCase := create_product.NewInteractor(productRepo, outboxRepo, reg, comm, clk)
	updateProductUseCase := update_product.NewInteractor(productRepo, outboxRepo, comm, clk)
	deleteProductUseCase := delete_product.NewInteractor(productRepo, offerRepo, outboxRepo, comm, clk)

	// 6. Create query use cases (read operations)
	getRatesQuery := get_rates.NewQuery(reg)
	quotePriceQuery := quote_price.NewQuery(productRepo, offerRepo, reg)
	quoteCartQuery := quote_cart.NewQuery(productRepo, offerRepo, reg)
	browseCatalogQuery := browse_catalog.NewQuery(productRepo, offerRepo, reg, clk)
	rateHistoryQuery := rate_history.NewQuery(historyRepo)
	listEventsQuery := list_events.NewQuery(eventsReadModel)

	// 7. Create transport handlers
	pricingHandler := pricing.NewHandler(
		updateRatesUseCase,
		upsertOfferUseCase,
		removeOfferUseCase,
		createProductUseCase,
		updateProductUseCase,
		deleteProductUseCase,
		getRatesQuery,
		quotePriceQuery,
		quoteCartQuery,
		browseCatalogQuery,
		rateHistoryQuery,
		logger.Named("grpc"),
	)
	httpHandler := httptransport.NewRouter(
		httptransport.NewPricingHandler(getRatesQuery, quotePriceQuery, quoteCartQuery, browseCatalogQuery, logger.Named("http")),
		httptransport.NewEventsHandler(listEventsQuery),
	)

	return &ServiceOptions{
		SpannerClient:  spannerClient,
		Registry:       reg,
		Notifier:       notifier,
		PricingHandler: pricingHandler,
		HTTPHandler:    httpHandler,
		closeNotifier:  closeNotifier,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.closeNotifier != nil {
		_ = s.closeNotifier()
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
