package main

import (
	"bytes"
	"context"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/jewel-pricing-service/internal/transport/grpc/pricing"
)

// recordingServer answers every call with a fixed reply and keeps the last request.
type recordingServer struct {
	pricing.PricingServiceServer

	mu     sync.Mutex
	method string
	last   map[string]any
}

func (s *recordingServer) record(method string, req *structpb.Struct) (*structpb.Struct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.method = method
	s.last = req.AsMap()
	return structpb.NewStruct(map[string]any{"ok": true})
}

func (s *recordingServer) lastCall() (string, map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method, s.last
}

func (s *recordingServer) GetRates(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return s.record(pricing.MethodGetRates, &structpb.Struct{})
}

func (s *recordingServer) UpdateRates(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.record(pricing.MethodUpdateRates, req)
}

func (s *recordingServer) BrowseCatalog(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.record(pricing.MethodBrowseCatalog, req)
}

func (s *recordingServer) QuoteCart(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.record(pricing.MethodQuoteCart, req)
}

func (s *recordingServer) UpsertOffer(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.record(pricing.MethodUpsertOffer, req)
}

func (s *recordingServer) UpdateProduct(_ context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	_, err := s.record(pricing.MethodUpdateProduct, req)
	return &emptypb.Empty{}, err
}

func startServer(t *testing.T) (*recordingServer, string) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &recordingServer{}
	s := grpc.NewServer()
	pricing.RegisterPricingServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	return srv, lis.Addr().String()
}

func execute(t *testing.T, addr string, args ...string) string {
	t.Helper()

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--addr", addr}, args...))
	require.NoError(t, root.Execute())
	return out.String()
}

func TestRatesGet(t *testing.T) {
	srv, addr := startServer(t)

	out := execute(t, addr, "rates", "get")

	method, _ := srv.lastCall()
	assert.Equal(t, pricing.MethodGetRates, method)
	assert.Contains(t, out, `"ok": true`)
}

func TestRatesSet_SendsOnlyGivenMetals(t *testing.T) {
	srv, addr := startServer(t)

	execute(t, addr, "rates", "set", "--gold", "6100.50", "--changed_by", "ops")

	method, req := srv.lastCall()
	assert.Equal(t, pricing.MethodUpdateRates, method)
	assert.Equal(t, map[string]any{"gold": "6100.50", "changed_by": "ops"}, req)
}

func TestCatalog_IntegerFlagsAreNumbers(t *testing.T) {
	srv, addr := startServer(t)

	execute(t, addr, "catalog", "--category", "Rings", "--sort", "price-low", "--limit", "5")

	_, req := srv.lastCall()
	assert.Equal(t, map[string]any{"category": "Rings", "sort": "price-low", "limit": float64(5)}, req)
}

func TestCatalog_SearchFlags(t *testing.T) {
	srv, addr := startServer(t)

	execute(t, addr, "catalog", "--query", "kundan", "--new_arrivals")

	_, req := srv.lastCall()
	assert.Equal(t, map[string]any{"query": "kundan", "new_arrivals": true}, req)
}

func TestCart(t *testing.T) {
	srv, addr := startServer(t)

	execute(t, addr, "cart", "ring-1:2", "chain-1")

	method, req := srv.lastCall()
	assert.Equal(t, pricing.MethodQuoteCart, method)
	assert.Equal(t, map[string]any{"lines": []any{
		map[string]any{"product_id": "ring-1", "quantity": float64(2)},
		map[string]any{"product_id": "chain-1", "quantity": float64(1)},
	}}, req)
}

func TestCart_RejectsNonIntegerQuantity(t *testing.T) {
	_, err := cartLines([]string{"ring-1:two"})
	assert.Error(t, err)
}

func TestOfferSet(t *testing.T) {
	srv, addr := startServer(t)

	execute(t, addr, "offer", "set", "p-1", "20")

	method, req := srv.lastCall()
	assert.Equal(t, pricing.MethodUpsertOffer, method)
	assert.Equal(t, map[string]any{"product_id": "p-1", "discount_percent": float64(20)}, req)
}

func TestOfferSet_RejectsNonIntegerPercent(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"offer", "set", "p-1", "abc"})

	assert.Error(t, root.Execute())
}

func TestProductUpdate_SendsChangedFieldsAndVersion(t *testing.T) {
	srv, addr := startServer(t)

	execute(t, addr, "product", "update", "p-1", "--making_charge", "1200", "--expected_version", "3")

	method, req := srv.lastCall()
	assert.Equal(t, pricing.MethodUpdateProduct, method)
	assert.Equal(t, map[string]any{
		"product_id":       "p-1",
		"making_charge":    "1200",
		"expected_version": float64(3),
	}, req)
}
