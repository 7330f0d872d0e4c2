// Package pricing exposes the pricing core as the gRPC service
// pricing.v1.PricingService. Messages are google.protobuf.Struct, so
// clients need no generated stubs; field names are snake_case.
package pricing

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "pricing.v1.PricingService"

// Method names.
const (
	MethodGetRates        = "GetRates"
	MethodUpdateRates     = "UpdateRates"
	MethodQuotePrice      = "QuotePrice"
	MethodQuoteCart       = "QuoteCart"
	MethodBrowseCatalog   = "BrowseCatalog"
	MethodUpsertOffer     = "UpsertOffer"
	MethodRemoveOffer     = "RemoveOffer"
	MethodCreateProduct   = "CreateProduct"
	MethodUpdateProduct   = "UpdateProduct"
	MethodDeleteProduct   = "DeleteProduct"
	MethodListRateHistory = "ListRateHistory"
)

// PricingServiceServer is the server API for PricingService.
type PricingServiceServer interface {
	GetRates(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	UpdateRates(context.Context, *structpb.Struct) (*structpb.Struct, error)
	QuotePrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	QuoteCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BrowseCatalog(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpsertOffer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveOffer(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	CreateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProduct(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	DeleteProduct(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	ListRateHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPricingServiceServer registers srv on s.
func RegisterPricingServiceServer(s grpc.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes PricingService for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodGetRates, PricingServiceServer.GetRates),
		unary(MethodUpdateRates, PricingServiceServer.UpdateRates),
		unary(MethodQuotePrice, PricingServiceServer.QuotePrice),
		unary(MethodQuoteCart, PricingServiceServer.QuoteCart),
		unary(MethodBrowseCatalog, PricingServiceServer.BrowseCatalog),
		unary(MethodUpsertOffer, PricingServiceServer.UpsertOffer),
		unary(MethodRemoveOffer, PricingServiceServer.RemoveOffer),
		unary(MethodCreateProduct, PricingServiceServer.CreateProduct),
		unary(MethodUpdateProduct, PricingServiceServer.UpdateProduct),
		unary(MethodDeleteProduct, PricingServiceServer.DeleteProduct),
		unary(MethodListRateHistory, PricingServiceServer.ListRateHistory),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pricing/v1/pricing.proto",
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the method descriptor a protoc plugin would generate.
func unary[Req, Resp any](name string, call func(PricingServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PricingServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PricingServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
