package pricing

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls PricingService over any grpc connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// GetRates returns the server's cached rates.
func (c *Client) GetRates(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(MethodGetRates), &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Call invokes a Struct-in, Struct-out method. Methods that reply with
// Empty return an empty Struct.
func (c *Client) Call(ctx context.Context, method string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}

	switch method {
	case MethodRemoveOffer, MethodUpdateProduct, MethodDeleteProduct:
		if err := c.cc.Invoke(ctx, fullMethod(method), req, new(emptypb.Empty), opts...); err != nil {
			return nil, err
		}
		return &structpb.Struct{}, nil
	default:
		out := new(structpb.Struct)
		if err := c.cc.Invoke(ctx, fullMethod(method), req, out, opts...); err != nil {
			return nil, err
		}
		return out, nil
	}
}
