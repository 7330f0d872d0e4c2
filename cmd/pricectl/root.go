package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/jewel-pricing-service/internal/transport/grpc/pricing"
)

type globalOptions struct {
	addr    string
	timeout time.Duration
}

func newRootCommand() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:          "pricectl",
		Short:        "Manage metal rates, offers and jewellery items",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.addr, "addr", envOr("PRICING_ADDR", "localhost:9090"), "pricing gRPC address")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 10*time.Second, "per-call timeout")

	root.AddCommand(
		newRatesCommand(g),
		newQuoteCommand(g),
		newCatalogCommand(g),
		newCartCommand(g),
		newOfferCommand(g),
		newProductCommand(g),
		newHistoryCommand(g),
	)
	return root
}

// call dials the server, invokes one method and prints the reply as JSON.
func (g *globalOptions) call(cmd *cobra.Command, method string, req map[string]any) error {
	conn, err := grpc.NewClient(g.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", g.addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
	defer cancel()

	client := pricing.NewClient(conn)
	var out *structpb.Struct
	if method == pricing.MethodGetRates {
		out, err = client.GetRates(ctx)
	} else {
		out, err = client.Call(ctx, method, req)
	}
	if err != nil {
		return err
	}
	return printStruct(cmd.OutOrStdout(), out)
}

func printStruct(w io.Writer, s *structpb.Struct) error {
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
