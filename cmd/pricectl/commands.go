package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/light-bringer/jewel-pricing-service/internal/transport/grpc/pricing"
)

func newRatesCommand(g *globalOptions) *cobra.Command {
	rates := &cobra.Command{Use: "rates", Short: "Read or set metal rates"}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show the rates the server is pricing with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.call(cmd, pricing.MethodGetRates, nil)
		},
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Set the gold and/or silver rate per gram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.call(cmd, pricing.MethodUpdateRates, changedFields(cmd.Flags(), "gold", "silver", "changed_by"))
		},
	}
	set.Flags().String("gold", "", "gold rate per gram")
	set.Flags().String("silver", "", "silver rate per gram")
	set.Flags().String("changed_by", os.Getenv("USER"), "operator recorded in rate history")
	set.MarkFlagsOneRequired("gold", "silver")

	rates.AddCommand(get, set)
	return rates
}

func newQuoteCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quote PRODUCT_ID",
		Short: "Price one item at current rates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, pricing.MethodQuotePrice, map[string]any{"product_id": args[0]})
		},
	}
}

func newCatalogCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse priced items with filters and sorting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.call(cmd, pricing.MethodBrowseCatalog, changedFields(cmd.Flags(),
				"category", "type", "karat", "purity", "price_range", "min_price", "max_price",
				"query", "created_after", "new_arrivals", "sort", "limit"))
		},
	}
	f := cmd.Flags()
	f.String("category", "", "category filter")
	f.String("type", "", "item type filter")
	f.String("karat", "", "karat tag filter, e.g. 22K")
	f.String("purity", "", "purity tag filter")
	f.String("price_range", "", "preset price range label, e.g. \"Under ₹25,000\"")
	f.String("min_price", "", "custom range lower bound")
	f.String("max_price", "", "custom range upper bound")
	f.String("query", "", "text search over name, description, category and type")
	f.String("created_after", "", "only items added at or after this RFC 3339 time")
	f.Bool("new_arrivals", false, "only items added in the last two days")
	f.String("sort", "", "best, price-low, price-high or new")
	f.Int("limit", 0, "maximum items to return")
	return cmd
}

func newCartCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cart PRODUCT_ID[:QTY]...",
		Short: "Quote a cart with GST",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := cartLines(args)
			if err != nil {
				return err
			}
			return g.call(cmd, pricing.MethodQuoteCart, map[string]any{"lines": lines})
		},
	}
}

// cartLines parses PRODUCT_ID or PRODUCT_ID:QTY arguments. QTY defaults to 1.
func cartLines(args []string) ([]any, error) {
	lines := make([]any, len(args))
	for i, arg := range args {
		id, qty, found := strings.Cut(arg, ":")
		n := int64(1)
		if found {
			var err error
			if n, err = cast.ToInt64E(qty); err != nil {
				return nil, fmt.Errorf("quantity in %q must be an integer: %w", arg, err)
			}
		}
		lines[i] = map[string]any{"product_id": id, "quantity": float64(n)}
	}
	return lines, nil
}

func newOfferCommand(g *globalOptions) *cobra.Command {
	offer := &cobra.Command{Use: "offer", Short: "Manage making-charge offers"}

	set := &cobra.Command{
		Use:   "set PRODUCT_ID PERCENT",
		Short: "Create or replace the offer on an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := cast.ToInt64E(args[1])
			if err != nil {
				return fmt.Errorf("PERCENT must be an integer: %w", err)
			}
			return g.call(cmd, pricing.MethodUpsertOffer, map[string]any{
				"product_id":       args[0],
				"discount_percent": float64(percent),
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove PRODUCT_ID",
		Short: "Remove the offer from an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, pricing.MethodRemoveOffer, map[string]any{"product_id": args[0]})
		},
	}

	offer.AddCommand(set, remove)
	return offer
}

func newProductCommand(g *globalOptions) *cobra.Command {
	product := &cobra.Command{Use: "product", Short: "Manage jewellery items"}

	create := &cobra.Command{
		Use:   "create",
		Short: "Add an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.call(cmd, pricing.MethodCreateProduct, changedFields(cmd.Flags(),
				"name", "description", "category", "type", "metal", "karat", "purity", "weight_grams", "making_charge", "stored_rate"))
		},
	}
	addProductFlags(create.Flags())
	create.Flags().String("category", "", "category")
	create.Flags().String("metal", "", "gold, silver or other")
	for _, name := range []string{"name", "category", "metal", "weight_grams", "making_charge"} {
		_ = create.MarkFlagRequired(name)
	}

	update := &cobra.Command{
		Use:   "update PRODUCT_ID",
		Short: "Change an item's attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := changedFields(cmd.Flags(),
				"name", "description", "type", "karat", "purity", "weight_grams", "making_charge", "stored_rate", "expected_version")
			req["product_id"] = args[0]
			return g.call(cmd, pricing.MethodUpdateProduct, req)
		},
	}
	addProductFlags(update.Flags())
	update.Flags().Int64("expected_version", 0, "fail unless the item is at this version")

	del := &cobra.Command{
		Use:   "delete PRODUCT_ID",
		Short: "Delete an item and its offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, pricing.MethodDeleteProduct, map[string]any{"product_id": args[0]})
		},
	}

	product.AddCommand(create, update, del)
	return product
}

func addProductFlags(f *pflag.FlagSet) {
	f.String("name", "", "display name")
	f.String("description", "", "free-text description shown and searched in the storefront")
	f.String("type", "", "item type, e.g. Ring")
	f.String("karat", "", "gold karat, e.g. 22K")
	f.String("purity", "", "silver purity tag, e.g. \"92.5% Sterling Silver\"")
	f.String("weight_grams", "", "weight in grams")
	f.String("making_charge", "", "flat making charge")
	f.String("stored_rate", "", "per-gram rate for metals without a market rate")
}

func newHistoryCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history METAL",
		Short: "List admin changes to a metal's rate, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := changedFields(cmd.Flags(), "limit")
			req["metal"] = args[0]
			return g.call(cmd, pricing.MethodListRateHistory, req)
		},
	}
	cmd.Flags().Int("limit", 0, "maximum records to return")
	return cmd
}

// changedFields collects the named flags that were set or carry a non-zero
// default into a request map. Integer flags become numbers and boolean
// flags become booleans.
func changedFields(flags *pflag.FlagSet, names ...string) map[string]any {
	out := make(map[string]any, len(names))
	for _, name := range names {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if !flag.Changed && (flag.DefValue == "" || flag.DefValue == "0" || flag.DefValue == "false") {
			continue
		}
		switch flag.Value.Type() {
		case "int", "int64":
			out[name] = float64(cast.ToInt64(flag.Value.String()))
		case "bool":
			out[name] = cast.ToBool(flag.Value.String())
		default:
			out[name] = flag.Value.String()
		}
	}
	return out
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
