package pricing

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/browse_catalog"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/quote_cart"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/create_product"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/update_product"
)

// browseRequest maps a BrowseCatalog request.
func browseRequest(f fields) (*browse_catalog.Request, error) {
	req := &browse_catalog.Request{}
	var err error
	for key, dst := range map[string]*string{
		"category":    &req.Category,
		"type":        &req.Type,
		"karat":       &req.Karat,
		"purity":      &req.Purity,
		"price_range": &req.PriceRange,
		"query":       &req.Query,
		"sort":        &req.Sort,
	} {
		if *dst, err = f.str(key); err != nil {
			return nil, err
		}
	}
	if req.MinPrice, err = f.optDecimal("min_price"); err != nil {
		return nil, err
	}
	if req.MaxPrice, err = f.optDecimal("max_price"); err != nil {
		return nil, err
	}
	if req.CreatedAfter, err = f.optTime("created_after"); err != nil {
		return nil, err
	}
	if req.NewArrivals, err = f.boolean("new_arrivals"); err != nil {
		return nil, err
	}
	limit, err := f.integer("limit")
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit cannot be negative")
	}
	req.Limit = int(limit)
	return req, nil
}

// createRequest maps and validates a CreateProduct request.
func createRequest(f fields) (*create_product.Request, error) {
	req := &create_product.Request{}
	var err error
	if req.Name, err = f.requiredStr("name"); err != nil {
		return nil, err
	}
	if req.Category, err = f.requiredStr("category"); err != nil {
		return nil, err
	}
	if req.Metal, err = f.requiredStr("metal"); err != nil {
		return nil, err
	}
	for key, dst := range map[string]*string{
		"description": &req.Description,
		"type":        &req.Type,
		"karat":       &req.Karat,
		"purity":      &req.Purity,
	} {
		if *dst, err = f.str(key); err != nil {
			return nil, err
		}
	}
	if req.WeightGrams, err = f.requiredDecimal("weight_grams"); err != nil {
		return nil, err
	}
	if req.MakingCharge, err = f.requiredDecimal("making_charge"); err != nil {
		return nil, err
	}
	if req.StoredRate, err = f.optDecimal("stored_rate"); err != nil {
		return nil, err
	}
	return req, nil
}

// updateRequest maps and validates an UpdateProduct request.
func updateRequest(f fields) (*update_product.Request, error) {
	req := &update_product.Request{}
	var err error
	if req.ProductID, err = f.requiredStr("product_id"); err != nil {
		return nil, err
	}
	for key, dst := range map[string]**string{
		"name":        &req.Name,
		"description": &req.Description,
		"type":        &req.Type,
		"karat":       &req.Karat,
		"purity":      &req.Purity,
	} {
		if *dst, err = f.optStr(key); err != nil {
			return nil, err
		}
	}
	for key, dst := range map[string]**string{
		"weight_grams":  &req.WeightGrams,
		"making_charge": &req.MakingCharge,
		"stored_rate":   &req.StoredRate,
	} {
		if *dst, err = f.optDecimal(key); err != nil {
			return nil, err
		}
	}
	if req.ExpectedVersion, err = f.optInt("expected_version"); err != nil {
		return nil, err
	}

	// At least one field must be provided for update
	if req.Name == nil && req.Description == nil && req.Type == nil && req.Karat == nil && req.Purity == nil &&
		req.WeightGrams == nil && req.MakingCharge == nil && req.StoredRate == nil {
		return nil, status.Error(codes.InvalidArgument, "at least one field must be provided for update")
	}
	return req, nil
}

// cartRequest maps a QuoteCart request. Quantities are checked by the query.
func cartRequest(f fields) (*quote_cart.Request, error) {
	if !f.has("lines") {
		return nil, status.Error(codes.InvalidArgument, "lines is required")
	}
	list, ok := f["lines"].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "lines must be a list")
	}

	req := &quote_cart.Request{}
	for i, v := range list.ListValue.GetValues() {
		obj, ok := v.GetKind().(*structpb.Value_StructValue)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "lines[%d] must be an object", i)
		}
		lf := fieldsOf(obj.StructValue)
		productID, err := lf.requiredStr("product_id")
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "lines[%d]: %s", i, status.Convert(err).Message())
		}
		qty, err := lf.optInt("quantity")
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "lines[%d]: %s", i, status.Convert(err).Message())
		}
		line := quote_cart.Line{ProductID: productID, Quantity: 1}
		if qty != nil {
			line.Quantity = *qty
		}
		req.Lines = append(req.Lines, line)
	}
	return req, nil
}
