package m_product

// Field name constants for the jewellery_items table.
const (
	TableName = "jewellery_items"

	ProductID               = "product_id"
	Name                    = "name"
	Description             = "description"
	Category                = "category"
	Type                    = "type"
	Metal                   = "metal"
	Karat                   = "karat"
	Purity                  = "purity"
	WeightNumerator         = "weight_numerator"
	WeightDenominator       = "weight_denominator"
	MakingChargeNumerator   = "making_charge_numerator"
	MakingChargeDenominator = "making_charge_denominator"
	StoredRateNumerator     = "stored_rate_numerator"
	StoredRateDenominator   = "stored_rate_denominator"
	Version                 = "version"
	CreatedAt               = "created_at"
	UpdatedAt               = "updated_at"
)

// Columns lists every column in read order.
var Columns = []string{
	ProductID,
	Name,
	Description,
	Category,
	Type,
	Metal,
	Karat,
	Purity,
	WeightNumerator,
	WeightDenominator,
	MakingChargeNumerator,
	MakingChargeDenominator,
	StoredRateNumerator,
	StoredRateDenominator,
	Version,
	CreatedAt,
	UpdatedAt,
}
