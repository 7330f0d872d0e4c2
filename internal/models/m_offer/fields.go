package m_offer

// Field name constants for the offers table.
const (
	TableName = "offers"

	ProductID                         = "product_id"
	DiscountPercent                   = "discount_percent"
	DiscountedMakingChargeNumerator   = "discounted_making_charge_numerator"
	DiscountedMakingChargeDenominator = "discounted_making_charge_denominator"
	CreatedAt                         = "created_at"
	UpdatedAt                         = "updated_at"
)

var Columns = []string{
	ProductID,
	DiscountPercent,
	DiscountedMakingChargeNumerator,
	DiscountedMakingChargeDenominator,
	CreatedAt,
	UpdatedAt,
}
