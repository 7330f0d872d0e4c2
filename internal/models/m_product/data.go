package m_product

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the jewellery_items table.
type Data struct {
	ProductID               string             `spanner:"product_id"`
	Name                    string             `spanner:"name"`
	Description             spanner.NullString `spanner:"description"`
	Category                string             `spanner:"category"`
	Type                    string             `spanner:"type"`
	Metal                   string             `spanner:"metal"`
	Karat                   spanner.NullString `spanner:"karat"`
	Purity                  spanner.NullString `spanner:"purity"`
	WeightNumerator         int64              `spanner:"weight_numerator"`
	WeightDenominator       int64              `spanner:"weight_denominator"`
	MakingChargeNumerator   int64              `spanner:"making_charge_numerator"`
	MakingChargeDenominator int64              `spanner:"making_charge_denominator"`
	StoredRateNumerator     spanner.NullInt64  `spanner:"stored_rate_numerator"`
	StoredRateDenominator   spanner.NullInt64  `spanner:"stored_rate_denominator"`
	Version                 int64              `spanner:"version"`
	CreatedAt               time.Time          `spanner:"created_at"`
	UpdatedAt               time.Time          `spanner:"updated_at"`
}
