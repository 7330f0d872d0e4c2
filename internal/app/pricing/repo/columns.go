package repo

import (
	"fmt"
	"math/big"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
)

// Amounts are stored as reduced numerator/denominator INT64 pairs.

func moneyColumns(field string, m *domain.Money) (int64, int64, error) {
	if !m.IsSafeForStorage() {
		return 0, 0, fmt.Errorf("%s exceeds storage capacity: %w", field, domain.ErrMoneyOverflow)
	}
	return m.Numerator(), m.Denominator(), nil
}

func nullMoneyColumns(field string, m *domain.Money) (spanner.NullInt64, spanner.NullInt64, error) {
	if m == nil {
		return spanner.NullInt64{}, spanner.NullInt64{}, nil
	}
	num, den, err := moneyColumns(field, m)
	if err != nil {
		return spanner.NullInt64{}, spanner.NullInt64{}, err
	}
	return spanner.NullInt64{Int64: num, Valid: true}, spanner.NullInt64{Int64: den, Valid: true}, nil
}

func ratColumns(field string, r *big.Rat) (int64, int64, error) {
	if !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return 0, 0, fmt.Errorf("%s exceeds storage capacity: %w", field, domain.ErrMoneyOverflow)
	}
	return r.Num().Int64(), r.Denom().Int64(), nil
}

func moneyFromColumns(field string, num, den int64) (*domain.Money, error) {
	m, err := domain.NewMoney(num, den)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return m, nil
}

func nullMoneyFromColumns(field string, num, den spanner.NullInt64) (*domain.Money, error) {
	if !num.Valid || !den.Valid {
		return nil, nil
	}
	return moneyFromColumns(field, num.Int64, den.Int64)
}

func ratFromColumns(field string, num, den int64) (*big.Rat, error) {
	if den <= 0 {
		return nil, fmt.Errorf("invalid %s: denominator must be positive", field)
	}
	return big.NewRat(num, den), nil
}

func nullString(s string) spanner.NullString {
	return spanner.NullString{StringVal: s, Valid: s != ""}
}
