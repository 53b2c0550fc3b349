package persistence

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/clearline-hq/clearline/pkg/composables"
)

// tenantIDs resolves the request tenant once per call and returns both the
// comparable uuid and its pgtype form for parameter binding.
func tenantIDs(ctx context.Context) (uuid.UUID, pgtype.UUID, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return uuid.Nil, pgtype.UUID{}, err
	}
	return tenantID, pgUUID(tenantID), nil
}

// pgPlaceholder appends a positional placeholder to a SQL fragment, e.g.
// pgPlaceholder(" LIMIT ", 3) yields " LIMIT $3".
func pgPlaceholder(prefix string, n int) string {
	return prefix + "$" + strconv.Itoa(n)
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgNullableUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil || *id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func pgNullableDate(v *time.Time) pgtype.Date {
	if v == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *v, Valid: true}
}

func pgNullableNumeric(v *decimal.Decimal) pgtype.Numeric {
	if v == nil {
		return pgtype.Numeric{}
	}
	return pgtype.Numeric{Int: v.Coefficient(), Exp: v.Exponent(), Valid: true}
}

func nullableUUID(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}

func nullableDate(v pgtype.Date) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullableDecimal(v pgtype.Numeric) *decimal.Decimal {
	if !v.Valid || v.Int == nil {
		return nil
	}
	d := decimal.NewFromBigInt(v.Int, v.Exp)
	return &d
}

func numericDecimal(v pgtype.Numeric) decimal.Decimal {
	if !v.Valid || v.Int == nil {
		return decimal.Decimal{}
	}
	return decimal.NewFromBigInt(v.Int, v.Exp)
}
