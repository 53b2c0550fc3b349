package fact

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clearline-hq/clearline/pkg/serrors"
)

type CreateDTO struct {
	ItemID       uuid.UUID        `json:"itemId"`
	PeriodCode   string           `json:"periodCode"`
	PeriodStart  *time.Time       `json:"periodStart"`
	PeriodEnd    *time.Time       `json:"periodEnd"`
	Target       *decimal.Decimal `json:"target"`
	Actual       *decimal.Decimal `json:"actual"`
	DepartmentID *uuid.UUID       `json:"departmentId"`
	Notes        string           `json:"notes"`
}

func (d *CreateDTO) Normalize() {
	d.PeriodCode = strings.TrimSpace(d.PeriodCode)
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d *CreateDTO) Validate() serrors.ValidationErrors {
	errs := serrors.ValidationErrors{}
	if d.ItemID == uuid.Nil {
		errs["itemId"] = serrors.NewFieldRequiredError("itemId")
	}
	if d.PeriodCode == "" {
		errs["periodCode"] = serrors.NewFieldRequiredError("periodCode")
	}
	if d.PeriodStart != nil && d.PeriodEnd != nil && d.PeriodEnd.Before(*d.PeriodStart) {
		errs["periodEnd"] = serrors.NewFieldError("VALIDATION_INVALID_VALUE", "periodEnd", "period end precedes period start")
	}
	return errs
}
