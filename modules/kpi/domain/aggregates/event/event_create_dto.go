package event

import (
	"strings"

	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/pkg/serrors"
)

type CreateDTO struct {
	CompanyID  uuid.UUID `json:"companyId"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	FiscalYear int       `json:"fiscalYear"`
}

func (d *CreateDTO) Normalize() {
	d.Code = strings.TrimSpace(d.Code)
	d.Name = strings.TrimSpace(d.Name)
}

func (d *CreateDTO) Validate() serrors.ValidationErrors {
	errs := serrors.ValidationErrors{}
	if d.CompanyID == uuid.Nil {
		errs["companyId"] = serrors.NewFieldRequiredError("companyId")
	}
	if d.Code == "" {
		errs["code"] = serrors.NewFieldRequiredError("code")
	}
	if d.Name == "" {
		errs["name"] = serrors.NewFieldRequiredError("name")
	}
	if d.FiscalYear < 1900 || d.FiscalYear > 3000 {
		errs["fiscalYear"] = serrors.NewFieldError("VALIDATION_OUT_OF_RANGE", "fiscalYear", "fiscal year out of range")
	}
	return errs
}
