package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/masteritem"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/fact"
	"github.com/clearline-hq/clearline/pkg/composables"
	"github.com/clearline-hq/clearline/pkg/httpapi"
	"github.com/clearline-hq/clearline/pkg/serrors"
)

// statusByCode maps domain error codes to HTTP statuses. Unknown codes fall
// through to 500 without leaking the underlying error.
var statusByCode = map[string]int{
	"KPI_EVENT_NOT_FOUND":      http.StatusNotFound,
	"KPI_ITEM_NOT_FOUND":       http.StatusNotFound,
	"KPI_FACT_NOT_FOUND":       http.StatusNotFound,
	"KPI_SELECTION_NOT_FOUND":  http.StatusNotFound,
	"KPI_DUPLICATE_CODE":       http.StatusConflict,
	"KPI_FACT_PERIOD_TAKEN":    http.StatusConflict,
	"KPI_EVENT_CONFIRMED":      http.StatusConflict,
	"KPI_INVALID_REFERENCE":    http.StatusUnprocessableEntity,
	"KPI_INVALID_KIND":         http.StatusUnprocessableEntity,
	"KPI_INVALID_LEVEL":        http.StatusUnprocessableEntity,
	"KPI_INVALID_PARENT":       http.StatusUnprocessableEntity,
	"FIELD_REQUIRED":           http.StatusUnprocessableEntity,
	"VALIDATION_INVALID_VALUE": http.StatusUnprocessableEntity,
	"VALIDATION_OUT_OF_RANGE":  http.StatusUnprocessableEntity,
}

func writeKpiError(w http.ResponseWriter, r *http.Request, err error) {
	var validation serrors.ValidationErrors
	if errors.As(err, &validation) {
		for _, fieldErr := range validation {
			_ = httpapi.WriteFieldError(w, http.StatusUnprocessableEntity, fieldErr.Code, fieldErr.Field, fieldErr.Message)
			return
		}
	}

	var base *serrors.BaseError
	if errors.As(err, &base) {
		if status, ok := statusByCode[base.Code]; ok {
			if base.Field != "" {
				_ = httpapi.WriteFieldError(w, status, base.Code, base.Field, base.Message)
			} else {
				_ = httpapi.WriteError(w, status, base.Code, base.Message)
			}
			return
		}
	}

	if errors.Is(err, composables.ErrNoTenantID) {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "TENANT_CONTEXT", "tenant not established")
		return
	}

	composables.UseLogger(r.Context()).WithError(err).Error("kpi api request failed")
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
}

func uuidPatch(opt httpapi.Optional[string]) (masteritem.UUIDPatch, error) {
	var patch masteritem.UUIDPatch
	if !opt.Set {
		return patch, nil
	}
	patch.Set = true
	if opt.Value == nil {
		return patch, nil
	}
	id, err := uuid.Parse(*opt.Value)
	if err != nil {
		return patch, err
	}
	patch.Value = &id
	return patch, nil
}

func factPatch(req updateFactRequest) (fact.UpdatePatch, error) {
	var patch fact.UpdatePatch
	var err error

	patch.Target, err = decimalPatch(req.Target, "target")
	if err != nil {
		return patch, err
	}
	patch.Actual, err = decimalPatch(req.Actual, "actual")
	if err != nil {
		return patch, err
	}
	patch.PeriodStart, err = datePatch(req.PeriodStart, "periodStart")
	if err != nil {
		return patch, err
	}
	patch.PeriodEnd, err = datePatch(req.PeriodEnd, "periodEnd")
	if err != nil {
		return patch, err
	}

	if req.DepartmentID.Set {
		patch.DepartmentID.Set = true
		if req.DepartmentID.Value != nil {
			id, parseErr := uuid.Parse(*req.DepartmentID.Value)
			if parseErr != nil {
				return patch, serrors.NewFieldError("VALIDATION_INVALID_VALUE", "departmentId", "not a valid uuid")
			}
			patch.DepartmentID.Value = &id
		}
	}
	patch.Notes = req.Notes
	return patch, nil
}

func decimalPatch(opt httpapi.Optional[string], field string) (fact.DecimalPatch, error) {
	var patch fact.DecimalPatch
	if !opt.Set {
		return patch, nil
	}
	patch.Set = true
	if opt.Value == nil {
		return patch, nil
	}
	d, err := decimal.NewFromString(*opt.Value)
	if err != nil {
		return patch, serrors.NewFieldError("VALIDATION_INVALID_VALUE", field, "not a valid decimal")
	}
	patch.Value = &d
	return patch, nil
}

func datePatch(opt httpapi.Optional[string], field string) (fact.TimePatch, error) {
	var patch fact.TimePatch
	if !opt.Set {
		return patch, nil
	}
	patch.Set = true
	if opt.Value == nil {
		return patch, nil
	}
	t, err := time.Parse("2006-01-02", *opt.Value)
	if err != nil {
		return patch, serrors.NewFieldError("VALIDATION_INVALID_VALUE", field, "not a valid date")
	}
	patch.Value = &t
	return patch, nil
}
