package masteritem

import (
	"strings"

	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/pkg/serrors"
)

type CreateDTO struct {
	EventID         uuid.UUID  `json:"eventId"`
	ParentID        *uuid.UUID `json:"parentId"`
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	Kind            Kind       `json:"kind"`
	SubjectID       *uuid.UUID `json:"subjectId"`
	DefinitionID    *uuid.UUID `json:"definitionId"`
	MetricID        *uuid.UUID `json:"metricId"`
	Level           int        `json:"level"`
	DepartmentID    *uuid.UUID `json:"departmentId"`
	OwnerEmployeeID *uuid.UUID `json:"ownerEmployeeId"`
	SortOrder       int        `json:"sortOrder"`
}

func (d *CreateDTO) Normalize() {
	d.Code = strings.TrimSpace(d.Code)
	d.Name = strings.TrimSpace(d.Name)
}

func (d *CreateDTO) Validate() serrors.ValidationErrors {
	errs := serrors.ValidationErrors{}
	if d.EventID == uuid.Nil {
		errs["eventId"] = serrors.NewFieldRequiredError("eventId")
	}
	if d.Code == "" {
		errs["code"] = serrors.NewFieldRequiredError("code")
	}
	if d.Name == "" {
		errs["name"] = serrors.NewFieldRequiredError("name")
	}
	if !d.Kind.Valid() {
		errs["kind"] = serrors.NewFieldError("VALIDATION_INVALID_VALUE", "kind", "kind must be financial, non_financial or metric")
	}
	if d.Level != LevelRoot && d.Level != LevelChild {
		errs["level"] = serrors.NewFieldError("VALIDATION_INVALID_VALUE", "level", "level must be 1 or 2")
	}
	d.validateReferenceIDs(errs)
	return errs
}

// validateReferenceIDs enforces mutual exclusivity at the wire boundary: the
// payload must carry exactly the id field its kind calls for, and a surplus
// id is rejected rather than silently dropped.
func (d *CreateDTO) validateReferenceIDs(errs serrors.ValidationErrors) {
	wanted := map[Kind]string{
		KindFinancial:    "subjectId",
		KindNonFinancial: "definitionId",
		KindMetric:       "metricId",
	}[d.Kind]
	if wanted == "" {
		return
	}

	supplied := map[string]*uuid.UUID{
		"subjectId":    d.SubjectID,
		"definitionId": d.DefinitionID,
		"metricId":     d.MetricID,
	}
	for field, id := range supplied {
		switch {
		case field == wanted && id == nil:
			errs[field] = serrors.NewFieldRequiredError(field)
		case field != wanted && id != nil:
			errs[field] = serrors.NewFieldError("VALIDATION_INVALID_VALUE", field, field+" does not apply to a "+string(d.Kind)+" item")
		}
	}
}

// Reference builds the kind-matched reference from whichever id field the
// payload carried. A missing or mismatched id fails validation upstream, so
// callers check IsZero on the result.
func (d *CreateDTO) Reference() Reference {
	switch d.Kind {
	case KindFinancial:
		if d.SubjectID != nil {
			return FinancialRef(*d.SubjectID)
		}
	case KindNonFinancial:
		if d.DefinitionID != nil {
			return NonFinancialRef(*d.DefinitionID)
		}
	case KindMetric:
		if d.MetricID != nil {
			return MetricRef(*d.MetricID)
		}
	}
	return Reference{}
}
