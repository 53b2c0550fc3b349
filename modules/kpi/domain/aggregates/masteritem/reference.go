package masteritem

import "github.com/google/uuid"

// Kind classifies a KPI node by what master-data record it measures.
type Kind string

const (
	KindFinancial    Kind = "financial"
	KindNonFinancial Kind = "non_financial"
	KindMetric       Kind = "metric"
)

func (k Kind) Valid() bool {
	switch k {
	case KindFinancial, KindNonFinancial, KindMetric:
		return true
	}
	return false
}

// Reference is the type-specific master-data link of a KPI node. Exactly one
// target id exists per reference; the constructors are the only way to build
// one, so a financial item cannot also carry a metric id.
type Reference struct {
	kind Kind
	id   uuid.UUID
}

// FinancialRef links a node to a financial subject.
func FinancialRef(subjectID uuid.UUID) Reference {
	return Reference{kind: KindFinancial, id: subjectID}
}

// NonFinancialRef links a node to a non-financial KPI definition.
func NonFinancialRef(definitionID uuid.UUID) Reference {
	return Reference{kind: KindNonFinancial, id: definitionID}
}

// MetricRef links a node to a metric.
func MetricRef(metricID uuid.UUID) Reference {
	return Reference{kind: KindMetric, id: metricID}
}

func (r Reference) Kind() Kind { return r.kind }

// TargetID returns the single referenced master-data id.
func (r Reference) TargetID() uuid.UUID { return r.id }

func (r Reference) SubjectID() (uuid.UUID, bool) {
	if r.kind != KindFinancial {
		return uuid.Nil, false
	}
	return r.id, true
}

func (r Reference) DefinitionID() (uuid.UUID, bool) {
	if r.kind != KindNonFinancial {
		return uuid.Nil, false
	}
	return r.id, true
}

func (r Reference) MetricID() (uuid.UUID, bool) {
	if r.kind != KindMetric {
		return uuid.Nil, false
	}
	return r.id, true
}

func (r Reference) IsZero() bool {
	return r.kind == "" || r.id == uuid.Nil
}
