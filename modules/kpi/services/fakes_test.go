package services_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/event"
	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/masteritem"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/actionplan"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/fact"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/selection"
)

// In-memory repository fakes. They honor the same sentinel errors and
// ordering guarantees as the postgres implementations so the services under
// test cannot tell the difference.

type fakeEventRepo struct {
	events map[uuid.UUID]event.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]event.Event)}
}

func (r *fakeEventRepo) seed(e event.Event) event.Event {
	stored := event.Hydrate(uuid.New(), e.TenantID(), e.CompanyID(), e.Code(), e.Name(), e.FiscalYear(), e.Status(), time.Now(), time.Now())
	r.events[stored.ID()] = stored
	return stored
}

func (r *fakeEventRepo) GetPaginated(_ context.Context, _ *event.FindParams) ([]event.Event, int64, error) {
	out := make([]event.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code() < out[j].Code() })
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (event.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	return e, nil
}

func (r *fakeEventRepo) Create(_ context.Context, e event.Event) (event.Event, error) {
	for _, existing := range r.events {
		if existing.CompanyID() == e.CompanyID() && existing.Code() == e.Code() {
			return event.Event{}, event.ErrDuplicateCode
		}
	}
	return r.seed(e), nil
}

func (r *fakeEventRepo) Confirm(_ context.Context, id uuid.UUID) (event.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	confirmed := e.Confirm()
	r.events[id] = confirmed
	return confirmed, nil
}

type fakeItemRepo struct {
	items map[uuid.UUID]masteritem.MasterItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]masteritem.MasterItem)}
}

func (r *fakeItemRepo) seed(item masteritem.MasterItem) masteritem.MasterItem {
	stored := masteritem.Hydrate(
		uuid.New(), item.TenantID(), item.EventID(), item.ParentID(),
		item.Code(), item.Name(), item.Ref(), item.Level(),
		item.DepartmentID(), item.OwnerEmployeeID(), item.SortOrder(),
		item.IsActive(), time.Now(), time.Now(),
	)
	r.items[stored.ID()] = stored
	return stored
}

func (r *fakeItemRepo) List(_ context.Context, params *masteritem.FindParams) ([]masteritem.MasterItem, int64, error) {
	out := make([]masteritem.MasterItem, 0, len(r.items))
	for _, item := range r.items {
		if params != nil && params.EventID != uuid.Nil && item.EventID() != params.EventID {
			continue
		}
		out = append(out, item)
	}
	sortItems(out)
	return out, int64(len(out)), nil
}

func (r *fakeItemRepo) ListActiveByEvent(_ context.Context, eventID uuid.UUID) ([]masteritem.MasterItem, error) {
	out := make([]masteritem.MasterItem, 0, len(r.items))
	for _, item := range r.items {
		if item.EventID() == eventID && item.IsActive() {
			out = append(out, item)
		}
	}
	sortItems(out)
	return out, nil
}

func sortItems(items []masteritem.MasterItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Level() != items[j].Level() {
			return items[i].Level() < items[j].Level()
		}
		if items[i].SortOrder() != items[j].SortOrder() {
			return items[i].SortOrder() < items[j].SortOrder()
		}
		return items[i].Code() < items[j].Code()
	})
}

func (r *fakeItemRepo) GetByID(_ context.Context, id uuid.UUID) (masteritem.MasterItem, error) {
	item, ok := r.items[id]
	if !ok || !item.IsActive() {
		return masteritem.MasterItem{}, masteritem.ErrNotFound
	}
	return item, nil
}

func (r *fakeItemRepo) Create(_ context.Context, item masteritem.MasterItem) (masteritem.MasterItem, error) {
	for _, existing := range r.items {
		if existing.EventID() == item.EventID() && existing.Code() == item.Code() {
			return masteritem.MasterItem{}, masteritem.ErrDuplicateCode
		}
	}
	return r.seed(item), nil
}

func (r *fakeItemRepo) Update(_ context.Context, id uuid.UUID, patch *masteritem.UpdatePatch) (masteritem.MasterItem, error) {
	item, ok := r.items[id]
	if !ok || !item.IsActive() {
		return masteritem.MasterItem{}, masteritem.ErrNotFound
	}
	if patch == nil {
		return item, nil
	}

	name := item.Name()
	if patch.Name != nil {
		name = *patch.Name
	}
	sortOrder := item.SortOrder()
	if patch.SortOrder != nil {
		sortOrder = *patch.SortOrder
	}
	departmentID := item.DepartmentID()
	if patch.DepartmentID.Set {
		departmentID = patch.DepartmentID.Value
	}
	ownerID := item.OwnerEmployeeID()
	if patch.OwnerEmployeeID.Set {
		ownerID = patch.OwnerEmployeeID.Value
	}

	updated := masteritem.Hydrate(
		item.ID(), item.TenantID(), item.EventID(), item.ParentID(),
		item.Code(), name, item.Ref(), item.Level(),
		departmentID, ownerID, sortOrder,
		item.IsActive(), item.CreatedAt(), time.Now(),
	)
	r.items[id] = updated
	return updated, nil
}

func (r *fakeItemRepo) Deactivate(_ context.Context, id uuid.UUID) (bool, error) {
	item, ok := r.items[id]
	if !ok {
		return false, nil
	}
	deactivated, changed := item.Deactivate()
	r.items[id] = deactivated
	return changed, nil
}

type fakeFactRepo struct {
	facts map[uuid.UUID]fact.Fact
	err   error
}

func newFakeFactRepo() *fakeFactRepo {
	return &fakeFactRepo{facts: make(map[uuid.UUID]fact.Fact)}
}

func (r *fakeFactRepo) seed(f fact.Fact) fact.Fact {
	stored := fact.Hydrate(
		uuid.New(), f.TenantID(), f.ItemID(), f.PeriodCode(),
		f.PeriodStart(), f.PeriodEnd(), f.Target(), f.Actual(),
		f.DepartmentID(), f.Notes(), f.CreatedBy(), f.UpdatedBy(),
		time.Now(), time.Now(),
	)
	r.facts[stored.ID()] = stored
	return stored
}

func (r *fakeFactRepo) ListByItem(_ context.Context, itemID uuid.UUID) ([]fact.Fact, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]fact.Fact, 0)
	for _, f := range r.facts {
		if f.ItemID() == itemID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodCode() < out[j].PeriodCode() })
	return out, nil
}

func (r *fakeFactRepo) ListByItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]fact.Fact, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[uuid.UUID][]fact.Fact, len(itemIDs))
	for _, id := range itemIDs {
		rows, err := r.ListByItem(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			out[id] = rows
		}
	}
	return out, nil
}

func (r *fakeFactRepo) GetByID(_ context.Context, id uuid.UUID) (fact.Fact, error) {
	f, ok := r.facts[id]
	if !ok {
		return fact.Fact{}, fact.ErrNotFound
	}
	return f, nil
}

func (r *fakeFactRepo) Create(_ context.Context, f fact.Fact) (fact.Fact, error) {
	for _, existing := range r.facts {
		if existing.ItemID() == f.ItemID() && existing.PeriodCode() == f.PeriodCode() {
			return fact.Fact{}, fact.ErrPeriodTaken
		}
	}
	return r.seed(f), nil
}

func (r *fakeFactRepo) Update(_ context.Context, id uuid.UUID, patch fact.UpdatePatch) (fact.Fact, error) {
	f, ok := r.facts[id]
	if !ok {
		return fact.Fact{}, fact.ErrNotFound
	}

	target := f.Target()
	if patch.Target.Set {
		target = patch.Target.Value
	}
	actual := f.Actual()
	if patch.Actual.Set {
		actual = patch.Actual.Value
	}
	notes := f.Notes()
	if patch.Notes != nil {
		notes = *patch.Notes
	}
	updatedBy := f.UpdatedBy()
	if patch.UpdatedBy != nil {
		updatedBy = *patch.UpdatedBy
	}

	updated := fact.Hydrate(
		f.ID(), f.TenantID(), f.ItemID(), f.PeriodCode(),
		f.PeriodStart(), f.PeriodEnd(), target, actual,
		f.DepartmentID(), notes, f.CreatedBy(), updatedBy,
		f.CreatedAt(), time.Now(),
	)
	r.facts[id] = updated
	return updated, nil
}

type fakeSelectionRepo struct {
	subjects    map[uuid.UUID]selection.Subject
	definitions map[uuid.UUID]selection.Definition
	metrics     map[uuid.UUID]selection.Metric
}

func newFakeSelectionRepo() *fakeSelectionRepo {
	return &fakeSelectionRepo{
		subjects:    make(map[uuid.UUID]selection.Subject),
		definitions: make(map[uuid.UUID]selection.Definition),
		metrics:     make(map[uuid.UUID]selection.Metric),
	}
}

func (r *fakeSelectionRepo) ListSubjects(_ context.Context) ([]selection.Subject, error) {
	out := make([]selection.Subject, 0, len(r.subjects))
	for _, s := range r.subjects {
		if s.IsActive && s.IsKpiManaged {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeSelectionRepo) ListDefinitions(_ context.Context) ([]selection.Definition, error) {
	out := make([]selection.Definition, 0, len(r.definitions))
	for _, d := range r.definitions {
		if d.IsActive && d.IsKpiManaged {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeSelectionRepo) ListMetrics(_ context.Context) ([]selection.Metric, error) {
	out := make([]selection.Metric, 0, len(r.metrics))
	for _, m := range r.metrics {
		if m.IsActive && m.IsKpiManaged {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeSelectionRepo) GetSubjectByID(_ context.Context, id uuid.UUID) (selection.Subject, error) {
	s, ok := r.subjects[id]
	if !ok {
		return selection.Subject{}, selection.ErrNotFound
	}
	return s, nil
}

func (r *fakeSelectionRepo) GetDefinitionByID(_ context.Context, id uuid.UUID) (selection.Definition, error) {
	d, ok := r.definitions[id]
	if !ok {
		return selection.Definition{}, selection.ErrNotFound
	}
	return d, nil
}

func (r *fakeSelectionRepo) GetMetricByID(_ context.Context, id uuid.UUID) (selection.Metric, error) {
	m, ok := r.metrics[id]
	if !ok {
		return selection.Metric{}, selection.ErrNotFound
	}
	return m, nil
}

type fakePlanProvider struct {
	plans map[uuid.UUID][]actionplan.Summary
	err   error
}

func newFakePlanProvider() *fakePlanProvider {
	return &fakePlanProvider{plans: make(map[uuid.UUID][]actionplan.Summary)}
}

func (p *fakePlanProvider) ListSummaries(_ context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]actionplan.Summary, error) {
	if p.err != nil {
		return nil, p.err
	}
	out := make(map[uuid.UUID][]actionplan.Summary, len(itemIDs))
	for _, id := range itemIDs {
		if plans, ok := p.plans[id]; ok {
			out[id] = plans
		}
	}
	return out, nil
}
