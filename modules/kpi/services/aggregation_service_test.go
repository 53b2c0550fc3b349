package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/event"
	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/masteritem"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/actionplan"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/fact"
	"github.com/clearline-hq/clearline/modules/kpi/services"
	"github.com/clearline-hq/clearline/pkg/itf"
)

type aggregationFixture struct {
	tenantID uuid.UUID
	events   *fakeEventRepo
	items    *fakeItemRepo
	facts    *fakeFactRepo
	plans    *fakePlanProvider
	svc      *services.AggregationService
}

func newAggregationFixture() *aggregationFixture {
	f := &aggregationFixture{
		tenantID: uuid.New(),
		events:   newFakeEventRepo(),
		items:    newFakeItemRepo(),
		facts:    newFakeFactRepo(),
		plans:    newFakePlanProvider(),
	}
	f.svc = services.NewAggregationService(f.events, f.items, f.facts, f.plans)
	return f
}

func (f *aggregationFixture) seedEvent() event.Event {
	return f.events.seed(event.New(f.tenantID, uuid.New(), "FY26", "FY2026 plan", 2026))
}

func (f *aggregationFixture) seedRoot(eventID uuid.UUID, code string, departmentID *uuid.UUID) masteritem.MasterItem {
	item, _ := masteritem.New(f.tenantID, eventID, nil, code, code, masteritem.FinancialRef(uuid.New()), masteritem.LevelRoot, 1)
	return f.items.seed(item.WithDepartmentID(departmentID))
}

func (f *aggregationFixture) seedChild(eventID, parentID uuid.UUID, code string, departmentID *uuid.UUID) masteritem.MasterItem {
	item, _ := masteritem.New(f.tenantID, eventID, &parentID, code, code, masteritem.MetricRef(uuid.New()), masteritem.LevelChild, 1)
	return f.items.seed(item.WithDepartmentID(departmentID))
}

func (f *aggregationFixture) seedFact(itemID uuid.UUID, period string, target, actual *decimal.Decimal) {
	f.facts.seed(fact.New(f.tenantID, itemID, period, target, actual))
}

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestAggregateTree_UnknownEvent(t *testing.T) {
	t.Parallel()

	f := newAggregationFixture()
	ctx := itf.TenantContext(f.tenantID)

	_, err := f.svc.AggregateTree(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, event.ErrNotFound)
}

func TestAggregateTree_RatesAndSummary(t *testing.T) {
	t.Parallel()

	f := newAggregationFixture()
	ctx := itf.TenantContext(f.tenantID)
	ev := f.seedEvent()

	// Root has a target but no actual yet, so its rate stays undefined.
	// Its child sits at 88 percent.
	root := f.seedRoot(ev.ID(), "K1", nil)
	child := f.seedChild(ev.ID(), root.ID(), "K1-1", nil)
	f.seedFact(root.ID(), "2026-Q1", decp("1000"), nil)
	f.seedFact(child.ID(), "2026-Q1", decp("100"), decp("88"))

	tree, err := f.svc.AggregateTree(ctx, ev.ID(), nil)
	require.NoError(t, err)

	require.Len(t, tree.Roots, 1)
	rootNode := tree.Roots[0]
	assert.Nil(t, rootNode.AchievementRate)
	require.Len(t, rootNode.Children, 1)
	childNode := rootNode.Children[0]
	require.NotNil(t, childNode.AchievementRate)
	assert.True(t, childNode.AchievementRate.Equal(decimal.RequireFromString("88")))

	// Undefined rates are excluded from the mean rather than counted as 0.
	assert.Equal(t, 2, tree.Summary.TotalKpis)
	require.NotNil(t, tree.Summary.OverallAchievementRate)
	assert.True(t, tree.Summary.OverallAchievementRate.Equal(decimal.RequireFromString("88")))
	assert.Equal(t, 0, tree.Summary.AttentionRequired)
	assert.False(t, tree.ActionPlansDegraded)
}

func TestAggregateTree_LatestPeriodWins(t *testing.T) {
	t.Parallel()

	f := newAggregationFixture()
	ctx := itf.TenantContext(f.tenantID)
	ev := f.seedEvent()
	root := f.seedRoot(ev.ID(), "K1", nil)

	f.seedFact(root.ID(), "2026-Q1", decp("100"), decp("50"))
	f.seedFact(root.ID(), "2026-Q2", decp("100"), decp("90"))
	// Latest period lacks an actual; the rate falls back to Q2.
	f.seedFact(root.ID(), "2026-Q3", decp("100"), nil)

	tree, err := f.svc.AggregateTree(ctx, ev.ID(), nil)
	require.NoError(t, err)

	require.Len(t, tree.Roots, 1)
	node := tree.Roots[0]
	assert.Equal(t, "2026-Q3", node.LatestPeriodCode)
	require.NotNil(t, node.AchievementRate)
	assert.True(t, node.AchievementRate.Equal(decimal.RequireFromString("90")))
}

func TestAggregateTree_DepartmentFilterIsAsymmetric(t *testing.T) {
	t.Parallel()

	f := newAggregationFixture()
	ctx := itf.TenantContext(f.tenantID)
	ev := f.seedEvent()

	salesDept := uuid.New()
	hrDept := uuid.New()

	// Company-wide KPIs stay on every department's view; other departments'
	// KPIs drop off.
	companyWide := f.seedRoot(ev.ID(), "K1", nil)
	sales := f.seedRoot(ev.ID(), "K2", &salesDept)
	f.seedRoot(ev.ID(), "K3", &hrDept)

	tree, err := f.svc.AggregateTree(ctx, ev.ID(), &salesDept)
	require.NoError(t, err)

	require.Len(t, tree.Roots, 2)
	codes := []string{tree.Roots[0].Item.Code(), tree.Roots[1].Item.Code()}
	assert.Contains(t, codes, companyWide.Code())
	assert.Contains(t, codes, sales.Code())
	assert.Equal(t, 2, tree.Summary.TotalKpis)
}

func TestAggregateTree_ChildFollowsFilteredParent(t *testing.T) {
	t.Parallel()

	f := newAggregationFixture()
	ctx := itf.TenantContext(f.tenantID)
	ev := f.seedEvent()

	salesDept := uuid.New()
	hrDept := uuid.New()

	hrRoot := f.seedRoot(ev.ID(), "K1", &hrDept)
	// Child carries no department, but its parent is filtered out.
	f.seedChild(ev.ID(), hrRoot.ID(), "K1-1", nil)

	tree, err := f.svc.AggregateTree(ctx, ev.ID(), &salesDept)
	require.NoError(t, err)

	assert.Empty(t, tree.Roots)
	assert.Equal(t, 0, tree.Summary.TotalKpis)
}

func TestAggregateTree_ActionPlanFailureDegrades(t *testing.T) {
	t.Parallel()

	f := newAggregationFixture()
	ctx := itf.TenantContext(f.tenantID)
	ev := f.seedEvent()
	f.seedRoot(ev.ID(), "K1", nil)
	f.plans.err = errors.New("plans store down")

	tree, err := f.svc.AggregateTree(ctx, ev.ID(), nil)
	require.NoError(t, err)

	assert.True(t, tree.ActionPlansDegraded)
	require.Len(t, tree.Roots, 1)
	assert.True(t, tree.Roots[0].ActionPlansUnknown)
	assert.Empty(t, tree.Roots[0].ActionPlans)
	assert.Equal(t, 0, tree.Summary.DelayedActionPlans)
}

func TestAggregateTree_FactFailureAborts(t *testing.T) {
	t.Parallel()

	f := newAggregationFixture()
	ctx := itf.TenantContext(f.tenantID)
	ev := f.seedEvent()
	f.seedRoot(ev.ID(), "K1", nil)
	f.facts.err = errors.New("facts store down")

	_, err := f.svc.AggregateTree(ctx, ev.ID(), nil)
	assert.Error(t, err)
}

func TestAggregateTree_SummaryCountsDelayedAndAttention(t *testing.T) {
	t.Parallel()

	f := newAggregationFixture()
	ctx := itf.TenantContext(f.tenantID)
	ev := f.seedEvent()

	healthy := f.seedRoot(ev.ID(), "K1", nil)
	struggling := f.seedRoot(ev.ID(), "K2", nil)
	f.seedFact(healthy.ID(), "2026-Q1", decp("100"), decp("95"))
	f.seedFact(struggling.ID(), "2026-Q1", decp("100"), decp("40"))

	overdue := time.Now().AddDate(0, -2, 0)
	f.plans.plans[struggling.ID()] = []actionplan.Summary{
		{ID: uuid.New(), Name: "Recovery plan", DueDate: &overdue, ProgressRate: decimal.NewFromInt(30)},
		{ID: uuid.New(), Name: "Done plan", DueDate: &overdue, ProgressRate: decimal.NewFromInt(100)},
	}

	tree, err := f.svc.AggregateTree(ctx, ev.ID(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, tree.Summary.TotalKpis)
	assert.Equal(t, 1, tree.Summary.AttentionRequired)
	assert.Equal(t, 1, tree.Summary.DelayedActionPlans)
	require.NotNil(t, tree.Summary.OverallAchievementRate)
	assert.True(t, tree.Summary.OverallAchievementRate.Equal(decimal.RequireFromString("67.5")))
}
