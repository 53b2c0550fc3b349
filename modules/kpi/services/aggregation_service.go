package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/event"
	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/masteritem"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/actionplan"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/fact"
	"github.com/clearline-hq/clearline/pkg/composables"
)

var attentionThreshold = decimal.NewFromInt(80)

// TreeNode is one KPI in the aggregated hierarchy with its progress rolled
// up from fact rows and action plans.
type TreeNode struct {
	Item             masteritem.MasterItem
	Facts            []fact.Fact
	LatestPeriodCode string
	// AchievementRate is nil when no period has both a target and an actual,
	// or when every target is zero. Missing data never reads as 0%.
	AchievementRate    *decimal.Decimal
	ActionPlans        []actionplan.Summary
	ActionPlansUnknown bool
	Children           []*TreeNode
}

// TreeSummary aggregates the retained nodes of one tree.
type TreeSummary struct {
	TotalKpis int
	// OverallAchievementRate is the unweighted mean of the defined node
	// rates; nil when no node has a defined rate.
	OverallAchievementRate *decimal.Decimal
	DelayedActionPlans     int
	AttentionRequired      int
}

type TreeResult struct {
	Event event.Event
	Roots []*TreeNode
	// ActionPlansDegraded is set when the action-plan lookup failed and the
	// tree was served without plan data.
	ActionPlansDegraded bool
	Summary             TreeSummary
}

// AggregationService assembles the KPI dashboard tree. Facts and items are
// hard dependencies; action plans are fetched best effort.
type AggregationService struct {
	events event.Repository
	items  masteritem.Repository
	facts  fact.Repository
	plans  actionplan.Provider
	now    func() time.Time
}

func NewAggregationService(
	events event.Repository,
	items masteritem.Repository,
	facts fact.Repository,
	plans actionplan.Provider,
) *AggregationService {
	return &AggregationService{
		events: events,
		items:  items,
		facts:  facts,
		plans:  plans,
		now:    time.Now,
	}
}

func (s *AggregationService) AggregateTree(ctx context.Context, eventID uuid.UUID, departmentID *uuid.UUID) (*TreeResult, error) {
	ev, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (event.Event, error) {
		return s.events.GetByID(txCtx, eventID)
	})
	if err != nil {
		return nil, err
	}

	allItems, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]masteritem.MasterItem, error) {
		return s.items.ListActiveByEvent(txCtx, eventID)
	})
	if err != nil {
		return nil, err
	}

	items := filterByDepartment(allItems, departmentID)
	itemIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID()
	}

	var (
		factsByItem map[uuid.UUID][]fact.Fact
		plansByItem map[uuid.UUID][]actionplan.Summary
		plansFailed bool
	)

	// Facts are mandatory, plans are not. Each branch runs in its own
	// transaction because a pgx transaction must not be shared between
	// goroutines.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return composables.InFreshTenantTx(gctx, func(txCtx context.Context) error {
			var innerErr error
			factsByItem, innerErr = s.facts.ListByItems(txCtx, itemIDs)
			return innerErr
		})
	})
	g.Go(func() error {
		err := composables.InFreshTenantTx(gctx, func(txCtx context.Context) error {
			var innerErr error
			plansByItem, innerErr = s.plans.ListSummaries(txCtx, itemIDs)
			return innerErr
		})
		if err != nil {
			plansFailed = true
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &TreeResult{
		Event:               ev,
		Roots:               buildTree(items, factsByItem, plansByItem, plansFailed),
		ActionPlansDegraded: plansFailed,
	}
	result.Summary = summarize(result.Roots, s.now())
	return result, nil
}

// filterByDepartment keeps items owned by the requested department and items
// with no department at all. Company-wide KPIs stay visible on every
// department's view. Children of a filtered-out root go with it.
func filterByDepartment(items []masteritem.MasterItem, departmentID *uuid.UUID) []masteritem.MasterItem {
	if departmentID == nil {
		return items
	}

	retained := make([]masteritem.MasterItem, 0, len(items))
	rootKept := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		dept := item.DepartmentID()
		if dept != nil && *dept != *departmentID {
			continue
		}
		if item.Level() == masteritem.LevelChild {
			if parentID := item.ParentID(); parentID == nil || !rootKept[*parentID] {
				continue
			}
		} else {
			rootKept[item.ID()] = true
		}
		retained = append(retained, item)
	}
	return retained
}

// buildTree relies on items arriving roots first, which the repository's
// level-major ordering guarantees.
func buildTree(
	items []masteritem.MasterItem,
	factsByItem map[uuid.UUID][]fact.Fact,
	plansByItem map[uuid.UUID][]actionplan.Summary,
	plansFailed bool,
) []*TreeNode {
	roots := make([]*TreeNode, 0)
	byID := make(map[uuid.UUID]*TreeNode, len(items))
	for _, item := range items {
		node := newTreeNode(item, factsByItem[item.ID()], plansByItem[item.ID()], plansFailed)
		byID[item.ID()] = node
		if item.Level() == masteritem.LevelRoot {
			roots = append(roots, node)
			continue
		}
		if parentID := item.ParentID(); parentID != nil {
			if parent, ok := byID[*parentID]; ok {
				parent.Children = append(parent.Children, node)
			}
		}
	}
	return roots
}

func newTreeNode(
	item masteritem.MasterItem,
	facts []fact.Fact,
	plans []actionplan.Summary,
	plansUnknown bool,
) *TreeNode {
	node := &TreeNode{
		Item:               item,
		Facts:              facts,
		ActionPlans:        plans,
		ActionPlansUnknown: plansUnknown,
	}
	if len(facts) > 0 {
		node.LatestPeriodCode = facts[len(facts)-1].PeriodCode()
	}
	// Facts arrive ordered by period code ascending; the latest period with
	// a computable rate wins.
	for i := len(facts) - 1; i >= 0; i-- {
		if rate, ok := facts[i].AchievementRate(); ok {
			node.AchievementRate = &rate
			break
		}
	}
	return node
}

func summarize(roots []*TreeNode, now time.Time) TreeSummary {
	var summary TreeSummary
	var rateSum decimal.Decimal
	var rated int

	var walk func(node *TreeNode)
	walk = func(node *TreeNode) {
		summary.TotalKpis++
		if node.AchievementRate != nil {
			rateSum = rateSum.Add(*node.AchievementRate)
			rated++
			if node.AchievementRate.LessThan(attentionThreshold) {
				summary.AttentionRequired++
			}
		}
		for _, plan := range node.ActionPlans {
			if plan.IsDelayed(now) {
				summary.DelayedActionPlans++
			}
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}

	if rated > 0 {
		overall := rateSum.Div(decimal.NewFromInt(int64(rated)))
		summary.OverallAchievementRate = &overall
	}
	return summary
}
