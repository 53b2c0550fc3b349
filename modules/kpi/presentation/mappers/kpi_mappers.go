package mappers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/event"
	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/masteritem"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/actionplan"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/fact"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/selection"
	"github.com/clearline-hq/clearline/modules/kpi/presentation/viewmodels"
	"github.com/clearline-hq/clearline/modules/kpi/services"
)

func EventToVM(e event.Event) viewmodels.Event {
	return viewmodels.Event{
		ID:         e.ID().String(),
		CompanyID:  e.CompanyID().String(),
		Code:       e.Code(),
		Name:       e.Name(),
		FiscalYear: e.FiscalYear(),
		Status:     string(e.Status()),
		CreatedAt:  e.CreatedAt().Format(time.RFC3339),
		UpdatedAt:  e.UpdatedAt().Format(time.RFC3339),
	}
}

func MasterItemToVM(m masteritem.MasterItem) viewmodels.MasterItem {
	vm := viewmodels.MasterItem{
		ID:              m.ID().String(),
		EventID:         m.EventID().String(),
		ParentID:        uuidPtrToString(m.ParentID()),
		Code:            m.Code(),
		Name:            m.Name(),
		Kind:            string(m.Ref().Kind()),
		Level:           m.Level(),
		DepartmentID:    uuidPtrToString(m.DepartmentID()),
		OwnerEmployeeID: uuidPtrToString(m.OwnerEmployeeID()),
		SortOrder:       m.SortOrder(),
		IsActive:        m.IsActive(),
		CreatedAt:       m.CreatedAt().Format(time.RFC3339),
		UpdatedAt:       m.UpdatedAt().Format(time.RFC3339),
	}
	if id, ok := m.Ref().SubjectID(); ok {
		s := id.String()
		vm.SubjectID = &s
	}
	if id, ok := m.Ref().DefinitionID(); ok {
		s := id.String()
		vm.DefinitionID = &s
	}
	if id, ok := m.Ref().MetricID(); ok {
		s := id.String()
		vm.MetricID = &s
	}
	return vm
}

func FactToVM(f fact.Fact) viewmodels.Fact {
	vm := viewmodels.Fact{
		ID:           f.ID().String(),
		ItemID:       f.ItemID().String(),
		PeriodCode:   f.PeriodCode(),
		PeriodStart:  datePtrToString(f.PeriodStart()),
		PeriodEnd:    datePtrToString(f.PeriodEnd()),
		Target:       decimalPtrToString(f.Target()),
		Actual:       decimalPtrToString(f.Actual()),
		DepartmentID: uuidPtrToString(f.DepartmentID()),
		Notes:        f.Notes(),
		UpdatedAt:    f.UpdatedAt().Format(time.RFC3339),
	}
	if rate, ok := f.AchievementRate(); ok {
		s := rate.Round(2).String()
		vm.AchievementRate = &s
	}
	return vm
}

func ActionPlanToVM(p actionplan.Summary, now time.Time) viewmodels.ActionPlan {
	return viewmodels.ActionPlan{
		ID:             p.ID.String(),
		Name:           p.Name,
		DepartmentName: p.DepartmentName,
		OwnerName:      p.OwnerName,
		DueDate:        datePtrToString(p.DueDate),
		ProgressRate:   p.ProgressRate.Round(2).String(),
		IsDelayed:      p.IsDelayed(now),
	}
}

func TreeToVM(t *services.TreeResult, now time.Time) viewmodels.Tree {
	nodes := make([]viewmodels.TreeNode, 0, len(t.Roots))
	for _, root := range t.Roots {
		nodes = append(nodes, treeNodeToVM(root, now))
	}
	return viewmodels.Tree{
		Event:               EventToVM(t.Event),
		Nodes:               nodes,
		Summary:             treeSummaryToVM(t.Summary),
		ActionPlansDegraded: t.ActionPlansDegraded,
	}
}

func treeNodeToVM(n *services.TreeNode, now time.Time) viewmodels.TreeNode {
	facts := make([]viewmodels.Fact, 0, len(n.Facts))
	for _, f := range n.Facts {
		facts = append(facts, FactToVM(f))
	}
	plans := make([]viewmodels.ActionPlan, 0, len(n.ActionPlans))
	for _, p := range n.ActionPlans {
		plans = append(plans, ActionPlanToVM(p, now))
	}
	children := make([]viewmodels.TreeNode, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, treeNodeToVM(child, now))
	}
	return viewmodels.TreeNode{
		Item:               MasterItemToVM(n.Item),
		Facts:              facts,
		LatestPeriodCode:   n.LatestPeriodCode,
		AchievementRate:    decimalPtrToRounded(n.AchievementRate),
		ActionPlans:        plans,
		ActionPlansUnknown: n.ActionPlansUnknown,
		Children:           children,
	}
}

func treeSummaryToVM(s services.TreeSummary) viewmodels.TreeSummary {
	return viewmodels.TreeSummary{
		TotalKpis:              s.TotalKpis,
		OverallAchievementRate: decimalPtrToRounded(s.OverallAchievementRate),
		DelayedActionPlans:     s.DelayedActionPlans,
		AttentionRequired:      s.AttentionRequired,
	}
}

func SubjectToVM(s selection.Subject) viewmodels.Subject {
	return viewmodels.Subject{ID: s.ID.String(), Code: s.Code, Name: s.Name}
}

func DefinitionToVM(d selection.Definition) viewmodels.Definition {
	return viewmodels.Definition{ID: d.ID.String(), Code: d.Code, Name: d.Name, Unit: d.Unit}
}

func MetricToVM(m selection.Metric) viewmodels.Metric {
	return viewmodels.Metric{ID: m.ID.String(), Code: m.Code, Name: m.Name, Formula: m.Formula}
}

func uuidPtrToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func datePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func decimalPtrToString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func decimalPtrToRounded(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.Round(2).String()
	return &s
}
