package viewmodels

// API shapes for the KPI namespace. Decimals travel as strings so clients
// never lose precision to float64, and nullable rates stay distinguishable
// from zero.

type Event struct {
	ID         string `json:"id"`
	CompanyID  string `json:"companyId"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	FiscalYear int    `json:"fiscalYear"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type MasterItem struct {
	ID              string  `json:"id"`
	EventID         string  `json:"eventId"`
	ParentID        *string `json:"parentId"`
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	Kind            string  `json:"kind"`
	SubjectID       *string `json:"subjectId,omitempty"`
	DefinitionID    *string `json:"definitionId,omitempty"`
	MetricID        *string `json:"metricId,omitempty"`
	Level           int     `json:"level"`
	DepartmentID    *string `json:"departmentId"`
	OwnerEmployeeID *string `json:"ownerEmployeeId"`
	SortOrder       int     `json:"sortOrder"`
	IsActive        bool    `json:"isActive"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

type Fact struct {
	ID              string  `json:"id"`
	ItemID          string  `json:"itemId"`
	PeriodCode      string  `json:"periodCode"`
	PeriodStart     *string `json:"periodStart"`
	PeriodEnd       *string `json:"periodEnd"`
	Target          *string `json:"target"`
	Actual          *string `json:"actual"`
	AchievementRate *string `json:"achievementRate"`
	DepartmentID    *string `json:"departmentId"`
	Notes           string  `json:"notes"`
	UpdatedAt       string  `json:"updatedAt"`
}

type ActionPlan struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	DepartmentName string  `json:"departmentName"`
	OwnerName      string  `json:"ownerName"`
	DueDate        *string `json:"dueDate"`
	ProgressRate   string  `json:"progressRate"`
	IsDelayed      bool    `json:"isDelayed"`
}

type TreeNode struct {
	Item               MasterItem   `json:"item"`
	Facts              []Fact       `json:"facts"`
	LatestPeriodCode   string       `json:"latestPeriodCode,omitempty"`
	AchievementRate    *string      `json:"achievementRate"`
	ActionPlans        []ActionPlan `json:"actionPlans"`
	ActionPlansUnknown bool         `json:"actionPlansUnknown,omitempty"`
	Children           []TreeNode   `json:"children"`
}

type TreeSummary struct {
	TotalKpis              int     `json:"totalKpis"`
	OverallAchievementRate *string `json:"overallAchievementRate"`
	DelayedActionPlans     int     `json:"delayedActionPlans"`
	AttentionRequired      int     `json:"attentionRequired"`
}

type Tree struct {
	Event               Event       `json:"event"`
	Nodes               []TreeNode  `json:"nodes"`
	Summary             TreeSummary `json:"summary"`
	ActionPlansDegraded bool        `json:"actionPlansDegraded,omitempty"`
}

type Subject struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Definition struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type Metric struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Formula string `json:"formula"`
}
