package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/event"
	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/masteritem"
	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/fact"
	"github.com/clearline-hq/clearline/modules/kpi/presentation/mappers"
	"github.com/clearline-hq/clearline/modules/kpi/presentation/viewmodels"
	"github.com/clearline-hq/clearline/modules/kpi/services"
	"github.com/clearline-hq/clearline/pkg/application"
	"github.com/clearline-hq/clearline/pkg/configuration"
	"github.com/clearline-hq/clearline/pkg/httpapi"
	"github.com/clearline-hq/clearline/pkg/middleware"
)

// KpiAPIController is the BFF surface of the KPI module. It exposes events,
// the two-level item hierarchy, fact rows, reference pickers and the
// aggregated dashboard tree under one namespace.
type KpiAPIController struct {
	app         application.Application
	events      *services.EventService
	items       *services.MasterItemService
	facts       *services.FactService
	selections  *services.SelectionService
	aggregation *services.AggregationService
	basePath    string
}

func NewKpiAPIController(app application.Application) application.Controller {
	return &KpiAPIController{
		app:         app,
		events:      app.Service(services.EventService{}).(*services.EventService),
		items:       app.Service(services.MasterItemService{}).(*services.MasterItemService),
		facts:       app.Service(services.FactService{}).(*services.FactService),
		selections:  app.Service(services.SelectionService{}).(*services.SelectionService),
		aggregation: app.Service(services.AggregationService{}).(*services.AggregationService),
		basePath:    "/kpi/api",
	}
}

func (c *KpiAPIController) Key() string {
	return c.basePath
}

func (c *KpiAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.WithTransaction())

	router.HandleFunc("/events", c.ListEvents).Methods(http.MethodGet)
	router.HandleFunc("/events", c.CreateEvent).Methods(http.MethodPost)
	router.HandleFunc("/events/{id}", c.GetEvent).Methods(http.MethodGet)
	router.HandleFunc("/events/{id}/confirm", c.ConfirmEvent).Methods(http.MethodPost)
	router.HandleFunc("/events/{id}/tree", c.GetTree).Methods(http.MethodGet)

	router.HandleFunc("/items", c.ListItems).Methods(http.MethodGet)
	router.HandleFunc("/items", c.CreateItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}", c.GetItem).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}", c.UpdateItem).Methods(http.MethodPatch)
	router.HandleFunc("/items/{id}", c.DeleteItem).Methods(http.MethodDelete)
	router.HandleFunc("/items/{id}/facts", c.ListFacts).Methods(http.MethodGet)

	router.HandleFunc("/facts", c.CreateFact).Methods(http.MethodPost)
	router.HandleFunc("/facts/{id}", c.UpdateFact).Methods(http.MethodPatch)

	router.HandleFunc("/selection/subjects", c.ListSubjects).Methods(http.MethodGet)
	router.HandleFunc("/selection/definitions", c.ListDefinitions).Methods(http.MethodGet)
	router.HandleFunc("/selection/metrics", c.ListMetrics).Methods(http.MethodGet)
}

func (c *KpiAPIController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := &event.FindParams{}
	params.Limit, params.Offset = pagination(r)
	if id, ok := queryUUID(r, "companyId"); ok {
		params.CompanyID = &id
	}
	if v := strings.TrimSpace(r.URL.Query().Get("fiscalYear")); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			params.FiscalYear = &year
		}
	}

	items, total, err := c.events.GetPaginated(r.Context(), params)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}

	out := make([]viewmodels.Event, 0, len(items))
	for _, e := range items {
		out = append(out, mappers.EventToVM(e))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *KpiAPIController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto event.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json body")
		return
	}

	created, err := c.events.Create(r.Context(), &dto)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.EventToVM(created))
}

func (c *KpiAPIController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	e, err := c.events.GetByID(r.Context(), id)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.EventToVM(e))
}

func (c *KpiAPIController) ConfirmEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	confirmed, err := c.events.Confirm(r.Context(), id)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.EventToVM(confirmed))
}

func (c *KpiAPIController) GetTree(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var departmentID *uuid.UUID
	if dept, ok := queryUUID(r, "departmentId"); ok {
		departmentID = &dept
	}

	tree, err := c.aggregation.AggregateTree(r.Context(), id, departmentID)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.TreeToVM(tree, time.Now()))
}

func (c *KpiAPIController) ListItems(w http.ResponseWriter, r *http.Request) {
	params := &masteritem.FindParams{
		Keyword:  strings.TrimSpace(r.URL.Query().Get("q")),
		SortBy:   strings.TrimSpace(r.URL.Query().Get("sortBy")),
		SortDesc: r.URL.Query().Get("sortDir") == "desc",
	}
	params.Limit, params.Offset = pagination(r)
	if id, ok := queryUUID(r, "eventId"); ok {
		params.EventID = id
	}
	if id, ok := queryUUID(r, "parentId"); ok {
		params.ParentID = &id
	}
	if v := masteritem.Kind(strings.TrimSpace(r.URL.Query().Get("kind"))); v.Valid() {
		params.Kind = &v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("level")); v != "" {
		if level, err := strconv.Atoi(v); err == nil {
			params.Level = &level
		}
	}

	items, total, err := c.items.List(r.Context(), params)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}

	out := make([]viewmodels.MasterItem, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.MasterItemToVM(item))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *KpiAPIController) CreateItem(w http.ResponseWriter, r *http.Request) {
	var dto masteritem.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json body")
		return
	}

	created, err := c.items.Create(r.Context(), &dto)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.MasterItemToVM(created))
}

func (c *KpiAPIController) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	item, err := c.items.GetByID(r.Context(), id)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.MasterItemToVM(item))
}

type updateItemRequest struct {
	Name            *string                  `json:"name"`
	DepartmentID    httpapi.Optional[string] `json:"departmentId"`
	OwnerEmployeeID httpapi.Optional[string] `json:"ownerEmployeeId"`
	SortOrder       *int                     `json:"sortOrder"`
}

func (c *KpiAPIController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json body")
		return
	}

	patch := &masteritem.UpdatePatch{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}
	var err error
	patch.DepartmentID, err = uuidPatch(req.DepartmentID)
	if err != nil {
		_ = httpapi.WriteFieldError(w, http.StatusUnprocessableEntity, "VALIDATION_INVALID_VALUE", "departmentId", "not a valid uuid")
		return
	}
	patch.OwnerEmployeeID, err = uuidPatch(req.OwnerEmployeeID)
	if err != nil {
		_ = httpapi.WriteFieldError(w, http.StatusUnprocessableEntity, "VALIDATION_INVALID_VALUE", "ownerEmployeeId", "not a valid uuid")
		return
	}

	updated, err := c.items.Update(r.Context(), id, patch)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.MasterItemToVM(updated))
}

func (c *KpiAPIController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	deleted, err := c.items.Delete(r.Context(), id)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"deleted": deleted,
	})
}

func (c *KpiAPIController) ListFacts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	rows, err := c.facts.ListByItem(r.Context(), id)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}

	out := make([]viewmodels.Fact, 0, len(rows))
	for _, f := range rows {
		out = append(out, mappers.FactToVM(f))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": out,
	})
}

func (c *KpiAPIController) CreateFact(w http.ResponseWriter, r *http.Request) {
	var dto fact.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json body")
		return
	}

	created, err := c.facts.Create(r.Context(), &dto)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.FactToVM(created))
}

type updateFactRequest struct {
	Target       httpapi.Optional[string] `json:"target"`
	Actual       httpapi.Optional[string] `json:"actual"`
	PeriodStart  httpapi.Optional[string] `json:"periodStart"`
	PeriodEnd    httpapi.Optional[string] `json:"periodEnd"`
	DepartmentID httpapi.Optional[string] `json:"departmentId"`
	Notes        *string                  `json:"notes"`
}

func (c *KpiAPIController) UpdateFact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req updateFactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json body")
		return
	}

	patch, err := factPatch(req)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}

	updated, err := c.facts.Update(r.Context(), id, patch)
	if err != nil {
		writeKpiError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.FactToVM(updated))
}

func (c *KpiAPIController) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := c.selections.ListSubjects(r.Context())
	if err != nil {
		writeKpiError(w, r, err)
		return
	}

	out := make([]viewmodels.Subject, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, mappers.SubjectToVM(s))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *KpiAPIController) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	definitions, err := c.selections.ListDefinitions(r.Context())
	if err != nil {
		writeKpiError(w, r, err)
		return
	}

	out := make([]viewmodels.Definition, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, mappers.DefinitionToVM(d))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *KpiAPIController) ListMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := c.selections.ListMetrics(r.Context())
	if err != nil {
		writeKpiError(w, r, err)
		return
	}

	out := make([]viewmodels.Metric, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, mappers.MetricToVM(m))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func pagination(r *http.Request) (limit, offset int) {
	conf := configuration.Use()
	limit = conf.PageSize
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= conf.MaxPageSize {
			limit = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "not a valid uuid")
		return uuid.Nil, false
	}
	return id, true
}

func queryUUID(r *http.Request, name string) (uuid.UUID, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
