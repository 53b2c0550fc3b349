package kpi

import (
	"embed"

	"github.com/clearline-hq/clearline/modules/kpi/infrastructure/persistence"
	"github.com/clearline-hq/clearline/modules/kpi/presentation/controllers"
	"github.com/clearline-hq/clearline/modules/kpi/services"
	"github.com/clearline-hq/clearline/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(migrationFiles, "infrastructure/persistence/schema")

	eventRepo := persistence.NewEventRepository()
	itemRepo := persistence.NewMasterItemRepository()
	factRepo := persistence.NewFactRepository()
	selectionRepo := persistence.NewSelectionRepository()
	planRepo := persistence.NewActionPlanRepository()

	app.RegisterServices(
		services.NewEventService(eventRepo, app.EventPublisher()),
		services.NewMasterItemService(itemRepo, eventRepo, selectionRepo),
		services.NewFactService(factRepo, itemRepo),
		services.NewSelectionService(selectionRepo),
		services.NewAggregationService(eventRepo, itemRepo, factRepo, planRepo),
	)

	app.RegisterControllers(
		controllers.NewKpiAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "kpi"
}
