package modules

import (
	"github.com/clearline-hq/clearline/modules/kpi"
	"github.com/clearline-hq/clearline/pkg/application"
)

var BuiltInModules = []application.Module{
	kpi.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
