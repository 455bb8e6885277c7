package catalog

import (
	"github.com/careops/carehome/internal/catalog/repository"
	"github.com/careops/carehome/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
