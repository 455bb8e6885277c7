package usage

import (
	"github.com/careops/carehome/internal/usage/repository"
	"github.com/careops/carehome/internal/usage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("usage.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
