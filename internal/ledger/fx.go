package ledger

import (
	"github.com/careops/carehome/internal/ledger/repository"
	"github.com/careops/carehome/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
