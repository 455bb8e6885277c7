package invoice

import (
	"github.com/careops/carehome/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(service.New),
)
