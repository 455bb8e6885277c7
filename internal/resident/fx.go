package resident

import (
	"github.com/careops/carehome/internal/resident/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("resident.repository",
	fx.Provide(repository.Provide),
)
