package ledger

import (
	"go.uber.org/fx"

	"github.com/hosteldesk/messpro/internal/ledger/repository"
	"github.com/hosteldesk/messpro/internal/ledger/service"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
