package quotation

import (
	"github.com/smallbiznis/ledgerline/internal/quotation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quotation.service",
	fx.Provide(service.NewService),
)
