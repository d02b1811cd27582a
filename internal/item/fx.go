package item

import (
	"github.com/smallbiznis/ledgerline/internal/item/service"
	"go.uber.org/fx"
)

var Module = fx.Module("item.service",
	fx.Provide(service.NewService),
)
