package config

import "go.uber.org/fx"

// Module wires the config holder and a snapshot of the config at startup.
var Module = fx.Module("config",
	fx.Provide(NewHolder),
	fx.Provide(func(h *Holder) Config { return h.Current() }),
)
