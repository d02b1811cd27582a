package api

import (
	"github.com/smallbiznis/ledgerline/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ForcedLogoutHook runs when a failed token refresh clears the stored
// credentials. Supplying one is optional.
type ForcedLogoutHook func()

type Params struct {
	fx.In

	Cfg   config.Config
	Store CredentialStore
	Log   *zap.Logger
	Hook  ForcedLogoutHook `optional:"true"`
}

func NewFromParams(p Params) *Client {
	opts := []Option{}
	if p.Hook != nil {
		opts = append(opts, WithForcedLogoutHook(p.Hook))
	}
	return New(p.Cfg, p.Store, p.Log, opts...)
}

var Module = fx.Module("api",
	fx.Provide(NewFromParams),
)
