package store

import (
	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/config"
	"go.uber.org/fx"
)

func NewFromConfig(cfg config.Config) (*Store, error) {
	return Open(cfg.DataDir)
}

var Module = fx.Module("store",
	fx.Provide(
		NewFromConfig,
		func(s *Store) api.CredentialStore { return s },
	),
)
