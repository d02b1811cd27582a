package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/auth"
	authdomain "github.com/smallbiznis/ledgerline/internal/auth/domain"
	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/smallbiznis/ledgerline/internal/company"
	companydomain "github.com/smallbiznis/ledgerline/internal/company/domain"
	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/smallbiznis/ledgerline/internal/item"
	"github.com/smallbiznis/ledgerline/internal/logger"
	"github.com/smallbiznis/ledgerline/internal/party"
	"github.com/smallbiznis/ledgerline/internal/printing"
	"github.com/smallbiznis/ledgerline/internal/purchase"
	"github.com/smallbiznis/ledgerline/internal/quotation"
	"github.com/smallbiznis/ledgerline/internal/rbac"
	"github.com/smallbiznis/ledgerline/internal/report"
	"github.com/smallbiznis/ledgerline/internal/returns"
	"github.com/smallbiznis/ledgerline/internal/sale"
	"github.com/smallbiznis/ledgerline/internal/session"
	"github.com/smallbiznis/ledgerline/internal/store"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "ledgerline",
		Usage: "billing and inventory client for the ledgerline services",
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			companiesCommand(),
			branchesCommand(),
			partiesCommand(),
			itemsCommand(),
			salesCommand(),
			purchasesCommand(),
			quotationsCommand(),
			returnsCommand(),
			draftsCommand(),
			reportsCommand(),
			permissionsCommand(),
			previewCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// baseOptions is the module set every command composes: config, logging,
// the local store, and the HTTP client.
func baseOptions() []fx.Option {
	return []fx.Option{
		fx.NopLogger,
		config.Module,
		logger.Module,
		store.Module,
		api.Module,
		auth.Module,
		fx.Provide(func() clock.Clock { return clock.System() }),
		fx.Provide(func() api.ForcedLogoutHook {
			return func() {
				fmt.Fprintln(os.Stderr, "session expired, run `ledgerline login` again")
			}
		}),
	}
}

// serviceOptions adds every backend-facing service module on top of the
// base set.
func serviceOptions() []fx.Option {
	return append(baseOptions(),
		company.Module,
		party.Module,
		item.Module,
		sale.Module,
		purchase.Module,
		quotation.Module,
		returns.Module,
		report.Module,
		rbac.Module,
		printing.Module,
	)
}

// runOneShot composes the fx graph, runs the invokes, and tears the app
// down again. Command work happens inside fx.Invoke closures.
func runOneShot(opts ...fx.Option) error {
	app := fx.New(append(serviceOptions(), opts...)...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return app.Stop(stopCtx)
}

// sessionOption resolves the session context for commands that operate
// under a selected company.
func sessionOption(companyID, branchID string) fx.Option {
	return fx.Provide(func(authSvc authdomain.Service, companies companydomain.Service, log *zap.Logger) (session.Context, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		creds, err := authSvc.Current(ctx)
		if err != nil {
			return session.Context{}, fmt.Errorf("not signed in: %w", err)
		}
		co, err := companies.Get(ctx, companyID)
		if err != nil {
			return session.Context{}, fmt.Errorf("load company %s: %w", companyID, err)
		}
		log.Debug("session resolved",
			zap.String("company_id", co.ID),
			zap.String("user_id", creds.UserID),
		)
		return session.Context{
			User: session.User{
				ID:          creds.UserID,
				Email:       creds.Email,
				DisplayName: creds.DisplayName,
				Role:        creds.Role,
			},
			Company: session.Company{
				ID:               co.ID,
				Name:             co.Name,
				Code:             co.Code,
				Country:          co.Country,
				Currency:         co.Currency,
				DecimalPrecision: co.DecimalPrecision,
				Timezone:         co.Timezone,
				TaxName:          co.TaxName,
				TaxPercent:       co.TaxPercent,
			},
			Branch: session.Branch{ID: branchID},
		}, nil
	})
}

func companyFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "company",
		Usage:    "active company id",
		Required: true,
	}
}
