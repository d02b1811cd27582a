package main

import (
	"github.com/smallbiznis/ledgerline/internal/preview"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
)

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "serve rendered documents on the preview address until interrupted",
		Flags: []cli.Flag{
			companyFlag(),
			&cli.StringFlag{Name: "branch"},
		},
		Action: func(c *cli.Context) error {
			app := fx.New(append(serviceOptions(),
				sessionOption(c.String("company"), c.String("branch")),
				preview.Module,
			)...)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}
