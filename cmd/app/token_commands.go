package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/privacyhub/privacy-gateway/cmd/app/commands"
	"github.com/privacyhub/privacy-gateway/internal/app"
	"github.com/privacyhub/privacy-gateway/internal/config"
)

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "purge-expired-tokens",
			Usage: "Delete token mappings that expired more than the specified days ago",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Delete mappings that expired more than this many days ago (0 for all expired)",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many mappings would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.TokenStore()
				if err != nil {
					return err
				}

				run := func(ctx context.Context) error {
					return commands.RunPurgeExpiredTokens(
						ctx,
						store,
						container.Logger(),
						commands.DefaultIO().Writer,
						int(cmd.Int("days")),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				}

				// Count and delete run in one transaction on database backends
				if cfg.StoreBackend == "database" {
					txManager, err := container.TxManager()
					if err != nil {
						return err
					}
					return txManager.WithTx(ctx, run)
				}
				return run(ctx)
			},
		},
		{
			Name:  "create-master-key",
			Usage: "Generate a new master key for encrypting token values at rest",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Master key ID (e.g., prod-master-key-2026)",
				},
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Aliases: []string{"k"},
					Value:   "",
					Usage:   "Optional KMS key URI used to wrap the key (e.g., hashivault://keyname)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateMasterKey(
					ctx,
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
