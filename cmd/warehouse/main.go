// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/flexspace/warehouse/pkg/core/config"
	"github.com/flexspace/warehouse/pkg/version"
)

// beforeApp parses the config file, applies any overrides provided via
// command-line flags, configures the default logger and embeds the runtime
// config in the context for commands to use.
func beforeApp(ctx *cli.Context) error {
	configFile := ctx.String("config")
	conf, err := config.Parse(configFile)
	if err != nil {
		return fmt.Errorf("cannot parse config: %w", err)
	}

	if ctx.IsSet("debug") {
		conf.Debug = ctx.Bool("debug")
	}

	if ctx.IsSet("redis-endpoint") {
		conf.Redis.Endpoint = ctx.String("redis-endpoint")
	}

	if ctx.IsSet("database-uri") {
		conf.Database.DSN = ctx.String("database-uri")
	}

	if err := configureLogger(conf); err != nil {
		return err
	}

	ctx.Context = context.WithValue(ctx.Context, configKey{}, conf)

	return nil
}

func main() {
	app := &cli.App{
		Name:                 "warehouse",
		Version:              version.Version,
		EnableBashCompletion: true,
		Usage:                "command-line tool for managing the warehouse",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enables debug mode, if set",
				Value: false,
			},
			&cli.StringFlag{
				Name:     "config",
				Usage:    "path to config file",
				Required: true,
				Aliases:  []string{"file"},
				EnvVars:  []string{"WAREHOUSE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "redis-endpoint",
				Usage:   "redis endpoint to connect to",
				EnvVars: []string{"REDIS_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "database-uri",
				Usage:   "database uri to connect to",
				EnvVars: []string{"DATABASE_URI"},
			},
		},
		Before: beforeApp,
		Commands: []*cli.Command{
			NewDatabaseCommand(),
			NewWorkerCommand(),
			NewSchedulerCommand(),
			NewTaskCommand(),
			NewQueueCommand(),
			NewModelCommand(),
			NewDashboardCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
