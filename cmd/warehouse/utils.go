// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/olekukonko/tablewriter"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	"github.com/flexspace/warehouse/internal/pkg/migrations"
	"github.com/flexspace/warehouse/pkg/core/config"
	dbutils "github.com/flexspace/warehouse/pkg/utils/db"
	slogutils "github.com/flexspace/warehouse/pkg/utils/slog"
)

// na is the value displayed for missing or zero values.
const na = "N/A"

// errNoRedisEndpoint is returned when no Redis endpoint has been configured.
var errNoRedisEndpoint = errors.New("no redis endpoint specified")

// errNoDatabaseDSN is returned when no database DSN has been configured.
var errNoDatabaseDSN = errors.New("no database dsn specified")

// errNoDashboardAddress is returned when no dashboard address has been
// configured.
var errNoDashboardAddress = errors.New("no dashboard address specified")

// configKey is the context key under which the parsed configuration is stored.
type configKey struct{}

// getConfig returns the [config.Config] stored in the context of the given
// [cli.Context].
func getConfig(ctx *cli.Context) *config.Config {
	return ctx.Context.Value(configKey{}).(*config.Config)
}

// configureLogger configures the default logger based on the logging settings
// from the given config.
func configureLogger(conf *config.Config) error {
	logger, err := slogutils.NewFromConfig(os.Stderr, conf.Logging)
	if err != nil {
		return err
	}

	slog.SetDefault(logger)

	return nil
}

// validateRedisConfig validates the Redis configuration settings.
func validateRedisConfig(conf *config.Config) error {
	if conf.Redis.Endpoint == "" {
		return errNoRedisEndpoint
	}

	return nil
}

// validateDBConfig validates the database configuration settings.
func validateDBConfig(conf *config.Config) error {
	if conf.Database.DSN == "" {
		return errNoDatabaseDSN
	}

	return nil
}

// validateDashboardConfig validates the dashboard configuration settings.
func validateDashboardConfig(conf *config.Config) error {
	if conf.Dashboard.Address == "" {
		return errNoDashboardAddress
	}

	return nil
}

// newRedisClientOpt returns a new [asynq.RedisClientOpt] from the given
// config.
func newRedisClientOpt(conf *config.Config) asynq.RedisClientOpt {
	// TODO: Handle authentication, TLS, etc.
	return asynq.RedisClientOpt{
		Addr: conf.Redis.Endpoint,
	}
}

// newAsynqClient returns a new [asynq.Client] from the given config.
func newAsynqClient(conf *config.Config) *asynq.Client {
	return asynq.NewClient(newRedisClientOpt(conf))
}

// newInspector returns a new [asynq.Inspector] from the given config.
func newInspector(conf *config.Config) *asynq.Inspector {
	return asynq.NewInspector(newRedisClientOpt(conf))
}

// newScheduler creates a new [asynq.Scheduler] from the given config.
func newScheduler(conf *config.Config) *asynq.Scheduler {
	// TODO: Logger, log level, etc.
	preEnqueueFunc := func(t *asynq.Task, _ []asynq.Option) {
		slog.Info("enqueueing task", "name", t.Type())
	}

	opts := &asynq.SchedulerOpts{
		PreEnqueueFunc: preEnqueueFunc,
	}

	return asynq.NewScheduler(newRedisClientOpt(conf), opts)
}

// newDB returns a new [bun.DB] database from the given config.
func newDB(conf *config.Config) *bun.DB {
	db, err := dbutils.NewFromConfig(conf.Database)
	if err != nil {
		slog.Error("cannot create database connection", "reason", err)
		os.Exit(1)
	}
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(conf.Debug)))

	return db
}

// newMigrator returns a new [migrate.Migrator] for the given database. By
// default it uses the bundled migrations, unless an alternate migration
// directory has been configured.
func newMigrator(conf *config.Config, db *bun.DB) (*migrate.Migrator, error) {
	m := migrations.Migrations
	if conf.Database.MigrationDirectory != "" {
		m = migrate.NewMigrations(migrate.WithMigrationsDirectory(conf.Database.MigrationDirectory))
		if err := m.Discover(os.DirFS(conf.Database.MigrationDirectory)); err != nil {
			return nil, err
		}
	}

	return migrate.NewMigrator(db, m), nil
}

// newTableWriter creates a new [tablewriter.Table] with the given headers,
// which writes to the given [io.Writer].
func newTableWriter(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(w)
	table.Header(headers)

	return table
}
