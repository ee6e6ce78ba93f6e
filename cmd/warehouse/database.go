// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

// withMigrator wraps a subcommand action with database and migrator setup.
// The database connection is closed once the action returns.
func withMigrator(action func(ctx *cli.Context, m *migrate.Migrator) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		conf := getConfig(ctx)
		db := newDB(conf)
		defer db.Close() // nolint: errcheck

		migrator, err := newMigrator(conf, db)
		if err != nil {
			return err
		}

		return action(ctx, migrator)
	}
}

// withLockedMigrator wraps a subcommand action the same way as [withMigrator]
// does, and also acquires the migration lock for the duration of the action.
func withLockedMigrator(action func(ctx *cli.Context, m *migrate.Migrator) error) cli.ActionFunc {
	return withMigrator(func(ctx *cli.Context, m *migrate.Migrator) error {
		if err := m.Lock(ctx.Context); err != nil {
			return err
		}
		defer func() {
			if err := m.Unlock(ctx.Context); err != nil {
				slog.Error("failed to unlock migrations", "error", err)
			}
		}()

		return action(ctx, m)
	})
}

// NewDatabaseCommand returns a new command for interfacing with the database.
func NewDatabaseCommand() *cli.Command {
	cmd := &cli.Command{
		Name:    "database",
		Usage:   "database operations",
		Aliases: []string{"db"},
		Before: func(ctx *cli.Context) error {
			conf := getConfig(ctx)
			return validateDBConfig(conf)
		},
		Subcommands: []*cli.Command{
			{
				Name:    "init",
				Usage:   "initialize migration tables",
				Aliases: []string{"i"},
				Action: withMigrator(func(ctx *cli.Context, m *migrate.Migrator) error {
					return m.Init(ctx.Context)
				}),
			},
			{
				Name:    "migrate",
				Usage:   "apply pending migrations",
				Aliases: []string{"m"},
				Action: withLockedMigrator(func(ctx *cli.Context, m *migrate.Migrator) error {
					group, err := m.Migrate(ctx.Context)
					if err != nil {
						return err
					}

					if group.IsZero() {
						fmt.Println("database is up to date")
						return nil
					}

					fmt.Printf("database migrated to %s\n", group)
					return nil
				}),
			},
			{
				Name:    "rollback",
				Usage:   "rollback last migration group",
				Aliases: []string{"r"},
				Action: withLockedMigrator(func(ctx *cli.Context, m *migrate.Migrator) error {
					group, err := m.Rollback(ctx.Context)
					if err != nil {
						return err
					}

					if group.IsZero() {
						fmt.Println("there are no migration groups for rollback")
						return nil
					}

					fmt.Printf("rolled back %s\n", group)
					return nil
				}),
			},
			{
				Name:    "lock",
				Usage:   "lock migrations",
				Aliases: []string{"l"},
				Action: withMigrator(func(ctx *cli.Context, m *migrate.Migrator) error {
					return m.Lock(ctx.Context)
				}),
			},
			{
				Name:    "unlock",
				Usage:   "unlock migrations",
				Aliases: []string{"u"},
				Action: withMigrator(func(ctx *cli.Context, m *migrate.Migrator) error {
					return m.Unlock(ctx.Context)
				}),
			},
			{
				Name:    "create",
				Usage:   "create a new migration",
				Aliases: []string{"c"},
				Action: withMigrator(func(ctx *cli.Context, m *migrate.Migrator) error {
					name := strings.Join(ctx.Args().Slice(), "_")
					if name == "" {
						return errors.New("must specify migration description")
					}

					files, err := m.CreateTxSQLMigrations(ctx.Context, name)
					if err != nil {
						return err
					}

					for _, item := range files {
						fmt.Println(item.Path)
					}

					return nil
				}),
			},
			{
				Name:    "status",
				Usage:   "display migration status",
				Aliases: []string{"s"},
				Action: withMigrator(func(ctx *cli.Context, m *migrate.Migrator) error {
					ms, err := m.MigrationsWithStatus(ctx.Context)
					if err != nil {
						return err
					}

					pending := ms.Unapplied()
					group := ms.LastGroup()

					fmt.Printf("pending migration(s): %d\n", len(pending))
					fmt.Printf("database version: %s\n", group)

					if len(pending) == 0 {
						fmt.Println("database is up-to-date")
					} else {
						fmt.Println("database is out-of-date")
					}

					return nil
				}),
			},
			{
				Name:    "applied",
				Usage:   "display the list of applied migrations",
				Aliases: []string{"a"},
				Action: withMigrator(func(ctx *cli.Context, m *migrate.Migrator) error {
					ms, err := m.MigrationsWithStatus(ctx.Context)
					if err != nil {
						return err
					}

					return renderMigrations(ms.Applied())
				}),
			},
			{
				Name:    "pending",
				Usage:   "display the list of pending migrations",
				Aliases: []string{"p"},
				Action: withMigrator(func(ctx *cli.Context, m *migrate.Migrator) error {
					ms, err := m.MigrationsWithStatus(ctx.Context)
					if err != nil {
						return err
					}

					return renderMigrations(ms.Unapplied())
				}),
			},
		},
	}

	return cmd
}

// renderMigrations renders a table with the given migration items.
func renderMigrations(items migrate.MigrationSlice) error {
	if len(items) == 0 {
		return nil
	}

	headers := []string{
		"ID",
		"NAME",
		"COMMENT",
		"GROUP-ID",
		"MIGRATED-AT",
	}
	table := newTableWriter(os.Stdout, headers)

	for _, item := range items {
		id := na
		if item.ID > 0 {
			id = strconv.FormatInt(item.ID, 10)
		}

		groupID := na
		if item.GroupID > 0 {
			groupID = strconv.FormatInt(item.GroupID, 10)
		}

		row := []string{
			id,
			item.Name,
			item.Comment,
			groupID,
			timeOrNA(item.MigratedAt),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}

	return table.Render()
}
