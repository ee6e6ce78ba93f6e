// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/flexspace/warehouse/pkg/core/config"
)

// ErrInvalidDSN error is returned, when the DSN configuration is incorrect, or
// empty.
var ErrInvalidDSN = errors.New("invalid or missing database configuration")

const (
	// readyAttempts is the number of times the database is pinged before
	// giving up, when waiting for it to become ready.
	readyAttempts = 3

	// readyDelay is the delay between ping attempts.
	readyDelay = 5 * time.Second
)

// NewFromConfig creates a new [bun.DB] based on the provided
// [config.DatabaseConfig] spec.
func NewFromConfig(conf config.DatabaseConfig) (*bun.DB, error) {
	if conf.DSN == "" {
		return nil, ErrInvalidDSN
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(conf.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())

	return db, nil
}

// WaitReady pings the database until it accepts connections.
//
// Connection establishment is retried a fixed number of times with a fixed
// delay between attempts, since the database may be auto-suspended and needs
// a moment to resume on first contact. Only the initial login is retried
// here; query execution errors are never retried.
func WaitReady(ctx context.Context, db *bun.DB) error {
	var err error
	for attempt := 1; attempt <= readyAttempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}

		if attempt == readyAttempts {
			break
		}

		slog.Warn(
			"database not ready",
			"attempt", attempt,
			"retry_in", readyDelay,
			"reason", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readyDelay):
		}
	}

	return fmt.Errorf("database did not become ready after %d attempts: %w", readyAttempts, err)
}
