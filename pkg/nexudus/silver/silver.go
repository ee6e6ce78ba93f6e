// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package silver materializes raw Nexudus records into the typed silver
// tables.
//
// Every materializer follows the same shape. It loads the most recent
// bronze generation of each source id, transforms the payloads and upserts
// the resulting rows keyed by their natural id, so the silver tables always
// reflect the current upstream state. A record which fails to transform is
// handed to the error sink and skipped, it never aborts the step. Failures
// of the bronze read or of an upsert statement are fatal.
package silver

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/flexspace/warehouse/pkg/clients/db"
)

// BatchSize is the max number of rows upserted with a single INSERT
// statement.
const BatchSize = 100

// Stats describes the outcome of a materialization step.
type Stats struct {
	// Read is the number of bronze rows which were loaded.
	Read int64

	// Written is the number of silver rows which were upserted.
	Written int64

	// Skipped is the number of bronze rows which did not yield a silver
	// row, either because they failed to transform or because they belong
	// to an excluded business.
	Skipped int64
}

// ErrorSink receives records which could not be materialized. The run
// tracker implements it by persisting each failure as an error record.
type ErrorSink interface {
	LogError(ctx context.Context, sourceID int64, recordErr error, rawPayload []byte)
}

// latestBronzeQuery builds the query, which resolves the most recent bronze
// generation of every source id from the bronze table backing the model T.
// Append-only bronze tables may hold many generations of the same record,
// the newest capture of each source id wins.
func latestBronzeQuery[T any](items *[]T) *bun.SelectQuery {
	return db.DB.NewSelect().
		Model(items).
		DistinctOn("source_id").
		OrderExpr("source_id ASC, synced_at DESC, id DESC")
}

// latestBronze loads the most recent bronze generation of every source id.
func latestBronze[T any](ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	if err := latestBronzeQuery(&items).Scan(ctx); err != nil {
		return nil, err
	}

	return items, nil
}

// upsertBatches writes the given rows in batches of [BatchSize] rows each,
// using the insert statement built by the given query constructor. It
// returns the number of rows written before the first failure.
func upsertBatches[T any](ctx context.Context, items []T, query func(batch *[]T) *bun.InsertQuery) (int64, error) {
	var written int64
	for start := 0; start < len(items); start += BatchSize {
		batch := items[start:min(start+BatchSize, len(items))]
		out, err := query(&batch).Exec(ctx)
		if err != nil {
			return written, err
		}
		count, err := out.RowsAffected()
		if err != nil {
			return written, err
		}
		written += count
	}

	return written, nil
}
