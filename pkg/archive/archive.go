// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package archive stores snapshots of raw Nexudus records in an S3 bucket.
//
// Snapshots are stored under date-partitioned keys for cheap, durable
// historical retention. They are written next to the bronze capture and are
// never read back by the sync itself.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/constants"
	"github.com/flexspace/warehouse/pkg/utils/ptr"
)

// ObjectAPI is the subset of the S3 client used by the [Archiver].
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Default is the archiver used by the collection tasks. It remains nil when
// no snapshot bucket is configured, in which case archiving is a no-op.
var Default *Archiver

// SetDefault sets the default archiver used by the collection tasks.
func SetDefault(a *Archiver) {
	Default = a
}

// Archiver writes snapshots of raw API records into an S3 bucket.
//
// Key format:
//
//	<prefix>/nexudus/<entity>/<yyyy>/<mm>/<dd>/<run_id>.json
type Archiver struct {
	client ObjectAPI
	bucket string
	prefix string
}

// New creates a new [Archiver], which writes snapshots into the given
// bucket. The key prefix may be empty.
func New(client ObjectAPI, bucket string, prefix string) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// envelope is the payload stored for each snapshot object.
type envelope struct {
	Source        string       `json:"source"`
	Entity        string       `json:"entity"`
	RunID         string       `json:"run_id"`
	SnapshotAtUTC string       `json:"snapshot_at_utc"`
	RowCount      int          `json:"row_count"`
	Records       []api.Record `json:"records"`
}

// Snapshot writes the given records through the [Default] archiver and
// returns the object key. It is a no-op when no archiver is configured.
func Snapshot(ctx context.Context, entity string, runID uuid.UUID, records []api.Record) (string, error) {
	if Default == nil {
		return "", nil
	}

	return Default.Snapshot(ctx, entity, runID, records)
}

// Snapshot writes a snapshot object with the given records and returns the
// object key.
func (a *Archiver) Snapshot(ctx context.Context, entity string, runID uuid.UUID, records []api.Record) (string, error) {
	now := time.Now().UTC()
	key := path.Join(
		a.prefix,
		constants.SourceName,
		entity,
		now.Format("2006/01/02"),
		runID.String()+".json",
	)

	body, err := json.Marshal(envelope{
		Source:        constants.SourceName,
		Entity:        entity,
		RunID:         runID.String(),
		SnapshotAtUTC: now.Format(time.RFC3339),
		RowCount:      len(records),
		Records:       records,
	})
	if err != nil {
		return "", err
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      ptr.To(a.bucket),
		Key:         ptr.To(key),
		Body:        bytes.NewReader(body),
		ContentType: ptr.To("application/json; charset=utf-8"),
		Metadata: map[string]string{
			"source":        constants.SourceName,
			"entity":        entity,
			"run-id":        runID.String(),
			"row-count":     strconv.Itoa(len(records)),
			"snapshot-date": now.Format(time.DateOnly),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive %s snapshot: %w", entity, err)
	}

	return key, nil
}
