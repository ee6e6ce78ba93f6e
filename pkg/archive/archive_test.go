// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/archive"
	"github.com/flexspace/warehouse/pkg/nexudus/api"
)

// fakeObjectAPI captures the last PutObject call.
type fakeObjectAPI struct {
	calls int
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	f.input = params
	if params.Body != nil {
		body, err := io.ReadAll(params.Body)
		if err != nil {
			return nil, err
		}
		f.body = body
	}
	if f.err != nil {
		return nil, f.err
	}

	return &s3.PutObjectOutput{}, nil
}

func TestArchiverSnapshot(t *testing.T) {
	fake := &fakeObjectAPI{}
	archiver := archive.New(fake, "warehouse-raw-snapshots", "snapshots")
	runID := uuid.New()
	records := []api.Record{
		{"Id": float64(1), "Name": "Berlin Mitte"},
		{"Id": float64(2), "Name": "Hamburg Hafen"},
	}

	key, err := archiver.Snapshot(context.Background(), "locations", runID, records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("expected 1 PutObject call, got %d", fake.calls)
	}

	datePart := time.Now().UTC().Format("2006/01/02")
	wantKey := fmt.Sprintf("snapshots/nexudus/locations/%s/%s.json", datePart, runID)
	if key != wantKey {
		t.Fatalf("want key %q, got %q", wantKey, key)
	}
	if got := *fake.input.Key; got != wantKey {
		t.Fatalf("want object key %q, got %q", wantKey, got)
	}
	if got := *fake.input.Bucket; got != "warehouse-raw-snapshots" {
		t.Fatalf("unexpected bucket %q", got)
	}
	if got := *fake.input.ContentType; !strings.HasPrefix(got, "application/json") {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := fake.input.Metadata["row-count"]; got != "2" {
		t.Fatalf("unexpected row-count metadata %q", got)
	}

	var envelope struct {
		Source        string       `json:"source"`
		Entity        string       `json:"entity"`
		RunID         string       `json:"run_id"`
		SnapshotAtUTC string       `json:"snapshot_at_utc"`
		RowCount      int          `json:"row_count"`
		Records       []api.Record `json:"records"`
	}
	if err := json.Unmarshal(fake.body, &envelope); err != nil {
		t.Fatalf("failed to unmarshal snapshot body: %v", err)
	}
	if envelope.Source != "nexudus" || envelope.Entity != "locations" {
		t.Fatalf("unexpected envelope header: %+v", envelope)
	}
	if envelope.RunID != runID.String() {
		t.Fatalf("want run id %s, got %s", runID, envelope.RunID)
	}
	if envelope.RowCount != 2 || len(envelope.Records) != 2 {
		t.Fatalf("expected 2 records, got row_count=%d len=%d", envelope.RowCount, len(envelope.Records))
	}
	if got := envelope.Records[1]["Name"]; got != "Hamburg Hafen" {
		t.Fatalf("unexpected record payload: %v", got)
	}
	if _, err := time.Parse(time.RFC3339, envelope.SnapshotAtUTC); err != nil {
		t.Fatalf("snapshot_at_utc is not RFC3339: %v", err)
	}
}

func TestArchiverSnapshotWithoutPrefix(t *testing.T) {
	fake := &fakeObjectAPI{}
	archiver := archive.New(fake, "warehouse-raw-snapshots", "")
	runID := uuid.New()

	key, err := archiver.Snapshot(context.Background(), "products", runID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(key, "nexudus/products/") {
		t.Fatalf("expected key without prefix, got %q", key)
	}
}

func TestSnapshotWithoutArchiverIsNoop(t *testing.T) {
	archive.SetDefault(nil)

	key, err := archive.Snapshot(context.Background(), "locations", uuid.New(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
}

func TestSnapshotUploadError(t *testing.T) {
	fake := &fakeObjectAPI{err: fmt.Errorf("access denied")}
	archiver := archive.New(fake, "warehouse-raw-snapshots", "")

	_, err := archiver.Snapshot(context.Background(), "contracts", uuid.New(), nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "contracts") {
		t.Fatalf("expected entity in error, got %v", err)
	}
}
