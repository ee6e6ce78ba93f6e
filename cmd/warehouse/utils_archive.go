// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/flexspace/warehouse/pkg/archive"
	s3clients "github.com/flexspace/warehouse/pkg/clients/s3"
	"github.com/flexspace/warehouse/pkg/core/config"
)

// errNoArchiveBucket is an error which is returned when archival is enabled
// without a configured bucket.
var errNoArchiveBucket = errors.New("no archive bucket specified")

// configureArchive creates the object store client for raw snapshot archival
// and registers the default archiver. When archival is disabled no archiver
// is registered and snapshots are not uploaded.
func configureArchive(ctx context.Context, conf *config.Config) error {
	if !conf.Archive.Enabled {
		slog.Warn("archive is not enabled, raw snapshots will not be uploaded")

		return nil
	}

	if conf.Archive.Bucket == "" {
		return errNoArchiveBucket
	}

	opts := []func(o *awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Archive.Region),
	}

	if conf.Archive.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.Archive.AccessKeyID, conf.Archive.SecretAccessKey, ""),
		))
	}

	awsConf, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return err
	}

	client := s3.NewFromConfig(awsConf, func(o *s3.Options) {
		if conf.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Archive.Endpoint)
		}
		o.UsePathStyle = conf.Archive.UsePathStyle
	})

	s3clients.SetClient(client)
	archive.SetDefault(archive.New(client, conf.Archive.Bucket, conf.Archive.Prefix))

	slog.Info(
		"configured archive",
		"bucket", conf.Archive.Bucket,
		"prefix", conf.Archive.Prefix,
		"region", conf.Archive.Region,
	)

	return nil
}
