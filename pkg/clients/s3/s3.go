// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client is the S3 client used by workers for archiving raw snapshots. It
// remains nil when the snapshot archive is not configured.
var Client *s3.Client

// SetClient shall be invoked from cli commands to set the S3 client for the
// workers.
func SetClient(c *s3.Client) {
	Client = c
}
