// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package models

import (
	"time"

	"github.com/google/uuid"
)

// Model is the base model embedded by the typed models in this repository.
// It provides the surrogate primary key and record bookkeeping timestamps.
//
// Raw capture models do not embed it, since capture rows are append-only and
// never updated.
type Model struct {
	ID        uuid.UUID `bun:"id,pk,type:uuid,nullzero,default:uuid_generate_v4()"`
	CreatedAt time.Time `bun:"created_at,notnull,nullzero,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,nullzero,default:current_timestamp"`
}
