// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	_ "github.com/flexspace/warehouse/pkg/common/models"
	_ "github.com/flexspace/warehouse/pkg/common/tasks"
	_ "github.com/flexspace/warehouse/pkg/meta/models"
	_ "github.com/flexspace/warehouse/pkg/nexudus/models"
	_ "github.com/flexspace/warehouse/pkg/nexudus/tasks"
)
