// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package registry

// ModelRegistry is the default registry for database models. Each model
// registers a pointer to its zero value, keyed by model name.
var ModelRegistry = New[string, any]()
