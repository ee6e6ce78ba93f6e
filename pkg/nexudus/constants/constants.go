// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package constants provides definitions of constants, which are used by the
// various Nexudus packages.
package constants

// SourceName is the name of the upstream source system, as recorded in run
// records and error records.
const SourceName = "nexudus"

// Entity names, as recorded in run records.
const (
	// EntityLocations is the name of the locations entity.
	EntityLocations = "locations"

	// EntityLocationHours is the name of the weekly opening hours
	// satellite of the locations entity.
	EntityLocationHours = "location_hours"

	// EntityProducts is the name of the products entity.
	EntityProducts = "products"

	// EntityContracts is the name of the contracts entity.
	EntityContracts = "contracts"

	// EntityResources is the name of the resources entity.
	EntityResources = "resources"

	// EntityExtraServices is the name of the extra services entity.
	EntityExtraServices = "extra_services"
)

// Upstream API paths for the entity endpoints.
const (
	// LocationsPath is the listing endpoint for locations.
	LocationsPath = "sys/businesses"

	// ProductsPath is the listing endpoint for products.
	ProductsPath = "sys/floorplandesks"

	// ContractsPath is the listing endpoint for contracts.
	ContractsPath = "billing/coworkercontracts"

	// ResourcesPath is the endpoint for fetching a single resource by id.
	ResourcesPath = "spaces/resources"

	// ExtraServicesPath is the listing endpoint for extra services.
	ExtraServicesPath = "billing/extraservices"
)
