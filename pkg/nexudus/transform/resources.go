// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/google/uuid"

	"github.com/flexspace/warehouse/pkg/nexudus/api"
	"github.com/flexspace/warehouse/pkg/nexudus/models"
)

// Resource transforms a raw bookable resource record into its silver model.
// Records without a usable Id are skipped and yield a nil model.
func Resource(payload api.Record, bronzeID int64, runID uuid.UUID) (*models.Resource, error) {
	id := asInt64(payload["Id"])
	if id == nil || *id == 0 {
		return nil, nil
	}

	item := &models.Resource{
		SourceID:         *id,
		BronzeID:         bronzeID,
		SyncRunID:        runID,
		LocationSourceID: asInt64(payload["BusinessId"]),
		NexudusUUID:      asString(payload["UniqueId"]),
		Name:             asString(payload["Name"]),
		Description:      asString(payload["Description"]),
		ResourceTypeID:   asInt64(payload["ResourceTypeId"]),
		ResourceTypeName: asString(payload["ResourceTypeName"]),
		GroupID:          asInt64(payload["GroupId"]),
		GroupName:        asString(payload["GroupName"]),
		Visible:          asFlag(payload["Visible"]),
		Online:           asFlag(payload["Online"]),
		VisibleToOthers:  asFlag(payload["VisibleToOthers"]),
		Available:        asFlag(payload["Available"]),
		Capacity:         asInt64(payload["Capacity"]),
		Size:             asFloat(payload["Size"]),
		FloorNumber:      asInt64(payload["FloorNumber"]),
		Accessible:       asFlag(payload["Accessible"]),
		CreatedOn:        asTime(payload["CreatedOn"]),
		UpdatedOn:        asTime(payload["UpdatedOn"]),
	}

	return item, nil
}
