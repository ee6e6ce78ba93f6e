// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package models provides the models for the Nexudus entities.
//
// Each entity has two models: a bronze model, which represents the raw,
// append-only capture of an upstream record, and a silver model, which
// represents the typed, deduplicated current state of the record.
//
// Bronze models do not embed [coremodels.Model], since capture rows are
// append-only and never updated. Nullable silver columns use pointer
// fields, because for this data a zero value and an absent value are
// different facts, e.g. a price of 0 is not an unknown price.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	coremodels "github.com/flexspace/warehouse/pkg/core/models"
	"github.com/flexspace/warehouse/pkg/core/registry"
)

// Names for the various models provided by this package.
// These names are used for registering models with [registry.ModelRegistry]
const (
	BronzeLocationModelName     = "nexudus:model:bronze_location"
	BronzeProductModelName      = "nexudus:model:bronze_product"
	BronzeContractModelName     = "nexudus:model:bronze_contract"
	BronzeResourceModelName     = "nexudus:model:bronze_resource"
	BronzeExtraServiceModelName = "nexudus:model:bronze_extra_service"

	LocationModelName      = "nexudus:model:location"
	LocationHoursModelName = "nexudus:model:location_hours"
	ProductModelName       = "nexudus:model:product"
	ContractModelName      = "nexudus:model:contract"
	ResourceModelName      = "nexudus:model:resource"
	ExtraServiceModelName  = "nexudus:model:extra_service"
)

// models specifies the mapping between name and model type, which will be
// registered with [registry.ModelRegistry].
var models = map[string]any{
	BronzeLocationModelName:     &BronzeLocation{},
	BronzeProductModelName:      &BronzeProduct{},
	BronzeContractModelName:     &BronzeContract{},
	BronzeResourceModelName:     &BronzeResource{},
	BronzeExtraServiceModelName: &BronzeExtraService{},

	LocationModelName:      &Location{},
	LocationHoursModelName: &LocationHours{},
	ProductModelName:       &Product{},
	ContractModelName:      &Contract{},
	ResourceModelName:      &Resource{},
	ExtraServiceModelName:  &ExtraService{},
}

// BronzeLocation represents a raw location record captured from the
// upstream API.
type BronzeLocation struct {
	bun.BaseModel `bun:"table:bronze.nexudus_locations"`

	ID        int64           `bun:"id,pk,autoincrement"`
	SyncRunID uuid.UUID       `bun:"sync_run_id,notnull,type:uuid"`
	SourceID  int64           `bun:"source_id,notnull"`
	Payload   json.RawMessage `bun:"payload,notnull,type:jsonb"`
	SyncedAt  time.Time       `bun:"synced_at,notnull"`
}

// BronzeProduct represents a raw floor plan desk record captured from the
// upstream API.
type BronzeProduct struct {
	bun.BaseModel `bun:"table:bronze.nexudus_products"`

	ID         int64           `bun:"id,pk,autoincrement"`
	SyncRunID  uuid.UUID       `bun:"sync_run_id,notnull,type:uuid"`
	SourceID   int64           `bun:"source_id,notnull"`
	LocationID *int64          `bun:"location_id"`
	ItemType   *int64          `bun:"item_type"`
	Payload    json.RawMessage `bun:"payload,notnull,type:jsonb"`
	SyncedAt   time.Time       `bun:"synced_at,notnull"`
}

// BronzeContract represents a raw coworker contract record captured from
// the upstream API.
type BronzeContract struct {
	bun.BaseModel `bun:"table:bronze.nexudus_contracts"`

	ID         int64           `bun:"id,pk,autoincrement"`
	SyncRunID  uuid.UUID       `bun:"sync_run_id,notnull,type:uuid"`
	SourceID   int64           `bun:"source_id,notnull"`
	ProductID  *int64          `bun:"product_id"`
	LocationID *int64          `bun:"location_id"`
	Payload    json.RawMessage `bun:"payload,notnull,type:jsonb"`
	SyncedAt   time.Time       `bun:"synced_at,notnull"`
}

// BronzeResource represents a raw bookable resource record captured from
// the upstream API.
type BronzeResource struct {
	bun.BaseModel `bun:"table:bronze.nexudus_resources"`

	ID         int64           `bun:"id,pk,autoincrement"`
	SyncRunID  uuid.UUID       `bun:"sync_run_id,notnull,type:uuid"`
	SourceID   int64           `bun:"source_id,notnull"`
	LocationID *int64          `bun:"location_id"`
	Payload    json.RawMessage `bun:"payload,notnull,type:jsonb"`
	SyncedAt   time.Time       `bun:"synced_at,notnull"`
}

// BronzeExtraService represents a raw extra service record captured from
// the upstream API.
type BronzeExtraService struct {
	bun.BaseModel `bun:"table:bronze.nexudus_extra_services"`

	ID         int64           `bun:"id,pk,autoincrement"`
	SyncRunID  uuid.UUID       `bun:"sync_run_id,notnull,type:uuid"`
	SourceID   int64           `bun:"source_id,notnull"`
	LocationID *int64          `bun:"location_id"`
	Payload    json.RawMessage `bun:"payload,notnull,type:jsonb"`
	SyncedAt   time.Time       `bun:"synced_at,notnull"`
}

// Location represents the current state of a Nexudus location.
type Location struct {
	bun.BaseModel `bun:"table:silver.nexudus_locations"`
	coremodels.Model

	SourceID     int64      `bun:"source_id,notnull,unique"`
	BronzeID     int64      `bun:"bronze_id,notnull"`
	SyncRunID    uuid.UUID  `bun:"sync_run_id,notnull,type:uuid"`
	NexudusUUID  *string    `bun:"nexudus_uuid"`
	Name         string     `bun:"name,notnull"`
	WebAddress   *string    `bun:"web_address"`
	Address      *string    `bun:"address"`
	PostalCode   *string    `bun:"postal_code"`
	City         *string    `bun:"city"`
	State        *string    `bun:"state"`
	CountryName  *string    `bun:"country_name"`
	CountryID    *int64     `bun:"country_id"`
	Latitude     *float64   `bun:"latitude"`
	Longitude    *float64   `bun:"longitude"`
	Phone        *string    `bun:"phone"`
	Email        *string    `bun:"email"`
	WebContact   *string    `bun:"web_contact"`
	CurrencyCode *string    `bun:"currency_code"`
	Description  *string    `bun:"description"`
	ShortIntro   *string    `bun:"short_intro"`
	CreatedOn    *time.Time `bun:"created_on"`
	UpdatedOn    *time.Time `bun:"updated_on"`
	LastSyncedAt time.Time  `bun:"last_synced_at,notnull"`
}

// LocationHours represents the opening hours of a location for a single
// weekday. Each location has seven rows, keyed by location and day.
type LocationHours struct {
	bun.BaseModel `bun:"table:silver.nexudus_location_hours"`
	coremodels.Model

	LocationSourceID int64     `bun:"location_source_id,notnull,unique:nexudus_location_hours_key"`
	DayOfWeek        int64     `bun:"day_of_week,notnull,unique:nexudus_location_hours_key"`
	DayName          string    `bun:"day_name,notnull"`
	IsClosed         int64     `bun:"is_closed,notnull"`
	OpenTime         *int64    `bun:"open_time"`
	CloseTime        *int64    `bun:"close_time"`
	LastSyncedAt     time.Time `bun:"last_synced_at,notnull"`
}

// Product represents the current state of a Nexudus floor plan desk. All
// item types share one table: the resource_* and amenity_* columns are only
// populated for bookable rooms.
type Product struct {
	bun.BaseModel `bun:"table:silver.nexudus_products"`
	coremodels.Model

	SourceID           int64      `bun:"source_id,notnull,unique"`
	BronzeID           int64      `bun:"bronze_id,notnull"`
	SyncRunID          uuid.UUID  `bun:"sync_run_id,notnull,type:uuid"`
	ItemType           *int64     `bun:"item_type"`
	ProductTypeLabel   string     `bun:"product_type_label,notnull"`
	LocationSourceID   *int64     `bun:"location_source_id"`
	LocationName       *string    `bun:"location_name"`
	FloorPlanID        *int64     `bun:"floor_plan_id"`
	FloorPlanName      *string    `bun:"floor_plan_name"`
	Name               string     `bun:"name,notnull"`
	AreaCode           *string    `bun:"area_code"`
	Price              *float64   `bun:"price"`
	CurrencyCode       *string    `bun:"currency_code"`
	IsAvailable        int64      `bun:"is_available,notnull"`
	AvailableFrom      *time.Time `bun:"available_from"`
	AvailableTo        *time.Time `bun:"available_to"`
	CoworkerID         *int64     `bun:"coworker_id"`
	CoworkerName       *string    `bun:"coworker_name"`
	CoworkerCompany    *string    `bun:"coworker_company"`
	CoworkerEmail      *string    `bun:"coworker_email"`
	ContractIDsRaw     *string    `bun:"contract_ids_raw"`
	SizeSqm            *float64   `bun:"size_sqm"`
	CustomSizeSqm      *float64   `bun:"custom_size_sqm"`
	Capacity           *int64     `bun:"capacity"`
	SizeIsLinkedToArea *int64     `bun:"size_is_linked_to_area"`

	ResourceID         *int64  `bun:"resource_id"`
	ResourceName       *string `bun:"resource_name"`
	ResourceTypeName   *string `bun:"resource_type_name"`
	ResourceAllocation *int64  `bun:"resource_allocation"`
	ResourceShifts     *string `bun:"resource_shifts"`

	AmenityAirConditioning *int64 `bun:"amenity_air_conditioning"`
	AmenityHeating         *int64 `bun:"amenity_heating"`
	AmenityInternet        *int64 `bun:"amenity_internet"`
	AmenityLargeDisplay    *int64 `bun:"amenity_large_display"`
	AmenityNaturalLight    *int64 `bun:"amenity_natural_light"`
	AmenityWhiteboard      *int64 `bun:"amenity_whiteboard"`
	AmenitySoundproof      *int64 `bun:"amenity_soundproof"`
	AmenityQuietZone       *int64 `bun:"amenity_quiet_zone"`
	AmenityTeaCoffee       *int64 `bun:"amenity_tea_coffee"`
	AmenitySecurityLock    *int64 `bun:"amenity_security_lock"`
	AmenityCCTV            *int64 `bun:"amenity_cctv"`
	AmenityCatering        *int64 `bun:"amenity_catering"`
	AmenityConferencePhone *int64 `bun:"amenity_conference_phone"`
	AmenityProjector       *int64 `bun:"amenity_projector"`
	AmenityStandingDesk    *int64 `bun:"amenity_standing_desk"`
	AmenityDrinks          *int64 `bun:"amenity_drinks"`
	AmenityPrivacyScreen   *int64 `bun:"amenity_privacy_screen"`
	AmenityVoiceRecorder   *int64 `bun:"amenity_voice_recorder"`
	AmenityStandardPhone   *int64 `bun:"amenity_standard_phone"`
	AmenityWirelessCharger *int64 `bun:"amenity_wireless_charger"`

	CreatedOn    *time.Time `bun:"created_on"`
	UpdatedOn    *time.Time `bun:"updated_on"`
	LastSyncedAt time.Time  `bun:"last_synced_at,notnull"`
}

// Contract represents the current state of a Nexudus coworker contract.
type Contract struct {
	bun.BaseModel `bun:"table:silver.nexudus_contracts"`
	coremodels.Model

	SourceID  int64     `bun:"source_id,notnull,unique"`
	UniqueID  *string   `bun:"unique_id"`
	BronzeID  int64     `bun:"bronze_id,notnull"`
	SyncRunID uuid.UUID `bun:"sync_run_id,notnull,type:uuid"`

	Active         int64 `bun:"active,notnull"`
	Cancelled      int64 `bun:"cancelled,notnull"`
	MainContract   int64 `bun:"main_contract,notnull"`
	InPausedPeriod int64 `bun:"in_paused_period,notnull"`

	CoworkerID          *int64  `bun:"coworker_id"`
	CoworkerName        *string `bun:"coworker_name"`
	CoworkerEmail       *string `bun:"coworker_email"`
	CoworkerCompany     *string `bun:"coworker_company"`
	CoworkerBillingName *string `bun:"coworker_billing_name"`
	CoworkerType        *int64  `bun:"coworker_type"`
	CoworkerActive      *int64  `bun:"coworker_active"`

	LocationSourceID *int64  `bun:"location_source_id"`
	LocationName     *string `bun:"location_name"`

	TariffID       *int64   `bun:"tariff_id"`
	TariffName     *string  `bun:"tariff_name"`
	TariffPrice    *float64 `bun:"tariff_price"`
	CurrencyCode   *string  `bun:"currency_code"`
	NextTariffID   *int64   `bun:"next_tariff_id"`
	NextTariffName *string  `bun:"next_tariff_name"`

	FloorPlanDeskIDs   *string `bun:"floor_plan_desk_ids"`
	FloorPlanDeskNames *string `bun:"floor_plan_desk_names"`

	Price             *float64 `bun:"price"`
	PriceWithProducts *float64 `bun:"price_with_products"`
	UnitPrice         *float64 `bun:"unit_price"`
	Quantity          *int64   `bun:"quantity"`
	BillingDay        *int64   `bun:"billing_day"`

	ApplyProRating        *int64 `bun:"apply_pro_rating"`
	ProRateCancellation   *int64 `bun:"pro_rate_cancellation"`
	IncludeSignupFee      *int64 `bun:"include_signup_fee"`
	CancellationLimitDays *int64 `bun:"cancellation_limit_days"`

	StartDate        *time.Time `bun:"start_date"`
	ContractTerm     *time.Time `bun:"contract_term"`
	RenewalDate      *time.Time `bun:"renewal_date"`
	CancellationDate *time.Time `bun:"cancellation_date"`
	InvoicedPeriod   *time.Time `bun:"invoiced_period"`

	TermDurationMonths *int64 `bun:"term_duration_months"`

	Notes        *string    `bun:"notes"`
	UpdatedBy    *string    `bun:"updated_by"`
	CreatedOn    *time.Time `bun:"created_on"`
	UpdatedOn    *time.Time `bun:"updated_on"`
	LastSyncedAt time.Time  `bun:"last_synced_at,notnull"`
}

// Resource represents the current state of a Nexudus bookable resource.
type Resource struct {
	bun.BaseModel `bun:"table:silver.nexudus_resources"`
	coremodels.Model

	SourceID         int64      `bun:"source_id,notnull,unique"`
	BronzeID         int64      `bun:"bronze_id,notnull"`
	SyncRunID        uuid.UUID  `bun:"sync_run_id,notnull,type:uuid"`
	LocationSourceID *int64     `bun:"location_source_id"`
	NexudusUUID      *string    `bun:"nexudus_uuid"`
	Name             *string    `bun:"name"`
	Description      *string    `bun:"description"`
	ResourceTypeID   *int64     `bun:"resource_type_id"`
	ResourceTypeName *string    `bun:"resource_type_name"`
	GroupID          *int64     `bun:"group_id"`
	GroupName        *string    `bun:"group_name"`
	Visible          int64      `bun:"visible,notnull"`
	Online           int64      `bun:"online,notnull"`
	VisibleToOthers  int64      `bun:"visible_to_others,notnull"`
	Available        int64      `bun:"available,notnull"`
	Capacity         *int64     `bun:"capacity"`
	Size             *float64   `bun:"size"`
	FloorNumber      *int64     `bun:"floor_number"`
	Accessible       int64      `bun:"accessible,notnull"`
	CreatedOn        *time.Time `bun:"created_on"`
	UpdatedOn        *time.Time `bun:"updated_on"`
	LastSyncedAt     time.Time  `bun:"last_synced_at,notnull"`
}

// ExtraService represents the current state of a Nexudus extra service.
type ExtraService struct {
	bun.BaseModel `bun:"table:silver.nexudus_extra_services"`
	coremodels.Model

	SourceID  int64     `bun:"source_id,notnull,unique"`
	UniqueID  *string   `bun:"unique_id"`
	BronzeID  int64     `bun:"bronze_id,notnull"`
	SyncRunID uuid.UUID `bun:"sync_run_id,notnull,type:uuid"`

	LocationSourceID int64   `bun:"location_source_id,notnull"`
	Name             string  `bun:"name,notnull"`
	Description      *string `bun:"description"`

	Price                  float64  `bun:"price,notnull"`
	CurrencyCode           *string  `bun:"currency_code"`
	ChargePeriod           *int64   `bun:"charge_period"`
	CreditPrice            *float64 `bun:"credit_price"`
	FixedCostPrice         *float64 `bun:"fixed_cost_price"`
	FixedCostLengthMinutes *int64   `bun:"fixed_cost_length_minutes"`
	MaximumPrice           *float64 `bun:"maximum_price"`
	MinLengthMinutes       *int64   `bun:"min_length_minutes"`
	MaxLengthMinutes       *int64   `bun:"max_length_minutes"`

	IsDefaultPrice        int64 `bun:"is_default_price,notnull"`
	IsPrintingCredit      int64 `bun:"is_printing_credit,notnull"`
	OnlyForContacts       int64 `bun:"only_for_contacts,notnull"`
	OnlyForMembers        int64 `bun:"only_for_members,notnull"`
	ApplyChargeToVisitors int64 `bun:"apply_charge_to_visitors,notnull"`
	UsePerNightPricing    int64 `bun:"use_per_night_pricing,notnull"`

	LastMinuteAdjustmentType *int64 `bun:"last_minute_adjustment_type"`

	ApplyFrom *time.Time `bun:"apply_from"`
	ApplyTo   *time.Time `bun:"apply_to"`

	ResourceTypeNames *string `bun:"resource_type_names"`

	TaxRateID          *int64 `bun:"tax_rate_id"`
	ReducedTaxRateID   *int64 `bun:"reduced_tax_rate_id"`
	ExemptTaxRateID    *int64 `bun:"exempt_tax_rate_id"`
	FinancialAccountID *int64 `bun:"financial_account_id"`

	UpdatedBy    *string    `bun:"updated_by"`
	CreatedOn    *time.Time `bun:"created_on"`
	UpdatedOn    *time.Time `bun:"updated_on"`
	LastSyncedAt time.Time  `bun:"last_synced_at,notnull"`
}

func init() {
	// Register the models with the default registry
	for k, v := range models {
		registry.ModelRegistry.MustRegister(k, v)
	}
}
