package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
)

// --- Enumerations ---

// Event types.
const (
	EventTypeHoliday = "holiday"
	EventTypePromo   = "promo"
	EventTypeCustom  = "custom"
)

// Event modes. Flag events only record a training signal; uplift events also
// adjust displayed forecasts.
const (
	EventModeFlag   = "flag"
	EventModeUplift = "uplift"
)

// Historical comparison methods.
const (
	ComparisonCalendar  = "calendar"
	ComparisonSameEvent = "same_event"
)

// UpliftPct bounds accepted at the API boundary.
const (
	MinUpliftPct = -100
	MaxUpliftPct = 500
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	OrgID  string `json:"orgId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Core Models ---

// Organization is the tenant boundary; every other record belongs to one.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timezone  *string   `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Outlet represents a single retail or production location.
type Outlet struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	City      *string   `json:"city,omitempty"`
	Format    *string   `json:"format,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category groups SKUs for filtering and event scoping.
type Category struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SKU is a sellable product. MinQuantity is the minimum order floor applied
// after uplift adjustment; IsNewProduct keeps a SKU out of filter lists until
// it has forecast history.
type SKU struct {
	ID           string          `json:"id"`
	OrgID        string          `json:"org_id"`
	Name         string          `json:"name"`
	CategoryID   *string         `json:"category_id,omitempty"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	MinQuantity  int             `json:"min_quantity"`
	IsNewProduct bool            `json:"is_new_product"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Event is a demand-affecting period (holiday, promotion, or custom occasion).
// Dates are ISO 8601 strings; comparing them lexically is equivalent to
// chronological order and the engine relies on that. Nil scope fields impose
// no constraint on that dimension.
type Event struct {
	ID               string  `json:"id"`
	OrgID            string  `json:"org_id"`
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	ScopeOutletID    *string `json:"scope_outlet_id,omitempty"`
	ScopeCategoryID  *string `json:"scope_category_id,omitempty"`
	ScopeSKUID       *string `json:"scope_sku_id,omitempty"`
	Mode             string  `json:"mode"`
	UpliftPct        int     `json:"uplift_pct"`
	Enabled          bool    `json:"enabled"`
	ComparisonMethod string  `json:"comparison_method"`

	// Explicit prior-year occurrence ranges, used only for same_event comparison
	// (e.g., lunar-calendar holidays that do not repeat on the same date).
	HistoricalLYStartDate  *string `json:"historical_ly_start_date,omitempty"`
	HistoricalLYEndDate    *string `json:"historical_ly_end_date,omitempty"`
	HistoricalLY2StartDate *string `json:"historical_ly2_start_date,omitempty"`
	HistoricalLY2EndDate   *string `json:"historical_ly2_end_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- API Request/Response Structs ---

// EventRequest defines the body for creating or updating an event.
type EventRequest struct {
	Name                   string  `json:"name"`
	Type                   string  `json:"type"`
	StartDate              string  `json:"startDate"`
	EndDate                string  `json:"endDate"`
	ScopeOutletID          *string `json:"scopeOutletId,omitempty"`
	ScopeCategoryID        *string `json:"scopeCategoryId,omitempty"`
	ScopeSKUID             *string `json:"scopeSkuId,omitempty"`
	Mode                   string  `json:"mode"`
	UpliftPct              int     `json:"upliftPct"`
	Enabled                *bool   `json:"enabled,omitempty"`
	ComparisonMethod       string  `json:"comparisonMethod"`
	HistoricalLYStartDate  *string `json:"historicalLyStartDate,omitempty"`
	HistoricalLYEndDate    *string `json:"historicalLyEndDate,omitempty"`
	HistoricalLY2StartDate *string `json:"historicalLy2StartDate,omitempty"`
	HistoricalLY2EndDate   *string `json:"historicalLy2EndDate,omitempty"`
}

// InviteUserRequest defines the body for inviting a new user into the org.
type InviteUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateOrganizationRequest defines the body for renaming the organization.
type UpdateOrganizationRequest struct {
	Name     string  `json:"name"`
	Timezone *string `json:"timezone,omitempty"`
}

// CommentaryRequest asks for an AI narrative over a filtered forecast window.
type CommentaryRequest struct {
	OutletID   string `json:"outletId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	SKUID      string `json:"skuId,omitempty"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// --- Paginated Responses ---

// Pagination details for paginated responses.
type Pagination struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// PaginatedUsersResponse is the generic structure for paginated users.
type PaginatedUsersResponse struct {
	Data       []User     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PaginatedEventsResponse for the admin events list.
type PaginatedEventsResponse struct {
	Data       []Event    `json:"data"`
	Pagination Pagination `json:"pagination"`
}
