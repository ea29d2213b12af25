// Package intent turns free admin query text into a ParsedQuery: an intent
// with a confidence score, the filters mentioned in the text, an optional
// search term and, for creation requests, a structured payload.
package intent

import "time"

type IntentType string

const (
	CatalogCount      IntentType = "catalog_count"
	CatalogSearch     IntentType = "catalog_search"
	CatalogStats      IntentType = "catalog_stats"
	CatalogLowStock   IntentType = "catalog_low_stock"
	CatalogOutOfStock IntentType = "catalog_out_of_stock"
	CatalogBestSeller IntentType = "catalog_best_sellers"
	CatalogByCategory IntentType = "catalog_by_category"
	CatalogAdd        IntentType = "catalog_add"
	CatalogExport     IntentType = "catalog_export"

	OrderCount   IntentType = "order_count"
	OrderSearch  IntentType = "order_search"
	OrderStats   IntentType = "order_stats"
	OrderPending IntentType = "order_pending"
	OrderRecent  IntentType = "order_recent"
	OrderRevenue IntentType = "order_revenue"
	OrderExport  IntentType = "order_export"

	MessageCount  IntentType = "message_count"
	MessageSearch IntentType = "message_search"
	MessageStats  IntentType = "message_stats"
	MessageUnread IntentType = "message_unread"
	MessageUrgent IntentType = "message_urgent"
	MessageExport IntentType = "message_export"

	DiscountCount    IntentType = "discount_count"
	DiscountSearch   IntentType = "discount_search"
	DiscountStats    IntentType = "discount_stats"
	DiscountActive   IntentType = "discount_active"
	DiscountExpired  IntentType = "discount_expired"
	DiscountUnused   IntentType = "discount_unused"
	DiscountMostUsed IntentType = "discount_most_used"
	DiscountCreate   IntentType = "discount_create"
	DiscountUpdate   IntentType = "discount_update"
	DiscountDelete   IntentType = "discount_delete"
	DiscountExport   IntentType = "discount_export"

	BulkOperation   IntentType = "bulk_operation"
	AnalyticsTrend  IntentType = "analytics_trend"
	SalesReport     IntentType = "sales_report"
	InventoryReport IntentType = "inventory_report"
	Overview        IntentType = "overview"
	Revenue         IntentType = "revenue"
	Unknown         IntentType = "unknown"
)

var allIntents = []IntentType{
	CatalogCount, CatalogSearch, CatalogStats, CatalogLowStock, CatalogOutOfStock,
	CatalogBestSeller, CatalogByCategory, CatalogAdd, CatalogExport,
	OrderCount, OrderSearch, OrderStats, OrderPending, OrderRecent, OrderRevenue, OrderExport,
	MessageCount, MessageSearch, MessageStats, MessageUnread, MessageUrgent, MessageExport,
	DiscountCount, DiscountSearch, DiscountStats, DiscountActive, DiscountExpired,
	DiscountUnused, DiscountMostUsed, DiscountCreate, DiscountUpdate, DiscountDelete, DiscountExport,
	BulkOperation, AnalyticsTrend, SalesReport, InventoryReport, Overview, Revenue, Unknown,
}

// All returns every intent value. The returned slice is a copy.
func All() []IntentType {
	out := make([]IntentType, len(allIntents))
	copy(out, allIntents)
	return out
}

func (t IntentType) String() string {
	return string(t)
}

// Entity names the record collection an intent is about.
type Entity string

const (
	EntityCatalog   Entity = "catalog"
	EntityOrders    Entity = "orders"
	EntityMessages  Entity = "messages"
	EntityDiscounts Entity = "discounts"
	EntityNone      Entity = ""
)

func (t IntentType) Entity() Entity {
	switch t {
	case CatalogCount, CatalogSearch, CatalogStats, CatalogLowStock, CatalogOutOfStock,
		CatalogBestSeller, CatalogByCategory, CatalogAdd, CatalogExport, InventoryReport:
		return EntityCatalog
	case OrderCount, OrderSearch, OrderStats, OrderPending, OrderRecent, OrderRevenue,
		OrderExport, SalesReport, Revenue:
		return EntityOrders
	case MessageCount, MessageSearch, MessageStats, MessageUnread, MessageUrgent, MessageExport:
		return EntityMessages
	case DiscountCount, DiscountSearch, DiscountStats, DiscountActive, DiscountExpired,
		DiscountUnused, DiscountMostUsed, DiscountCreate, DiscountUpdate, DiscountDelete, DiscountExport:
		return EntityDiscounts
	default:
		return EntityNone
	}
}

// Confidence levels assigned by the classifier.
const (
	ConfidenceExact    = 95
	ConfidenceMatch    = 90
	ConfidenceFallback = 75
	ConfidenceNone     = 0
)

type Classification struct {
	Type       IntentType `json:"type"`
	Confidence int        `json:"confidence"`
}

// FilterSet holds the constraints found in a query. Every field is optional;
// an unset field means "no constraint".
type FilterSet struct {
	Status        string     `json:"status,omitempty"`
	Category      string     `json:"category,omitempty"`
	Priority      string     `json:"priority,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	PaymentStatus string     `json:"paymentStatus,omitempty"`
	DateFrom      *time.Time `json:"dateFrom,omitempty"`
	DateTo        *time.Time `json:"dateTo,omitempty"`
	MinPrice      *float64   `json:"minPrice,omitempty"`
	MaxPrice      *float64   `json:"maxPrice,omitempty"`
	IsActive      *bool      `json:"isActive,omitempty"`
	DiscountType  string     `json:"discountType,omitempty"`
	OneUserOnly   *bool      `json:"oneUserOnly,omitempty"`
}

func (f *FilterSet) empty() bool {
	return f.Status == "" && f.Category == "" && f.Priority == "" &&
		f.PaymentMethod == "" && f.PaymentStatus == "" &&
		f.DateFrom == nil && f.DateTo == nil &&
		f.MinPrice == nil && f.MaxPrice == nil &&
		f.IsActive == nil && f.DiscountType == "" && f.OneUserOnly == nil
}

// CreateDiscountPayload carries the fields of a "create discount code"
// request. Zero values mean the field was not mentioned.
type CreateDiscountPayload struct {
	Code           string  `json:"code,omitempty"`
	Type           string  `json:"type,omitempty"`
	Value          float64 `json:"value,omitempty"`
	UsageLimit     int     `json:"usageLimit,omitempty"`
	OneUserOnly    bool    `json:"oneUserOnly,omitempty"`
	MinOrderAmount float64 `json:"minOrderAmount,omitempty"`
}

// Missing lists the fields still required before the code can be created.
func (p *CreateDiscountPayload) Missing() []string {
	var missing []string
	if p.Code == "" {
		missing = append(missing, "code")
	}
	if p.Value <= 0 && p.Type != "free_shipping" {
		missing = append(missing, "value")
	}
	return missing
}

// BulkRequest describes a bulk operation over one collection. Scope, when
// set, narrows the records the operation selects.
type BulkRequest struct {
	Entity    Entity `json:"entity"`
	Operation string `json:"operation"`
	Scope     string `json:"scope,omitempty"`
}

// Bulk operations.
const (
	BulkActivate   = "activate"
	BulkDeactivate = "deactivate"
	BulkDelete     = "delete"
	BulkMarkRead   = "mark_read"
	BulkArchive    = "archive"
)

// Bulk scopes.
const (
	BulkScopeExpired    = "expired"
	BulkScopeUnused     = "unused"
	BulkScopeInactive   = "inactive"
	BulkScopeOutOfStock = "out_of_stock"
)

var bulkOperations = map[Entity][]string{
	EntityCatalog:   {BulkActivate, BulkDeactivate, BulkArchive, BulkDelete},
	EntityDiscounts: {BulkActivate, BulkDeactivate, BulkDelete},
	EntityMessages:  {BulkMarkRead, BulkArchive, BulkDelete},
}

// BulkSupported reports whether op can be applied to a whole selection of
// entity records. Orders have no bulk operations.
func BulkSupported(entity Entity, op string) bool {
	for _, o := range bulkOperations[entity] {
		if o == op {
			return true
		}
	}
	return false
}

type ParsedQuery struct {
	Type              IntentType             `json:"type"`
	Confidence        int                    `json:"confidence"`
	Filters           *FilterSet             `json:"filters,omitempty"`
	SearchTerm        string                 `json:"searchTerm,omitempty"`
	TargetCode        string                 `json:"targetCode,omitempty"`
	StructuredPayload *CreateDiscountPayload `json:"structuredPayload,omitempty"`
	Bulk              *BulkRequest           `json:"bulk,omitempty"`
}
