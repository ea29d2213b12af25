// Package respond renders the answer to a parsed admin query. Every intent
// has exactly one handler; handlers only read their inputs and propose
// actions for the caller to execute.
package respond

import (
	"fmt"
	"time"

	"storefront-admin/internal/adminquery/intent"
	"storefront-admin/internal/adminquery/stats"
	"storefront-admin/internal/models"
)

type Kind string

const (
	KindText  Kind = "text"
	KindStats Kind = "stats"
	KindTable Kind = "table"
	KindChart Kind = "chart"
)

type ActionKind string

const (
	ActionNavigate ActionKind = "navigate"
	ActionFilter   ActionKind = "filter"
	ActionExport   ActionKind = "export"
	ActionCreate   ActionKind = "create"
	ActionUpdate   ActionKind = "update"
	ActionDelete   ActionKind = "delete"
	ActionConfirm  ActionKind = "confirm"
)

// Navigation targets. They are opaque route identifiers for the caller.
const (
	TargetDashboard  = "/admin"
	TargetProducts   = "/admin/products"
	TargetNewProduct = "/admin/products/new"
	TargetOrders     = "/admin/orders"
	TargetMessages   = "/admin/messages"
	TargetDiscounts  = "/admin/discount-codes"
	TargetNewCode    = "/admin/discount-codes/new"
	TargetAnalytics  = "/admin/analytics"
)

// Operations carried in confirm action data.
const (
	OpCreateDiscount = "create_discount"
	OpUpdateDiscount = "update_discount"
	OpDeleteDiscount = "delete_discount"
	OpBulk           = "bulk"
)

// Export types carried in export action data.
const (
	ExportProducts      = "products"
	ExportOrders        = "orders"
	ExportMessages      = "messages"
	ExportDiscountCodes = "discount_codes"
)

type Action struct {
	Label  string                 `json:"label"`
	Kind   ActionKind             `json:"kind"`
	Target string                 `json:"target,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

type GeneratedResponse struct {
	Content string      `json:"content"`
	Kind    Kind        `json:"kind"`
	Payload interface{} `json:"payload,omitempty"`
	Actions []Action    `json:"actions"`
}

// request is the input of one handler.
type request struct {
	query    intent.ParsedQuery
	stats    stats.StatsSnapshot
	catalog  []models.CatalogItem
	orders   []models.Order
	messages []models.Message
	codes    []models.DiscountCode
	ar       bool
	now      time.Time
}

type handler func(r *request) GeneratedResponse

var handlers = map[intent.IntentType]handler{
	intent.CatalogCount:      catalogCount,
	intent.CatalogSearch:     catalogSearch,
	intent.CatalogStats:      catalogStats,
	intent.CatalogLowStock:   catalogLowStock,
	intent.CatalogOutOfStock: catalogOutOfStock,
	intent.CatalogBestSeller: catalogBestSellers,
	intent.CatalogByCategory: catalogByCategory,
	intent.CatalogAdd:        catalogAdd,
	intent.CatalogExport:     catalogExport,

	intent.OrderCount:   orderCount,
	intent.OrderSearch:  orderSearch,
	intent.OrderStats:   orderStats,
	intent.OrderPending: orderPending,
	intent.OrderRecent:  orderRecent,
	intent.OrderRevenue: orderRevenue,
	intent.OrderExport:  orderExport,

	intent.MessageCount:  messageCount,
	intent.MessageSearch: messageSearch,
	intent.MessageStats:  messageStats,
	intent.MessageUnread: messageUnread,
	intent.MessageUrgent: messageUrgent,
	intent.MessageExport: messageExport,

	intent.DiscountCount:    discountCount,
	intent.DiscountSearch:   discountSearch,
	intent.DiscountStats:    discountStats,
	intent.DiscountActive:   discountActive,
	intent.DiscountExpired:  discountExpired,
	intent.DiscountUnused:   discountUnused,
	intent.DiscountMostUsed: discountMostUsed,
	intent.DiscountCreate:   discountCreate,
	intent.DiscountUpdate:   discountUpdate,
	intent.DiscountDelete:   discountDelete,
	intent.DiscountExport:   discountExport,

	intent.BulkOperation:   bulkOperation,
	intent.AnalyticsTrend:  analyticsTrend,
	intent.SalesReport:     salesReport,
	intent.InventoryReport: inventoryReport,
	intent.Overview:        overview,
	intent.Revenue:         revenue,
	intent.Unknown:         help,
}

func init() {
	for _, it := range intent.All() {
		if _, ok := handlers[it]; !ok {
			panic(fmt.Sprintf("respond: no handler for intent %q", it))
		}
	}
}

// Synthesize renders the response for q. The record collections are the
// ones already narrowed by the query's filters and search term; s is the
// snapshot of the whole store. The snapshot time is used as "now".
func Synthesize(q intent.ParsedQuery, s stats.StatsSnapshot, catalog []models.CatalogItem, orders []models.Order, messages []models.Message, codes []models.DiscountCode, rightToLeft bool) GeneratedResponse {
	r := &request{
		query:    q,
		stats:    s,
		catalog:  catalog,
		orders:   orders,
		messages: messages,
		codes:    codes,
		ar:       rightToLeft,
		now:      s.GeneratedAt,
	}

	h, ok := handlers[q.Type]
	if !ok {
		h = help
	}
	resp := h(r)
	if resp.Actions == nil {
		resp.Actions = []Action{}
	}
	return resp
}

func (r *request) filtered() bool {
	return r.query.Filters != nil || r.query.SearchTerm != ""
}

func (r *request) navigate(label, target string) Action {
	return Action{Label: label, Kind: ActionNavigate, Target: target}
}

// navigateFiltered carries the query filters so the caller can open the
// list pre-filtered.
func (r *request) navigateFiltered(label, target string) Action {
	a := r.navigate(label, target)
	data := map[string]interface{}{}
	if r.query.Filters != nil {
		data["filters"] = r.query.Filters
	}
	if r.query.SearchTerm != "" {
		data["search"] = r.query.SearchTerm
	}
	if len(data) > 0 {
		a.Data = data
	}
	return a
}

func (r *request) exportAction(exportType string, items interface{}) Action {
	return Action{
		Label: r.t("Export CSV", "تصدير CSV"),
		Kind:  ActionExport,
		Data:  map[string]interface{}{"type": exportType, "items": items},
	}
}

// confirmPair proposes op with the given data plus a matching cancel.
func (r *request) confirmPair(label, op string, data map[string]interface{}) []Action {
	confirm := map[string]interface{}{"operation": op, "confirmed": true}
	for k, v := range data {
		confirm[k] = v
	}
	return []Action{
		{Label: label, Kind: ActionConfirm, Data: confirm},
		{Label: r.t("Cancel", "إلغاء"), Kind: ActionConfirm, Data: map[string]interface{}{"operation": op, "confirmed": false}},
	}
}
