package intent

import (
	"strings"

	kw "storefront-admin/internal/adminquery/keywords"
)

// rule is one step of the classification decision list. match receives the
// normalized query text.
type rule struct {
	name  string
	match func(text string) (Classification, bool)
}

// rules are evaluated top to bottom and the first match wins. The order is
// significant: an export request mentioning "how many" is still an export.
var rules = []rule{
	{"export", matchExport},
	{"bulk", matchBulk},
	{"analytics", matchAnalytics},
	{"add_product", matchAddProduct},
	{"discount_mutation", matchDiscountMutation},
	{"report", matchReport},
	{"overview", matchOverview},
	{"discounts", matchDiscounts},
	{"catalog", matchCatalog},
	{"orders", matchOrders},
	{"messages", matchMessages},
	{"revenue", matchRevenue},
}

// Classify maps query text to an intent and a confidence score.
func Classify(text string) Classification {
	c, _ := classify(text)
	return c
}

// classify also returns the name of the rule that matched, for logging.
func classify(text string) (Classification, string) {
	if strings.TrimSpace(text) == "" {
		return Classification{Type: Unknown, Confidence: ConfidenceNone}, ""
	}

	normalized := kw.Normalize(text)
	for _, r := range rules {
		if c, ok := r.match(normalized); ok {
			return c, r.name
		}
	}
	return Classification{Type: Unknown, Confidence: ConfidenceNone}, ""
}

func hit(t IntentType, confidence int) (Classification, bool) {
	return Classification{Type: t, Confidence: confidence}, true
}

// entityOf resolves the entity a query talks about using the fixed entity
// precedence: discount codes, catalog, orders, messages.
func entityOf(text string) Entity {
	switch {
	case kw.Discounts.In(text):
		return EntityDiscounts
	case kw.Catalog.In(text):
		return EntityCatalog
	case kw.Orders.In(text):
		return EntityOrders
	case kw.Messages.In(text):
		return EntityMessages
	default:
		return EntityNone
	}
}

func matchExport(text string) (Classification, bool) {
	if !kw.Export.In(text) {
		return Classification{}, false
	}
	switch entityOf(text) {
	case EntityDiscounts:
		return hit(DiscountExport, ConfidenceExact)
	case EntityOrders:
		return hit(OrderExport, ConfidenceExact)
	case EntityMessages:
		return hit(MessageExport, ConfidenceExact)
	default:
		return hit(CatalogExport, ConfidenceExact)
	}
}

func matchBulk(text string) (Classification, bool) {
	if !kw.Bulk.In(text) {
		return Classification{}, false
	}
	return hit(BulkOperation, ConfidenceExact)
}

func matchAnalytics(text string) (Classification, bool) {
	if !kw.Analytics.In(text) {
		return Classification{}, false
	}
	return hit(AnalyticsTrend, ConfidenceMatch)
}

func matchAddProduct(text string) (Classification, bool) {
	if !kw.AddProduct.In(text) {
		return Classification{}, false
	}
	return hit(CatalogAdd, ConfidenceExact)
}

func matchDiscountMutation(text string) (Classification, bool) {
	if !kw.Discounts.In(text) {
		return Classification{}, false
	}
	switch {
	case kw.Create.In(text):
		return hit(DiscountCreate, ConfidenceExact)
	case kw.Update.In(text):
		return hit(DiscountUpdate, ConfidenceExact)
	case kw.Delete.In(text):
		return hit(DiscountDelete, ConfidenceExact)
	}
	return Classification{}, false
}

func matchReport(text string) (Classification, bool) {
	if !kw.Report.In(text) {
		return Classification{}, false
	}
	if kw.Catalog.In(text) {
		return hit(InventoryReport, ConfidenceMatch)
	}
	return hit(SalesReport, ConfidenceMatch)
}

func matchOverview(text string) (Classification, bool) {
	if !kw.Overview.In(text) {
		return Classification{}, false
	}
	return hit(Overview, ConfidenceMatch)
}

func matchDiscounts(text string) (Classification, bool) {
	if !kw.Discounts.In(text) {
		return Classification{}, false
	}
	switch {
	case kw.Expired.In(text):
		return hit(DiscountExpired, ConfidenceMatch)
	case kw.Unused.In(text):
		return hit(DiscountUnused, ConfidenceMatch)
	case kw.Best.In(text):
		return hit(DiscountMostUsed, ConfidenceMatch)
	case kw.Active.In(text) && !kw.Inactive.In(text):
		return hit(DiscountActive, ConfidenceMatch)
	case kw.Count.In(text):
		return hit(DiscountCount, ConfidenceMatch)
	case kw.Stats.In(text):
		return hit(DiscountStats, ConfidenceMatch)
	}
	return hit(DiscountSearch, ConfidenceFallback)
}

func matchCatalog(text string) (Classification, bool) {
	if !kw.Catalog.In(text) {
		return Classification{}, false
	}
	switch {
	case kw.OutOfStock.In(text):
		return hit(CatalogOutOfStock, ConfidenceMatch)
	case kw.LowStock.In(text):
		return hit(CatalogLowStock, ConfidenceMatch)
	case kw.Best.In(text):
		return hit(CatalogBestSeller, ConfidenceMatch)
	case kw.Count.In(text):
		return hit(CatalogCount, ConfidenceMatch)
	case kw.Stats.In(text):
		return hit(CatalogStats, ConfidenceMatch)
	}
	if _, ok := kw.Categories.Match(text); ok {
		return hit(CatalogByCategory, ConfidenceMatch)
	}
	return hit(CatalogSearch, ConfidenceFallback)
}

func matchOrders(text string) (Classification, bool) {
	if !kw.Orders.In(text) {
		return Classification{}, false
	}
	switch {
	case kw.Count.In(text):
		return hit(OrderCount, ConfidenceMatch)
	case kw.Stats.In(text):
		return hit(OrderStats, ConfidenceMatch)
	case kw.Revenue.In(text):
		return hit(OrderRevenue, ConfidenceMatch)
	case kw.Pending.In(text):
		return hit(OrderPending, ConfidenceMatch)
	case mentionsTimeWindow(text) || kw.Recent.In(text):
		return hit(OrderRecent, ConfidenceMatch)
	}
	return hit(OrderSearch, ConfidenceFallback)
}

func matchMessages(text string) (Classification, bool) {
	if !kw.Messages.In(text) {
		return Classification{}, false
	}
	switch {
	case kw.Unread.In(text):
		return hit(MessageUnread, ConfidenceMatch)
	case kw.Urgent.In(text):
		return hit(MessageUrgent, ConfidenceMatch)
	case kw.Count.In(text):
		return hit(MessageCount, ConfidenceMatch)
	case kw.Stats.In(text):
		return hit(MessageStats, ConfidenceMatch)
	}
	return hit(MessageSearch, ConfidenceFallback)
}

func matchRevenue(text string) (Classification, bool) {
	if !kw.Revenue.In(text) {
		return Classification{}, false
	}
	return hit(Revenue, ConfidenceMatch)
}

func mentionsTimeWindow(text string) bool {
	return kw.Today.In(text) || kw.Week.In(text) || kw.Month.In(text) || kw.Year.In(text)
}
