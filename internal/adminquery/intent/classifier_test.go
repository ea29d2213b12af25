package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		want       IntentType
		confidence int
	}{
		{"catalog count", "how many products?", CatalogCount, ConfidenceMatch},
		{"catalog count with item synonym", "count the items in stock", CatalogCount, ConfidenceMatch},
		{"export orders", "export orders to csv", OrderExport, ConfidenceExact},
		{"export outranks count", "how many orders? export them", OrderExport, ConfidenceExact},
		{"export defaults to catalog", "export", CatalogExport, ConfidenceExact},
		{"bulk", "bulk deactivate products", BulkOperation, ConfidenceExact},
		{"analytics", "show sales trend", AnalyticsTrend, ConfidenceMatch},
		{"add product", "add a new product", CatalogAdd, ConfidenceExact},
		{"create discount", "create discount code SAVE10 10% off", DiscountCreate, ConfidenceExact},
		{"update discount", "deactivate discount code WINTER24", DiscountUpdate, ConfidenceExact},
		{"delete discount", "delete coupon SUMMER", DiscountDelete, ConfidenceExact},
		{"sales report", "sales report", SalesReport, ConfidenceMatch},
		{"inventory report", "inventory report for products", InventoryReport, ConfidenceMatch},
		{"overview", "store overview", Overview, ConfidenceMatch},
		{"expired discounts", "expired discount codes", DiscountExpired, ConfidenceMatch},
		{"unused discounts", "unused coupons", DiscountUnused, ConfidenceMatch},
		{"most used discounts", "most used discount codes", DiscountMostUsed, ConfidenceMatch},
		{"active discounts", "active discount codes", DiscountActive, ConfidenceMatch},
		{"discount stats", "discount codes stats", DiscountStats, ConfidenceMatch},
		{"discount fallback", "coupon SAVE10", DiscountSearch, ConfidenceFallback},
		{"out of stock", "out of stock products", CatalogOutOfStock, ConfidenceMatch},
		{"low stock", "products running low", CatalogLowStock, ConfidenceMatch},
		{"best sellers", "best selling products", CatalogBestSeller, ConfidenceMatch},
		{"by category", "electronics products", CatalogByCategory, ConfidenceMatch},
		{"catalog fallback", "find product iphone", CatalogSearch, ConfidenceFallback},
		{"order stats", "order statistics", OrderStats, ConfidenceMatch},
		{"order revenue", "order revenue", OrderRevenue, ConfidenceMatch},
		{"pending orders", "pending orders", OrderPending, ConfidenceMatch},
		{"recent orders", "orders this week", OrderRecent, ConfidenceMatch},
		{"order fallback", "find order 1234", OrderSearch, ConfidenceFallback},
		{"unread messages", "unread messages?", MessageUnread, ConfidenceMatch},
		{"urgent messages", "urgent messages", MessageUrgent, ConfidenceMatch},
		{"message stats", "message stats", MessageStats, ConfidenceMatch},
		{"revenue", "total revenue this month", Revenue, ConfidenceMatch},
		{"arabic unread with article", "الرسائل غير المقروءة", MessageUnread, ConfidenceMatch},
		{"arabic low stock with pronoun suffix", "منتجات مخزونها منخفض", CatalogLowStock, ConfidenceMatch},
		{"arabic low stock adjective first", "المنتجات منخفضة المخزون", CatalogLowStock, ConfidenceMatch},
		{"arabic discount plural", "كم عدد الخصومات", DiscountCount, ConfidenceMatch},
		{"no match", "what's the weather like", Unknown, ConfidenceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.confidence, got.Confidence)
		})
	}
}

func TestClassify_Arabic(t *testing.T) {
	tests := []struct {
		text string
		want IntentType
	}{
		{"كم عدد المنتجات؟", CatalogCount},
		{"الطلبات المعلقة", OrderPending},
		{"رسائل غير مقروءة", MessageUnread},
		{"تصدير الطلبات", OrderExport},
		{"أكواد الخصم المنتهية", DiscountExpired},
		{"كم عدد الطلبات؟", OrderCount},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text).Type)
		})
	}
}

func TestClassify_EmptyInput(t *testing.T) {
	for _, text := range []string{"", " ", "\t\n  "} {
		got := Classify(text)
		assert.Equal(t, Unknown, got.Type)
		assert.Equal(t, ConfidenceNone, got.Confidence)
	}
}

func TestClassify_CountNotMatchedInsideDiscount(t *testing.T) {
	c, rule := classify("discount codes stats")
	assert.Equal(t, DiscountStats, c.Type)
	assert.Equal(t, "discounts", rule)
}

func TestClassify_ReturnsKnownIntent(t *testing.T) {
	known := make(map[IntentType]bool)
	for _, it := range All() {
		known[it] = true
	}
	for _, text := range []string{"orders", "hello", "كم", "bulk", "report", "export messages"} {
		assert.True(t, known[Classify(text).Type], text)
	}
}

func TestIntentType_Entity(t *testing.T) {
	all := All()
	assert.Len(t, all, 40)

	crossEntity := map[IntentType]bool{
		BulkOperation: true, AnalyticsTrend: true, Overview: true, Unknown: true,
	}
	for _, it := range all {
		if crossEntity[it] {
			assert.Equal(t, EntityNone, it.Entity(), it)
			continue
		}
		assert.NotEqual(t, EntityNone, it.Entity(), it)
	}

	assert.Equal(t, EntityCatalog, InventoryReport.Entity())
	assert.Equal(t, EntityOrders, SalesReport.Entity())
	assert.Equal(t, EntityOrders, Revenue.Entity())
}
