package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-admin/internal/adminquery/intent"
	"storefront-admin/internal/models"
)

var (
	day1 = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	day3 = time.Date(2024, time.March, 20, 9, 0, 0, 0, time.UTC)
)

func testCatalog() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: "p1", Title: "Blue Mug", TitleAr: "كوب أزرق", Category: "home", Status: models.ProductStatusActive, Price: models.ScalarPrice(4.5), Stock: 10, SKU: "MUG-001", CreatedAt: day1},
		{ID: "p2", Title: "Phone Case", Category: "accessories", Status: models.ProductStatusDraft, Price: models.MultiPrice(map[string]float64{"KWD": 3, "USD": 10}), Stock: 0, Tags: []string{"iphone"}, CreatedAt: day2},
		{ID: "p3", Title: "Headphones", Description: "Wireless noise cancelling", Category: "electronics", Status: models.ProductStatusActive, Price: models.ScalarPrice(25), Stock: 3, CreatedAt: day3},
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func catalogIDs(items []models.CatalogItem) []string {
	return ids(items, func(c models.CatalogItem) string { return c.ID })
}

func TestCatalog(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		filters *intent.FilterSet
		want    []string
	}{
		{"no constraints keeps order", "", nil, []string{"p1", "p2", "p3"}},
		{"blank term ignored", "   ", nil, []string{"p1", "p2", "p3"}},
		{"title case insensitive", "blue", nil, []string{"p1"}},
		{"arabic title", "ازرق", nil, []string{"p1"}},
		{"tag", "IPHONE", nil, []string{"p2"}},
		{"sku", "mug-001", nil, []string{"p1"}},
		{"description", "wireless", nil, []string{"p3"}},
		{"category", "", &intent.FilterSet{Category: "electronics"}, []string{"p3"}},
		{"status", "", &intent.FilterSet{Status: "draft"}, []string{"p2"}},
		{"active flag", "", &intent.FilterSet{IsActive: boolPtr(true)}, []string{"p1", "p3"}},
		{"price bounds inclusive", "", &intent.FilterSet{MinPrice: floatPtr(3), MaxPrice: floatPtr(4.5)}, []string{"p1", "p2"}},
		{"date bounds inclusive", "", &intent.FilterSet{DateFrom: &day2, DateTo: &day3}, []string{"p2", "p3"}},
		{"filters and term", "phone", &intent.FilterSet{Status: "active"}, []string{"p3"}},
		{"no match", "sofa", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalogIDs(Catalog(testCatalog(), tt.term, tt.filters)))
		})
	}
}

func TestCatalog_DoesNotMutateInput(t *testing.T) {
	items := testCatalog()
	before := testCatalog()
	_ = Catalog(items, "mug", &intent.FilterSet{Status: "active"})
	assert.Equal(t, before, items)
}

func TestOrders(t *testing.T) {
	orders := []models.Order{
		{ID: "o1", OrderNumber: "ORD-1001", CustomerName: "Ahmed Ali", Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusUnpaid, PaymentMethod: models.PaymentMethodKnet, Total: 12, CreatedAt: day1,
			Items: []models.OrderItem{{ProductID: "p1", Title: "Blue Mug", Quantity: 2, Price: 6}}},
		{ID: "o2", OrderNumber: "ORD-1002", CustomerName: "Sara", CustomerEmail: "sara@example.com", Status: models.OrderStatusDelivered, PaymentStatus: models.PaymentStatusPaid, PaymentMethod: models.PaymentMethodCash, Total: 30, CreatedAt: day2},
	}

	tests := []struct {
		name    string
		term    string
		filters *intent.FilterSet
		want    []string
	}{
		{"pending", "", &intent.FilterSet{Status: "pending"}, []string{"o1"}},
		{"payment method", "", &intent.FilterSet{PaymentMethod: "cash"}, []string{"o2"}},
		{"payment status", "", &intent.FilterSet{PaymentStatus: "paid"}, []string{"o2"}},
		{"total bound", "", &intent.FilterSet{MinPrice: floatPtr(20)}, []string{"o2"}},
		{"customer name", "ahmed", nil, []string{"o1"}},
		{"email", "SARA@", nil, []string{"o2"}},
		{"item title", "mug", nil, []string{"o1"}},
		{"order number", "1002", nil, []string{"o2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Orders(orders, tt.term, tt.filters)
			assert.Equal(t, tt.want, ids(got, func(o models.Order) string { return o.ID }))
		})
	}
}

func TestMessages(t *testing.T) {
	messages := []models.Message{
		{ID: "m1", Name: "Omar", Subject: "Late delivery", Body: "Where is my order?", Status: models.MessageStatusUnread, Priority: models.PriorityUrgent, Category: "complaint", CreatedAt: day1},
		{ID: "m2", Name: "Lina", Email: "lina@example.com", Subject: "Question", Body: "Do you ship abroad?", Status: models.MessageStatusReplied, Priority: models.PriorityNormal, Category: "inquiry", CreatedAt: day2},
	}

	unread := Messages(messages, "", &intent.FilterSet{Status: "unread"})
	require.Len(t, unread, 1)
	assert.Equal(t, "m1", unread[0].ID)

	urgent := Messages(messages, "", &intent.FilterSet{Priority: "urgent"})
	assert.Equal(t, []string{"m1"}, ids(urgent, func(m models.Message) string { return m.ID }))

	abroad := Messages(messages, "abroad", nil)
	assert.Equal(t, []string{"m2"}, ids(abroad, func(m models.Message) string { return m.ID }))

	// Price bounds have no meaning for messages.
	all := Messages(messages, "", &intent.FilterSet{MinPrice: floatPtr(100)})
	assert.Len(t, all, 2)

	assert.Empty(t, Messages(nil, "x", nil))
}

func TestDiscountCodes(t *testing.T) {
	codes := []models.DiscountCode{
		{ID: "d1", Code: "SAVE10", Description: "Ten percent off", Type: models.DiscountTypePercentage, Value: 10, IsActive: true, CreatedAt: day1},
		{ID: "d2", Code: "FREESHIP", Type: models.DiscountTypeFreeShipping, IsActive: false, OneUserOnly: true, CreatedAt: day2},
		{ID: "d3", Code: "EID5", Type: models.DiscountTypeFixed, Value: 5, IsActive: true, CreatedAt: day3},
	}
	codeOf := func(d models.DiscountCode) string { return d.Code }

	tests := []struct {
		name    string
		term    string
		filters *intent.FilterSet
		want    []string
	}{
		{"code", "save", nil, []string{"SAVE10"}},
		{"description", "percent", nil, []string{"SAVE10"}},
		{"inactive", "", &intent.FilterSet{IsActive: boolPtr(false)}, []string{"FREESHIP"}},
		{"one user only", "", &intent.FilterSet{OneUserOnly: boolPtr(true)}, []string{"FREESHIP"}},
		{"type", "", &intent.FilterSet{DiscountType: "fixed"}, []string{"EID5"}},
		{"value bound", "", &intent.FilterSet{MinPrice: floatPtr(6)}, []string{"SAVE10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(DiscountCodes(codes, tt.term, tt.filters), codeOf))
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func floatPtr(v float64) *float64 { return &v }
