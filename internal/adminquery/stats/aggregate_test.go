package stats

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-admin/internal/models"
)

var now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestAggregator() *Aggregator {
	return NewAggregator(WithClock(func() time.Time { return now }))
}

func sum(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func timePtr(t time.Time) *time.Time { return &t }

func fixtures() ([]models.CatalogItem, []models.Order, []models.Message, []models.DiscountCode) {
	catalog := []models.CatalogItem{
		{ID: "p1", Title: "Mug", Category: "home", Status: models.ProductStatusActive, Price: models.ScalarPrice(2.5), Stock: 10, CreatedAt: now.AddDate(0, 0, -2)},
		{ID: "p2", Title: "Case", Category: "accessories", Status: models.ProductStatusActive, Price: models.MultiPrice(map[string]float64{"KWD": 4, "USD": 13}), Stock: 3, CreatedAt: now.AddDate(0, -2, 0)},
		{ID: "p3", Title: "Lamp", Category: "", Status: "", Price: models.MultiPrice(map[string]float64{"USD": 40}), Stock: 0},
	}
	orders := []models.Order{
		{ID: "o1", Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusUnpaid, PaymentMethod: models.PaymentMethodKnet, Total: 100, CreatedAt: now.Add(-time.Hour),
			Items: []models.OrderItem{{ProductID: "p1", Quantity: 4, Price: 2.5}}},
		{ID: "o2", Status: models.OrderStatusDelivered, PaymentStatus: models.PaymentStatusPaid, PaymentMethod: models.PaymentMethodCash, Total: 10.5, CreatedAt: now.AddDate(0, 0, -3),
			Items: []models.OrderItem{{ProductID: "p2", Quantity: 2, Price: 4}, {ProductID: "p1", Quantity: 1, Price: 2.5}}},
		{ID: "o3", Status: models.OrderStatusCancelled, PaymentStatus: models.PaymentStatusRefunded, Total: 7, CreatedAt: now.AddDate(0, -1, 0),
			Items: []models.OrderItem{{ProductID: "p2", Quantity: 5, Price: 4}}},
		{ID: "o4", Status: models.OrderStatusShipped, PaymentStatus: models.PaymentStatusPaid, PaymentMethod: models.PaymentMethodCard, Total: 20, CreatedAt: now.AddDate(0, -1, -1)},
	}
	messages := []models.Message{
		{ID: "m1", Status: models.MessageStatusUnread, Priority: models.PriorityUrgent, Category: "complaint", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "m2", Status: models.MessageStatusReplied, Priority: models.PriorityNormal, Category: "inquiry", CreatedAt: now.Add(-5 * time.Hour), RepliedAt: timePtr(now.Add(-3 * time.Hour))},
		{ID: "m3", Status: models.MessageStatusReplied, Priority: "", Category: "", CreatedAt: now.Add(-50 * time.Minute), RepliedAt: timePtr(now.Add(-40 * time.Minute))},
	}
	codes := []models.DiscountCode{
		{ID: "d1", Code: "A", UsedCount: 5, UsageLimit: 5, IsActive: true, Type: models.DiscountTypePercentage},
		{ID: "d2", Code: "B", UsedCount: 0, IsActive: true, Type: models.DiscountTypeFixed, ExpiresAt: timePtr(now.AddDate(0, 0, 3))},
		{ID: "d3", Code: "C", UsedCount: 2, IsActive: false},
		{ID: "d4", Code: "D", UsedCount: 9, IsActive: true, Type: models.DiscountTypeFreeShipping, ExpiresAt: timePtr(now.AddDate(0, 0, -1))},
	}
	return catalog, orders, messages, codes
}

func TestAggregate_BreakdownsSumToTotals(t *testing.T) {
	catalog, orders, messages, codes := fixtures()

	cases := map[string]StatsSnapshot{
		"populated": newTestAggregator().Aggregate(catalog, orders, messages, codes),
		"empty":     newTestAggregator().Aggregate(nil, nil, nil, nil),
	}

	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, s.Catalog.Total, sum(s.Catalog.ByStatus))
			assert.Equal(t, s.Catalog.Total, sum(s.Catalog.ByCategory))
			assert.Equal(t, s.Orders.Total, sum(s.Orders.ByStatus))
			assert.Equal(t, s.Orders.Total, sum(s.Orders.ByPaymentStatus))
			assert.Equal(t, s.Orders.Total, sum(s.Orders.ByPaymentMethod))
			assert.Equal(t, s.Messages.Total, sum(s.Messages.ByStatus))
			assert.Equal(t, s.Messages.Total, sum(s.Messages.ByPriority))
			assert.Equal(t, s.Messages.Total, sum(s.Messages.ByCategory))
			assert.Equal(t, s.Discounts.Total, sum(s.Discounts.ByStatus))
			assert.Equal(t, s.Discounts.Total, sum(s.Discounts.ByType))
		})
	}
}

func TestAggregate_Empty(t *testing.T) {
	s := newTestAggregator().Aggregate(nil, nil, nil, nil)

	assert.Zero(t, s.Catalog.Total)
	assert.Zero(t, s.Catalog.AveragePrice)
	assert.Zero(t, s.Orders.AverageOrderValue)
	assert.Zero(t, s.Messages.ResponseRate)
	assert.False(t, s.Messages.HasResponseTime)
	assert.Zero(t, s.Overview.OrdersGrowth)
	assert.Empty(t, s.Orders.TopSellingProducts)
	assert.Empty(t, s.Discounts.MostUsed)
	assert.Empty(t, s.Overview.NeedsAttention)
	assert.False(t, math.IsNaN(s.Messages.ResponseRate))
}

func TestAggregate_Catalog(t *testing.T) {
	catalog, orders, messages, codes := fixtures()
	s := newTestAggregator().Aggregate(catalog, orders, messages, codes).Catalog

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, map[string]int{"active": 2, UnknownBucket: 1}, s.ByStatus)
	assert.Equal(t, map[string]int{"home": 1, "accessories": 1, UncategorizedBucket: 1}, s.ByCategory)
	assert.Equal(t, 13, s.TotalStock)
	// p3 has no KWD price so it counts as 0.
	assert.InDelta(t, 2.5*10+4*3, s.InventoryValue, 1e-9)
	assert.InDelta(t, (2.5+4)/3, s.AveragePrice, 1e-9)
	assert.Equal(t, 1, s.LowStockCount)
	assert.Equal(t, "p2", s.LowStock[0].ProductID)
	assert.Equal(t, 1, s.OutOfStockCount)
	assert.Equal(t, "p3", s.OutOfStock[0].ProductID)
}

func TestAggregate_RevenueCountsPaidOrdersOnly(t *testing.T) {
	catalog, orders, messages, codes := fixtures()
	s := newTestAggregator().Aggregate(catalog, orders, messages, codes).Orders

	var want float64
	for _, o := range orders {
		if o.PaymentStatus == models.PaymentStatusPaid {
			want += o.Total
		}
	}
	assert.InDelta(t, want, s.TotalRevenue, 1e-9)
	assert.InDelta(t, 30.5, s.TotalRevenue, 1e-9)
	assert.Equal(t, 2, s.PaidCount)
	assert.InDelta(t, 15.25, s.AverageOrderValue, 1e-9)
	assert.Equal(t, 1, s.ByPaymentMethod[UnknownBucket])
}

func TestAggregate_TopSellingProducts(t *testing.T) {
	catalog, orders, messages, codes := fixtures()
	s := newTestAggregator().Aggregate(catalog, orders, messages, codes).Orders

	require.Len(t, s.TopSellingProducts, 2)
	assert.Equal(t, ProductSales{ProductID: "p2", Title: "Case", Quantity: 7, Revenue: 28}, s.TopSellingProducts[0])
	assert.Equal(t, ProductSales{ProductID: "p1", Title: "Mug", Quantity: 5, Revenue: 12.5}, s.TopSellingProducts[1])
}

func TestAggregate_TopSellingTruncatedAndTieBroken(t *testing.T) {
	var orders []models.Order
	for i := 0; i < 12; i++ {
		orders = append(orders, models.Order{
			ID:    fmt.Sprintf("o%d", i),
			Items: []models.OrderItem{{ProductID: fmt.Sprintf("p%02d", i), Quantity: 1}},
		})
	}

	top := newTestAggregator().Aggregate(nil, orders, nil, nil).Orders.TopSellingProducts
	require.Len(t, top, DefaultTopProducts)
	assert.Equal(t, "p00", top[0].ProductID)
	assert.Equal(t, "p09", top[9].ProductID)
}

func TestAggregate_Messages(t *testing.T) {
	catalog, orders, messages, codes := fixtures()
	s := newTestAggregator().Aggregate(catalog, orders, messages, codes).Messages

	assert.Equal(t, 1, s.Unread)
	assert.Equal(t, 1, s.Urgent)
	assert.Equal(t, 2, s.Replied)
	assert.InDelta(t, 200.0/3, s.ResponseRate, 1e-9)
	require.True(t, s.HasResponseTime)
	assert.Equal(t, 65*time.Minute, s.AverageResponseTime)
	assert.Equal(t, 1, s.ByPriority[UnknownBucket])
}

func TestAggregate_Discounts(t *testing.T) {
	catalog, orders, messages, codes := fixtures()
	s := newTestAggregator().Aggregate(catalog, orders, messages, codes).Discounts

	assert.Equal(t, 4, s.Total)
	// A is used up and D is past its expiry date.
	assert.Equal(t, 2, s.Expired)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.Inactive)
	assert.Equal(t, 1, s.Unused)
	assert.Equal(t, 1, s.ExpiringSoon)
	assert.Equal(t, 16, s.TotalUsage)
	assert.Equal(t, map[string]int{"percentage": 1, "fixed": 1, "free_shipping": 1, UnknownBucket: 1}, s.ByType)
	assert.Equal(t, []CodeUsage{
		{Code: "D", UsedCount: 9},
		{Code: "A", UsedCount: 5, UsageLimit: 5},
		{Code: "C", UsedCount: 2},
	}, s.MostUsed)
}

func TestAggregate_MostUsedTruncated(t *testing.T) {
	var codes []models.DiscountCode
	for i := 1; i <= 8; i++ {
		codes = append(codes, models.DiscountCode{Code: fmt.Sprintf("C%d", i), UsedCount: i})
	}
	got := newTestAggregator().Aggregate(nil, nil, nil, codes).Discounts.MostUsed
	require.Len(t, got, DefaultTopCodes)
	assert.Equal(t, "C8", got[0].Code)
	assert.Equal(t, "C4", got[4].Code)
}

func TestAggregate_Overview(t *testing.T) {
	catalog, orders, messages, codes := fixtures()
	s := newTestAggregator().Aggregate(catalog, orders, messages, codes).Overview

	// o1 and o2 fall in March, o3 and o4 in February.
	assert.Equal(t, 2, s.ThisMonthOrders)
	assert.InDelta(t, 10.5, s.ThisMonthRevenue, 1e-9)
	assert.Equal(t, 2, s.LastMonthOrders)
	assert.InDelta(t, 20, s.LastMonthRevenue, 1e-9)
	assert.InDelta(t, 0, s.OrdersGrowth, 1e-9)
	assert.InDelta(t, -47.5, s.RevenueGrowth, 1e-9)
	assert.Equal(t, 1, s.OrdersToday)
	assert.Zero(t, s.RevenueToday)
	assert.Equal(t, 1, s.NewProductsThisMonth)
	assert.Equal(t, 3, s.MessagesThisMonth)
	assert.Equal(t, []AttentionItem{
		{AttentionPendingOrders, 1},
		{AttentionUnreadMessages, 1},
		{AttentionLowStock, 1},
		{AttentionOutOfStock, 1},
		{AttentionExpiringCodes, 1},
	}, s.NeedsAttention)
}

func TestAggregate_Idempotent(t *testing.T) {
	catalog, orders, messages, codes := fixtures()
	a := newTestAggregator()
	assert.Equal(t, a.Aggregate(catalog, orders, messages, codes), a.Aggregate(catalog, orders, messages, codes))
}

func TestAggregate_LowStockThresholdOption(t *testing.T) {
	catalog, _, _, _ := fixtures()
	a := NewAggregator(WithClock(func() time.Time { return now }), WithLowStockThreshold(10))
	assert.Equal(t, 10, a.LowStockThreshold())
	assert.Equal(t, 2, a.Aggregate(catalog, nil, nil, nil).Catalog.LowStockCount)
}
