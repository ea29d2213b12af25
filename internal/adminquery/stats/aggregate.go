package stats

import (
	"sort"
	"time"

	"storefront-admin/internal/models"
)

const (
	DefaultLowStockThreshold = 5
	DefaultTopProducts       = 10
	DefaultTopCodes          = 5
	DefaultExpiringWithin    = 7 * 24 * time.Hour
)

// Aggregator builds StatsSnapshots. It holds no state between calls.
type Aggregator struct {
	now               func() time.Time
	lowStockThreshold int
	topProducts       int
	topCodes          int
	expiringWithin    time.Duration
}

type Option func(*Aggregator)

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLowStockThreshold sets the stock level at or below which an in-stock
// item counts as low stock.
func WithLowStockThreshold(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.lowStockThreshold = n
		}
	}
}

func WithTopN(products, codes int) Option {
	return func(a *Aggregator) {
		if products > 0 {
			a.topProducts = products
		}
		if codes > 0 {
			a.topCodes = codes
		}
	}
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		now:               time.Now,
		lowStockThreshold: DefaultLowStockThreshold,
		topProducts:       DefaultTopProducts,
		topCodes:          DefaultTopCodes,
		expiringWithin:    DefaultExpiringWithin,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) LowStockThreshold() int {
	return a.lowStockThreshold
}

// Aggregate computes a snapshot with the default aggregator and the wall
// clock.
func Aggregate(catalog []models.CatalogItem, orders []models.Order, messages []models.Message, codes []models.DiscountCode) StatsSnapshot {
	return NewAggregator().Aggregate(catalog, orders, messages, codes)
}

func (a *Aggregator) Aggregate(catalog []models.CatalogItem, orders []models.Order, messages []models.Message, codes []models.DiscountCode) StatsSnapshot {
	now := a.now()
	snap := StatsSnapshot{
		Catalog:     a.catalogStats(catalog),
		Orders:      a.orderStats(orders, catalog),
		Messages:    messageStats(messages),
		Discounts:   a.discountStats(codes, now),
		GeneratedAt: now,
	}
	snap.Overview = a.overview(snap, catalog, orders, messages, now)
	return snap
}

func (a *Aggregator) catalogStats(items []models.CatalogItem) CatalogStats {
	s := CatalogStats{
		Total:      len(items),
		ByStatus:   make(map[string]int),
		ByCategory: make(map[string]int),
		LowStock:   []StockLevel{},
		OutOfStock: []StockLevel{},
	}

	var priceSum float64
	for _, it := range items {
		s.ByStatus[bucket(it.Status, UnknownBucket)]++
		s.ByCategory[bucket(it.Category, UncategorizedBucket)]++

		price := it.Price.Amount()
		priceSum += price
		if it.Stock > 0 {
			s.TotalStock += it.Stock
			s.InventoryValue += price * float64(it.Stock)
		}

		level := StockLevel{ProductID: it.ID, Title: it.Title, TitleAr: it.TitleAr, Stock: it.Stock}
		switch {
		case it.Stock <= 0:
			s.OutOfStock = append(s.OutOfStock, level)
		case it.Stock <= a.lowStockThreshold:
			s.LowStock = append(s.LowStock, level)
		}
	}
	s.LowStockCount = len(s.LowStock)
	s.OutOfStockCount = len(s.OutOfStock)
	s.AveragePrice = average(priceSum, len(items))
	return s
}

func (a *Aggregator) orderStats(orders []models.Order, catalog []models.CatalogItem) OrderStats {
	s := OrderStats{
		Total:           len(orders),
		ByStatus:        make(map[string]int),
		ByPaymentStatus: make(map[string]int),
		ByPaymentMethod: make(map[string]int),
	}

	sales := make(map[string]*ProductSales)
	for _, o := range orders {
		s.ByStatus[bucket(o.Status, UnknownBucket)]++
		s.ByPaymentStatus[bucket(o.PaymentStatus, UnknownBucket)]++
		s.ByPaymentMethod[bucket(o.PaymentMethod, UnknownBucket)]++

		if o.PaymentStatus == models.PaymentStatusPaid {
			s.PaidCount++
			s.TotalRevenue += o.Total
		}

		for _, item := range o.Items {
			if item.ProductID == "" {
				continue
			}
			ps, ok := sales[item.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: item.ProductID, Title: item.Title}
				sales[item.ProductID] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue += item.Price * float64(item.Quantity)
		}
	}
	s.AverageOrderValue = average(s.TotalRevenue, s.PaidCount)
	s.TopSellingProducts = a.topSelling(sales, catalog)
	return s
}

func (a *Aggregator) topSelling(sales map[string]*ProductSales, catalog []models.CatalogItem) []ProductSales {
	titles := make(map[string]string, len(catalog))
	for _, it := range catalog {
		titles[it.ID] = it.Title
	}

	out := make([]ProductSales, 0, len(sales))
	for _, ps := range sales {
		if title, ok := titles[ps.ProductID]; ok && title != "" {
			ps.Title = title
		}
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > a.topProducts {
		out = out[:a.topProducts]
	}
	return out
}

func messageStats(messages []models.Message) MessageStats {
	s := MessageStats{
		Total:      len(messages),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
		ByCategory: make(map[string]int),
	}

	var responseTotal time.Duration
	var responded int
	for _, m := range messages {
		s.ByStatus[bucket(m.Status, UnknownBucket)]++
		s.ByPriority[bucket(m.Priority, UnknownBucket)]++
		s.ByCategory[bucket(m.Category, UncategorizedBucket)]++

		switch m.Status {
		case models.MessageStatusUnread:
			s.Unread++
		case models.MessageStatusReplied:
			s.Replied++
		}
		if m.Priority == models.PriorityUrgent {
			s.Urgent++
		}
		if m.RepliedAt != nil && !m.CreatedAt.IsZero() && !m.RepliedAt.Before(m.CreatedAt) {
			responseTotal += m.RepliedAt.Sub(m.CreatedAt)
			responded++
		}
	}

	s.ResponseRate = percent(s.Replied, s.Total)
	if responded > 0 {
		s.HasResponseTime = true
		s.AverageResponseTime = responseTotal / time.Duration(responded)
	}
	return s
}

func (a *Aggregator) discountStats(codes []models.DiscountCode, now time.Time) DiscountStats {
	s := DiscountStats{
		Total:    len(codes),
		ByStatus: make(map[string]int),
		ByType:   make(map[string]int),
	}

	usage := make([]CodeUsage, 0, len(codes))
	for _, d := range codes {
		s.ByType[bucket(d.Type, UnknownBucket)]++
		s.TotalUsage += d.UsedCount

		switch {
		case d.Expired(now):
			s.Expired++
			s.ByStatus[CodeStateExpired]++
		case d.IsActive:
			s.Active++
			s.ByStatus[CodeStateActive]++
			if d.ExpiresAt != nil && d.ExpiresAt.Sub(now) <= a.expiringWithin {
				s.ExpiringSoon++
			}
		default:
			s.Inactive++
			s.ByStatus[CodeStateInactive]++
		}

		if d.UsedCount == 0 {
			s.Unused++
		} else {
			usage = append(usage, CodeUsage{Code: d.Code, UsedCount: d.UsedCount, UsageLimit: d.UsageLimit})
		}
	}

	sort.Slice(usage, func(i, j int) bool {
		if usage[i].UsedCount != usage[j].UsedCount {
			return usage[i].UsedCount > usage[j].UsedCount
		}
		return usage[i].Code < usage[j].Code
	})
	if len(usage) > a.topCodes {
		usage = usage[:a.topCodes]
	}
	s.MostUsed = usage
	return s
}

func (a *Aggregator) overview(snap StatsSnapshot, catalog []models.CatalogItem, orders []models.Order, messages []models.Message, now time.Time) OverviewStats {
	today := startOfDay(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	var o OverviewStats
	pending := 0
	for _, ord := range orders {
		if ord.Status == models.OrderStatusPending {
			pending++
		}
		paid := ord.PaymentStatus == models.PaymentStatusPaid
		switch {
		case !ord.CreatedAt.Before(monthStart):
			o.ThisMonthOrders++
			if paid {
				o.ThisMonthRevenue += ord.Total
			}
		case !ord.CreatedAt.Before(lastMonthStart):
			o.LastMonthOrders++
			if paid {
				o.LastMonthRevenue += ord.Total
			}
		}
		if !ord.CreatedAt.Before(today) {
			o.OrdersToday++
			if paid {
				o.RevenueToday += ord.Total
			}
		}
	}
	o.OrdersGrowth = growth(float64(o.ThisMonthOrders), float64(o.LastMonthOrders))
	o.RevenueGrowth = growth(o.ThisMonthRevenue, o.LastMonthRevenue)

	for _, it := range catalog {
		if !it.CreatedAt.Before(monthStart) {
			o.NewProductsThisMonth++
		}
	}
	for _, m := range messages {
		if !m.CreatedAt.Before(monthStart) {
			o.MessagesThisMonth++
		}
	}

	o.NeedsAttention = []AttentionItem{}
	for _, item := range []AttentionItem{
		{AttentionPendingOrders, pending},
		{AttentionUnreadMessages, snap.Messages.Unread},
		{AttentionLowStock, snap.Catalog.LowStockCount},
		{AttentionOutOfStock, snap.Catalog.OutOfStockCount},
		{AttentionExpiringCodes, snap.Discounts.ExpiringSoon},
	} {
		if item.Count > 0 {
			o.NeedsAttention = append(o.NeedsAttention, item)
		}
	}
	return o
}

func bucket(value, empty string) string {
	if value == "" {
		return empty
	}
	return value
}

func average(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// percent returns part/total as a percentage, 0 when total is 0.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// growth is the percentage change from previous to current. With no
// previous figure any current activity counts as 100% growth.
func growth(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
