// Package stats computes a cross-entity statistics snapshot of the store.
// The snapshot depends only on the collections and the aggregator clock.
package stats

import "time"

// Bucket names used when a categorical field is empty, so that every
// breakdown sums to its collection total.
const (
	UnknownBucket       = "unknown"
	UncategorizedBucket = "uncategorized"
)

type StatsSnapshot struct {
	Catalog     CatalogStats  `json:"catalog"`
	Orders      OrderStats    `json:"orders"`
	Messages    MessageStats  `json:"messages"`
	Discounts   DiscountStats `json:"discounts"`
	Overview    OverviewStats `json:"overview"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

type CatalogStats struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"byStatus"`
	ByCategory      map[string]int `json:"byCategory"`
	TotalStock      int            `json:"totalStock"`
	InventoryValue  float64        `json:"inventoryValue"`
	AveragePrice    float64        `json:"averagePrice"`
	LowStockCount   int            `json:"lowStockCount"`
	OutOfStockCount int            `json:"outOfStockCount"`
	LowStock        []StockLevel   `json:"lowStock"`
	OutOfStock      []StockLevel   `json:"outOfStock"`
}

type StockLevel struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	TitleAr   string `json:"titleAr,omitempty"`
	Stock     int    `json:"stock"`
}

type OrderStats struct {
	Total              int            `json:"total"`
	ByStatus           map[string]int `json:"byStatus"`
	ByPaymentStatus    map[string]int `json:"byPaymentStatus"`
	ByPaymentMethod    map[string]int `json:"byPaymentMethod"`
	PaidCount          int            `json:"paidCount"`
	TotalRevenue       float64        `json:"totalRevenue"`
	AverageOrderValue  float64        `json:"averageOrderValue"`
	TopSellingProducts []ProductSales `json:"topSellingProducts"`
}

// ProductSales is the quantity of one product sold across all order lines.
type ProductSales struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type MessageStats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"byStatus"`
	ByPriority   map[string]int `json:"byPriority"`
	ByCategory   map[string]int `json:"byCategory"`
	Unread       int            `json:"unread"`
	Urgent       int            `json:"urgent"`
	Replied      int            `json:"replied"`
	ResponseRate float64        `json:"responseRate"`
	// AverageResponseTime is only meaningful when HasResponseTime is set.
	AverageResponseTime time.Duration `json:"averageResponseTime"`
	HasResponseTime     bool          `json:"hasResponseTime"`
}

type DiscountStats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"byStatus"`
	ByType       map[string]int `json:"byType"`
	Active       int            `json:"active"`
	Inactive     int            `json:"inactive"`
	Expired      int            `json:"expired"`
	Unused       int            `json:"unused"`
	ExpiringSoon int            `json:"expiringSoon"`
	TotalUsage   int            `json:"totalUsage"`
	MostUsed     []CodeUsage    `json:"mostUsed"`
}

type CodeUsage struct {
	Code       string `json:"code"`
	UsedCount  int    `json:"usedCount"`
	UsageLimit int    `json:"usageLimit"`
}

// Discount code states used by DiscountStats.ByStatus.
const (
	CodeStateActive   = "active"
	CodeStateInactive = "inactive"
	CodeStateExpired  = "expired"
)

type OverviewStats struct {
	OrdersToday          int             `json:"ordersToday"`
	RevenueToday         float64         `json:"revenueToday"`
	ThisMonthOrders      int             `json:"thisMonthOrders"`
	ThisMonthRevenue     float64         `json:"thisMonthRevenue"`
	LastMonthOrders      int             `json:"lastMonthOrders"`
	LastMonthRevenue     float64         `json:"lastMonthRevenue"`
	OrdersGrowth         float64         `json:"ordersGrowth"`
	RevenueGrowth        float64         `json:"revenueGrowth"`
	NewProductsThisMonth int             `json:"newProductsThisMonth"`
	MessagesThisMonth    int             `json:"messagesThisMonth"`
	NeedsAttention       []AttentionItem `json:"needsAttention"`
}

// AttentionItem is one kind of record that needs operator action.
type AttentionItem struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Attention kinds, in reporting order.
const (
	AttentionPendingOrders  = "pending_orders"
	AttentionUnreadMessages = "unread_messages"
	AttentionLowStock       = "low_stock"
	AttentionOutOfStock     = "out_of_stock"
	AttentionExpiringCodes  = "expiring_codes"
)
