// internal/models/storefront.go
package models

import "time"

// Catalog item statuses.
const (
	ProductStatusActive   = "active"
	ProductStatusDraft    = "draft"
	ProductStatusArchived = "archived"
)

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses. Only PaymentStatusPaid contributes to revenue.
const (
	PaymentStatusPaid     = "paid"
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusFailed   = "failed"
)

// Payment methods.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodCard         = "card"
	PaymentMethodKnet         = "knet"
	PaymentMethodBankTransfer = "bank_transfer"
)

// Message statuses.
const (
	MessageStatusUnread   = "unread"
	MessageStatusRead     = "read"
	MessageStatusReplied  = "replied"
	MessageStatusArchived = "archived"
)

// Message priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Discount code types.
const (
	DiscountTypePercentage   = "percentage"
	DiscountTypeFixed        = "fixed"
	DiscountTypeFreeShipping = "free_shipping"
)

type CatalogItem struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	TitleAr       string    `json:"titleAr"`
	Description   string    `json:"description"`
	DescriptionAr string    `json:"descriptionAr"`
	Category      string    `json:"category"`
	Status        string    `json:"status"`
	Price         Price     `json:"price"`
	Stock         int       `json:"stock"`
	SKU           string    `json:"sku"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"createdAt"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	CustomerPhone string      `json:"customerPhone"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	PaymentMethod string      `json:"paymentMethod"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type Message struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Category  string     `json:"category"` // "inquiry", "complaint", "support", "feedback"
	Status    string     `json:"status"`
	Priority  string     `json:"priority"`
	CreatedAt time.Time  `json:"createdAt"`
	RepliedAt *time.Time `json:"repliedAt,omitempty"`
}

type DiscountCode struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Description    string     `json:"description"`
	Type           string     `json:"type"`
	Value          float64    `json:"value"`
	MinOrderAmount float64    `json:"minOrderAmount"`
	UsageLimit     int        `json:"usageLimit"` // 0 means unlimited
	UsedCount      int        `json:"usedCount"`
	OneUserOnly    bool       `json:"oneUserOnly"`
	IsActive       bool       `json:"isActive"`
	StartsAt       *time.Time `json:"startsAt,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// UsageExhausted reports whether a limited code has been used up.
func (d DiscountCode) UsageExhausted() bool {
	return d.UsageLimit > 0 && d.UsedCount >= d.UsageLimit
}

// Expired reports whether the code can no longer be redeemed at now, either
// because its usage limit is reached or its expiry date has passed.
func (d DiscountCode) Expired(now time.Time) bool {
	if d.UsageExhausted() {
		return true
	}
	return d.ExpiresAt != nil && d.ExpiresAt.Before(now)
}

// Collections bundles the four record collections read by the admin query
// pipeline.
type Collections struct {
	Catalog       []CatalogItem  `json:"catalog"`
	Orders        []Order        `json:"orders"`
	Messages      []Message      `json:"messages"`
	DiscountCodes []DiscountCode `json:"discountCodes"`
}
