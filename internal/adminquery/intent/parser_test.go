package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *Parser {
	return NewParser(WithClock(func() time.Time { return fixedNow }))
}

func TestParser_EmptyInput(t *testing.T) {
	q := newTestParser().Parse("   ")
	assert.Equal(t, ParsedQuery{Type: Unknown, Confidence: ConfidenceNone}, q)
}

func TestParser_FiltersAttachedToUnknownIntent(t *testing.T) {
	q := newTestParser().Parse("paid with knet")
	assert.Equal(t, Unknown, q.Type)
	require.NotNil(t, q.Filters)
	assert.Equal(t, "paid", q.Filters.PaymentStatus)
	assert.Equal(t, "knet", q.Filters.PaymentMethod)
}

func TestParser_PendingOrders(t *testing.T) {
	q := newTestParser().Parse("how many pending orders?")
	assert.Equal(t, OrderCount, q.Type)
	assert.Equal(t, ConfidenceMatch, q.Confidence)
	require.NotNil(t, q.Filters)
	assert.Equal(t, "pending", q.Filters.Status)
	assert.Empty(t, q.SearchTerm)
}

func TestParser_SearchTerm(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"quoted", `find product "Blue Mug"`, "Blue Mug"},
		{"guillemets", "ابحث عن «ساعة ذكية»", "ساعة ذكية"},
		{"after verb", "search orders for ahmed", "ahmed"},
		{"after verb with punctuation", "find products named lamp?", "lamp"},
		{"arabic verb", "ابحث عن منتج قميص", "قميص"},
		{"apostrophe kept", "find product kid's shoes", "kid's shoes"},
		{"no search verb", "how many products", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newTestParser().Parse(tt.text).SearchTerm)
		})
	}
}

func TestParser_DiscountCreatePayload(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    *CreateDiscountPayload
		missing []string
	}{
		{
			name: "percentage with usage limit",
			text: "create discount code SAVE10 for 10% off limited to 100 uses",
			want: &CreateDiscountPayload{Code: "SAVE10", Type: "percentage", Value: 10, UsageLimit: 100},
		},
		{
			name: "fixed with minimum order",
			text: "create coupon EID5 worth 5 kwd minimum order 20",
			want: &CreateDiscountPayload{Code: "EID5", Type: "fixed", Value: 5, MinOrderAmount: 20},
		},
		{
			name: "free shipping one user",
			text: "create a free shipping coupon FREESHIP once per user",
			want: &CreateDiscountPayload{Code: "FREESHIP", Type: "free_shipping", OneUserOnly: true},
		},
		{
			name:    "nothing specified",
			text:    "create a discount code",
			want:    &CreateDiscountPayload{},
			missing: []string{"code", "value"},
		},
		{
			name: "arabic percentage",
			text: "أنشئ كود خصم RAMADAN بنسبة ٢٠٪",
			want: &CreateDiscountPayload{Code: "RAMADAN", Type: "percentage", Value: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestParser().Parse(tt.text)
			require.Equal(t, DiscountCreate, q.Type)
			require.NotNil(t, q.StructuredPayload)
			assert.Equal(t, tt.want, q.StructuredPayload)
			assert.Equal(t, tt.missing, q.StructuredPayload.Missing())
		})
	}
}

func TestParser_TargetCode(t *testing.T) {
	tests := []struct {
		text string
		want IntentType
		code string
	}{
		{"deactivate discount code WINTER24", DiscountUpdate, "WINTER24"},
		{"delete coupon summer50", DiscountDelete, "SUMMER50"},
		{"delete the 5 KWD coupon OLD-10", DiscountDelete, "OLD-10"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			q := newTestParser().Parse(tt.text)
			assert.Equal(t, tt.want, q.Type)
			assert.Equal(t, tt.code, q.TargetCode)
		})
	}
}

func TestParser_Bulk(t *testing.T) {
	tests := []struct {
		text string
		want BulkRequest
	}{
		{"bulk deactivate products", BulkRequest{Entity: EntityCatalog, Operation: BulkDeactivate}},
		{"bulk mark as read messages", BulkRequest{Entity: EntityMessages, Operation: BulkMarkRead}},
		{"bulk delete expired coupons", BulkRequest{Entity: EntityDiscounts, Operation: BulkDelete, Scope: BulkScopeExpired}},
		{"bulk deactivate unused discount codes", BulkRequest{Entity: EntityDiscounts, Operation: BulkDeactivate, Scope: BulkScopeUnused}},
		{"bulk activate inactive coupons", BulkRequest{Entity: EntityDiscounts, Operation: BulkActivate, Scope: BulkScopeInactive}},
		{"bulk make all coupons inactive", BulkRequest{Entity: EntityDiscounts, Operation: BulkDeactivate}},
		{"bulk archive out of stock products", BulkRequest{Entity: EntityCatalog, Operation: BulkArchive, Scope: BulkScopeOutOfStock}},
		{"تعطيل جماعي لأكواد الخصم المنتهية", BulkRequest{Entity: EntityDiscounts, Operation: BulkDeactivate, Scope: BulkScopeExpired}},
		{"batch activate everything", BulkRequest{Entity: EntityCatalog, Operation: BulkActivate}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			q := newTestParser().Parse(tt.text)
			require.Equal(t, BulkOperation, q.Type)
			require.NotNil(t, q.Bulk)
			assert.Equal(t, tt.want, *q.Bulk)
		})
	}
}

func TestBulkSupported(t *testing.T) {
	assert.True(t, BulkSupported(EntityCatalog, BulkArchive))
	assert.True(t, BulkSupported(EntityDiscounts, BulkDeactivate))
	assert.True(t, BulkSupported(EntityMessages, BulkMarkRead))
	assert.False(t, BulkSupported(EntityMessages, BulkDeactivate))
	assert.False(t, BulkSupported(EntityDiscounts, BulkMarkRead))
	assert.False(t, BulkSupported(EntityOrders, BulkDelete))
	assert.False(t, BulkSupported(EntityCatalog, ""))
}

func TestParser_Idempotent(t *testing.T) {
	p := newTestParser()
	text := "unpaid knet orders this month more than 5"
	assert.Equal(t, p.Parse(text), p.Parse(text))
}

func TestClassifyAndExtract(t *testing.T) {
	q := ClassifyAndExtract("how many products?")
	assert.Equal(t, CatalogCount, q.Type)
	assert.Equal(t, ConfidenceMatch, q.Confidence)
	assert.Nil(t, q.Filters)
}
