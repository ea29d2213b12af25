package adminquery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"storefront-admin/internal/adminquery/intent"
	"storefront-admin/internal/adminquery/respond"
	"storefront-admin/internal/common/logger"
	"storefront-admin/internal/models"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(logger.NewTestLogger(t)),
	}
	return NewEngine(append(base, opts...)...)
}

func storeFixture() models.Collections {
	return models.Collections{
		Catalog: []models.CatalogItem{
			{ID: "p1", Title: "Oud perfume", Category: "perfume", Status: models.ProductStatusActive, Price: models.ScalarPrice(12.5), Stock: 3},
			{ID: "p2", Title: "Rose soap", Category: "soap", Status: models.ProductStatusActive, Price: models.ScalarPrice(2), Stock: 40},
		},
		Orders: []models.Order{
			{ID: "o1", Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusUnpaid, Total: 12.5, CreatedAt: fixedNow.Add(-time.Hour)},
			{ID: "o2", Status: models.OrderStatusDelivered, PaymentStatus: models.PaymentStatusPaid, Total: 4, CreatedAt: fixedNow.AddDate(0, 0, -3)},
		},
		Messages: []models.Message{
			{ID: "m1", Subject: "Where is my order", Status: models.MessageStatusUnread, Priority: models.PriorityNormal, CreatedAt: fixedNow},
			{ID: "m2", Subject: "Thanks", Status: models.MessageStatusReplied, Priority: models.PriorityLow, CreatedAt: fixedNow},
		},
		DiscountCodes: []models.DiscountCode{
			{ID: "d1", Code: "WINTER24", Type: models.DiscountTypePercentage, Value: 10, IsActive: true},
			{ID: "d2", Code: "SUMMER50", Type: models.DiscountTypePercentage, Value: 50, IsActive: false},
		},
	}
}

func TestEngine_Answer_PendingOrderCount(t *testing.T) {
	res, err := newTestEngine(t).Answer(context.Background(), "how many pending orders?", storeFixture(), false)
	require.NoError(t, err)

	assert.Equal(t, intent.OrderCount, res.Parsed.Type)
	assert.Equal(t, 2, res.Stats.Orders.Total)
	assert.Contains(t, res.Response.Content, "**1** pending orders")
	assert.Contains(t, res.Response.Content, "out of 2 in total")
	assert.Equal(t, fixedNow, res.Stats.GeneratedAt)
}

func TestEngine_Answer_Arabic(t *testing.T) {
	res, err := newTestEngine(t).Answer(context.Background(), "كم عدد المنتجات؟", storeFixture(), true)
	require.NoError(t, err)

	assert.Equal(t, intent.CatalogCount, res.Parsed.Type)
	assert.Contains(t, res.Response.Content, "**2**")
	assert.NotContains(t, res.Response.Content, "products")
}

func TestEngine_Answer_BlankTextIsHelp(t *testing.T) {
	res, err := newTestEngine(t).Answer(context.Background(), "   ", storeFixture(), false)
	require.NoError(t, err)

	assert.Equal(t, intent.Unknown, res.Parsed.Type)
	assert.Equal(t, 0, res.Parsed.Confidence)
	assert.Contains(t, res.Response.Content, "I can answer questions about your store")
	assert.NotNil(t, res.Response.Actions)
}

func TestEngine_Answer_BulkDeactivateExpiredCodes(t *testing.T) {
	c := storeFixture()
	c.DiscountCodes = []models.DiscountCode{
		{ID: "a", Code: "OLD", Type: models.DiscountTypePercentage, Value: 10, UsageLimit: 5, UsedCount: 5, IsActive: true},
		{ID: "b", Code: "LIVE1", Type: models.DiscountTypePercentage, Value: 10, IsActive: true},
		{ID: "c", Code: "LIVE2", Type: models.DiscountTypeFixed, Value: 2, IsActive: true},
	}

	res, err := newTestEngine(t).Answer(context.Background(), "bulk deactivate expired discount codes", c, false)
	require.NoError(t, err)

	require.NotNil(t, res.Parsed.Bulk)
	assert.Equal(t, intent.BulkScopeExpired, res.Parsed.Bulk.Scope)
	assert.Contains(t, res.Response.Content, "deactivate **1** discount codes")
	require.Len(t, res.Response.Actions, 2)
	assert.Equal(t, []string{"a"}, res.Response.Actions[0].Data["ids"])
}

func TestEngine_Answer_BulkStateWordIsNotAFilter(t *testing.T) {
	res, err := newTestEngine(t).Answer(context.Background(), "bulk make all coupons inactive", storeFixture(), false)
	require.NoError(t, err)

	assert.Contains(t, res.Response.Content, "deactivate **1** discount codes")
	require.Len(t, res.Response.Actions, 2)
	assert.Equal(t, []string{"d1"}, res.Response.Actions[0].Data["ids"])
}

func TestEngine_Answer_UnsupportedBulkOperation(t *testing.T) {
	tests := []struct {
		text    string
		content string
	}{
		{"bulk delete orders", "Bulk delete is not available for orders."},
		{"bulk deactivate messages", "Bulk deactivate is not available for messages."},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res, err := newTestEngine(t).Answer(context.Background(), tt.text, storeFixture(), false)
			require.NoError(t, err)

			assert.Equal(t, intent.BulkOperation, res.Parsed.Type)
			assert.Equal(t, tt.content, res.Response.Content)
			for _, a := range res.Response.Actions {
				assert.NotEqual(t, respond.ActionConfirm, a.Kind)
			}
		})
	}
}

func TestEngine_Answer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestEngine(t).Answer(ctx, "how many products?", storeFixture(), false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestEngine_Answer_IsDeterministic(t *testing.T) {
	e := newTestEngine(t)
	first, err := e.Answer(context.Background(), "store overview", storeFixture(), false)
	require.NoError(t, err)
	second, err := e.Answer(context.Background(), "store overview", storeFixture(), false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEngine_Answer_EmitsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	e := newTestEngine(t, WithTracer(tp.Tracer("test")))

	_, err := e.Answer(context.Background(), "unread messages", storeFixture(), false)
	require.NoError(t, err)

	var names []string
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"adminquery.parse", "adminquery.aggregate", "adminquery.respond", "adminquery.answer"}, names)
}

func TestEngine_StatsIgnoreFilters(t *testing.T) {
	e := newTestEngine(t)
	q := e.Parse(context.Background(), "how many pending orders?")
	s := e.Stats(context.Background(), storeFixture())
	resp := e.Respond(context.Background(), q, s, storeFixture(), false)

	assert.Equal(t, 2, s.Orders.Total)
	assert.Equal(t, 1, s.Orders.ByStatus[models.OrderStatusPending])
	assert.Equal(t, respond.KindStats, resp.Kind)
}

func TestNarrow(t *testing.T) {
	c := storeFixture()

	t.Run("no filters returns collections unchanged", func(t *testing.T) {
		assert.Equal(t, c, Narrow(intent.ParsedQuery{Type: intent.OrderCount}, c))
	})

	t.Run("filters apply only to the query entity", func(t *testing.T) {
		n := Narrow(intent.ParsedQuery{Type: intent.OrderCount, Filters: &intent.FilterSet{Status: "pending"}}, c)
		require.Len(t, n.Orders, 1)
		assert.Equal(t, "o1", n.Orders[0].ID)
		assert.Len(t, n.Catalog, 2)
		assert.Len(t, n.Messages, 2)
		assert.Len(t, n.DiscountCodes, 2)
	})

	t.Run("search term narrows catalog", func(t *testing.T) {
		n := Narrow(intent.ParsedQuery{Type: intent.CatalogSearch, SearchTerm: "oud"}, c)
		require.Len(t, n.Catalog, 1)
		assert.Equal(t, "p1", n.Catalog[0].ID)
	})

	t.Run("discount search falls back to target code", func(t *testing.T) {
		n := Narrow(intent.ParsedQuery{Type: intent.DiscountSearch, TargetCode: "SUMMER50"}, c)
		require.Len(t, n.DiscountCodes, 1)
		assert.Equal(t, "d2", n.DiscountCodes[0].ID)
	})

	t.Run("discount mutations see every code", func(t *testing.T) {
		active := true
		for _, it := range []intent.IntentType{intent.DiscountCreate, intent.DiscountUpdate, intent.DiscountDelete} {
			n := Narrow(intent.ParsedQuery{Type: it, Filters: &intent.FilterSet{IsActive: &active}}, c)
			assert.Len(t, n.DiscountCodes, 2, it)
		}
	})

	t.Run("bulk narrows its own entity", func(t *testing.T) {
		q := intent.ParsedQuery{
			Type:    intent.BulkOperation,
			Filters: &intent.FilterSet{Status: models.MessageStatusUnread},
			Bulk:    &intent.BulkRequest{Entity: intent.EntityMessages, Operation: intent.BulkMarkRead},
		}
		n := Narrow(q, c)
		require.Len(t, n.Messages, 1)
		assert.Equal(t, "m1", n.Messages[0].ID)
		assert.Len(t, n.Orders, 2)
	})

	t.Run("cross entity intents are not narrowed", func(t *testing.T) {
		n := Narrow(intent.ParsedQuery{Type: intent.Overview, Filters: &intent.FilterSet{Status: "pending"}}, c)
		assert.Equal(t, c, n)
	})
}
