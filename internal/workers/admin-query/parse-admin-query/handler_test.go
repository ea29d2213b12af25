package parseadminquery

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storefront-admin/internal/adminquery"
	"storefront-admin/internal/adminquery/intent"
	"storefront-admin/internal/common/camunda/camundatest"
	"storefront-admin/internal/common/errors"
	"storefront-admin/internal/common/logger"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func createTestConfig() *Config {
	return &Config{
		Timeout:        5 * time.Second,
		MaxQueryLength: 200,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func createTestHandler(t *testing.T) *Handler {
	log := createTestLogger(t)
	engine := adminquery.NewEngine(
		adminquery.WithClock(func() time.Time { return fixedNow }),
		adminquery.WithLogger(log),
	)
	return NewHandler(createTestConfig(), engine, log)
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantType   intent.IntentType
		wantStatus string
		wantErr    errors.ErrorCode
	}{
		{name: "pending orders", query: "how many pending orders?", wantType: intent.OrderCount, wantStatus: "pending"},
		{name: "arabic catalog count", query: "كم عدد المنتجات؟", wantType: intent.CatalogCount},
		{name: "surrounding whitespace", query: "   unread messages  ", wantType: intent.MessageUnread},
		{name: "unrecognised text", query: "what's the weather like", wantType: intent.Unknown},
		{name: "empty query", query: "", wantType: intent.Unknown},
		{name: "blank query", query: " \t\n", wantType: intent.Unknown},
		{name: "too long", query: strings.Repeat("orders ", 50), wantErr: errors.ErrCodeAdminQueryInvalid},
	}

	h := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &Input{Query: tt.query})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, out.ParsedQuery.Type)
			if tt.wantStatus != "" {
				require.NotNil(t, out.ParsedQuery.Filters)
				assert.Equal(t, tt.wantStatus, out.ParsedQuery.Filters.Status)
			}
		})
	}
}

func TestHandler_Execute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := createTestHandler(t).Execute(ctx, &Input{Query: "how many products"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandler_Handle_CompletesJob(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(t, TaskType, map[string]string{"query": "how many pending orders?"})

	createTestHandler(t).Handle(client, job)

	var out Output
	client.DecodeCompleted(t, &out)
	assert.Equal(t, intent.OrderCount, out.ParsedQuery.Type)
	assert.Equal(t, job.Key, client.Completed()[0].JobKey)
}

func TestHandler_Handle_BlankQueryIsUnknown(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(t, TaskType, map[string]string{"query": "   "})

	createTestHandler(t).Handle(client, job)

	var out Output
	client.DecodeCompleted(t, &out)
	assert.Equal(t, intent.Unknown, out.ParsedQuery.Type)
	assert.Equal(t, intent.ConfidenceNone, out.ParsedQuery.Confidence)
	assert.Empty(t, client.Thrown())
}

func TestHandler_Handle_ThrowsOnOversizedQuery(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(t, TaskType, map[string]string{"query": strings.Repeat("orders ", 50)})

	createTestHandler(t).Handle(client, job)

	assert.Empty(t, client.Completed())
	assert.Empty(t, client.Failed())
	thrown := client.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, "ADMIN_QUERY_INVALID", thrown[0].ErrorCode)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(thrown[0].Variables), &vars))
	assert.Equal(t, "ADMIN_QUERY_INVALID", vars["originalErrorCode"])
}

func TestHandler_Handle_InvalidVariables(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(t, TaskType, map[string]int{"query": 42})

	createTestHandler(t).Handle(client, job)

	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "ADMIN_QUERY_INVALID", client.Thrown()[0].ErrorCode)
}
