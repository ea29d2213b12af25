package applyadminaction

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storefront-admin/internal/adminquery/respond"
	"storefront-admin/internal/common/camunda/camundatest"
	apperrors "storefront-admin/internal/common/errors"
	"storefront-admin/internal/common/logger"
	"storefront-admin/internal/storefront"
)

type fakeApplier struct {
	result *storefront.ActionResult
	err    error
	got    map[string]interface{}
}

func (f *fakeApplier) Apply(_ context.Context, data map[string]interface{}) (*storefront.ActionResult, error) {
	f.got = data
	return f.result, f.err
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func newExecutor(t *testing.T) (*storefront.Executor, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	repo := storefront.NewRepository(db, nil, createTestLogger(t))
	return storefront.NewExecutor(repo, nil), mock
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name     string
		action   respond.Action
		applier  *fakeApplier
		wantCode apperrors.ErrorCode
	}{
		{
			name:    "confirm action is applied",
			action:  respond.Action{Kind: respond.ActionConfirm, Data: map[string]interface{}{"operation": "delete_discount", "confirmed": true, "id": "d1"}},
			applier: &fakeApplier{result: &storefront.ActionResult{Operation: "delete_discount", Affected: 1, ID: "d1"}},
		},
		{
			name:     "navigation is not applied",
			action:   respond.Action{Kind: respond.ActionNavigate, Target: respond.TargetOrders},
			applier:  &fakeApplier{},
			wantCode: apperrors.ErrCodeActionValidationFailed,
		},
		{
			name:     "confirm without data",
			action:   respond.Action{Kind: respond.ActionConfirm},
			applier:  &fakeApplier{},
			wantCode: apperrors.ErrCodeActionValidationFailed,
		},
		{
			name:     "applier error is returned",
			action:   respond.Action{Kind: respond.ActionConfirm, Data: map[string]interface{}{"operation": "bulk", "confirmed": false}},
			applier:  &fakeApplier{err: apperrors.NewActionNotConfirmedError("bulk")},
			wantCode: apperrors.ErrCodeActionNotConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(), tt.applier, createTestLogger(t))
			out, err := h.Execute(context.Background(), &Input{Action: tt.action})
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.applier.result, out.Result)
			assert.Equal(t, tt.action.Data, tt.applier.got)
		})
	}
}

func TestHandler_Handle_AppliesBulkArchive(t *testing.T) {
	executor, mock := newExecutor(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET status = $1 WHERE id = ANY($2)")).
		WithArgs("archived", pq.Array([]string{"p1", "p2"})).
		WillReturnResult(sqlmock.NewResult(0, 2))

	client := camundatest.NewJobClient()
	job := camundatest.NewJob(t, TaskType, map[string]interface{}{
		"action": map[string]interface{}{
			"label": "Confirm",
			"kind":  "confirm",
			"data": map[string]interface{}{
				"operation":     "bulk",
				"confirmed":     true,
				"entity":        "catalog",
				"bulkOperation": "archive",
				"ids":           []string{"p1", "p2"},
			},
		},
	})

	NewHandler(createTestConfig(), executor, createTestLogger(t)).Handle(client, job)

	var out Output
	client.DecodeCompleted(t, &out)
	require.NotNil(t, out.Result)
	assert.Equal(t, "bulk", out.Result.Operation)
	assert.Equal(t, 2, out.Result.Affected)
	assert.Equal(t, []string{"p1", "p2"}, out.Result.IDs)
}

func TestHandler_Handle_CancelIsThrown(t *testing.T) {
	executor, _ := newExecutor(t)
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(t, TaskType, map[string]interface{}{
		"action": map[string]interface{}{
			"label": "Cancel",
			"kind":  "confirm",
			"data":  map[string]interface{}{"operation": "create_discount", "confirmed": false},
		},
	})

	NewHandler(createTestConfig(), executor, createTestLogger(t)).Handle(client, job)

	assert.Empty(t, client.Completed())
	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "ACTION_NOT_CONFIRMED", client.Thrown()[0].ErrorCode)
}

func TestHandler_Handle_DatabaseFailureIsRetried(t *testing.T) {
	executor, mock := newExecutor(t)
	mock.ExpectExec("DELETE FROM discount_codes").WillReturnError(errors.New("connection reset by peer"))

	client := camundatest.NewJobClient()
	job := camundatest.NewJob(t, TaskType, map[string]interface{}{
		"action": map[string]interface{}{
			"kind": "confirm",
			"data": map[string]interface{}{"operation": "delete_discount", "confirmed": true, "id": "d1", "code": "WINTER24"},
		},
	})

	NewHandler(createTestConfig(), executor, createTestLogger(t)).Handle(client, job)

	failed := client.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, int32(2), failed[0].Retries)
	assert.Contains(t, failed[0].ErrorMessage, "ACTION_EXECUTION_FAILED")
}
