package storefront

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"storefront-admin/internal/adminquery/intent"
	"storefront-admin/internal/common/errors"
	"storefront-admin/internal/common/logger"
	"storefront-admin/internal/common/metrics"
	"storefront-admin/internal/common/validation"
	"storefront-admin/internal/models"
)

// ActionRequest is the data of a confirm action.
type ActionRequest struct {
	Operation     string                        `json:"operation"`
	Confirmed     bool                          `json:"confirmed"`
	Payload       *intent.CreateDiscountPayload `json:"payload,omitempty"`
	ID            string                        `json:"id,omitempty"`
	Code          string                        `json:"code,omitempty"`
	Changes       map[string]interface{}        `json:"changes,omitempty"`
	Entity        string                        `json:"entity,omitempty"`
	BulkOperation string                        `json:"bulkOperation,omitempty"`
	IDs           []string                      `json:"ids,omitempty"`
}

// ActionResult reports what an applied action changed.
type ActionResult struct {
	Operation string   `json:"operation"`
	Affected  int      `json:"affected"`
	ID        string   `json:"id,omitempty"`
	Code      string   `json:"code,omitempty"`
	Entity    string   `json:"entity,omitempty"`
	IDs       []string `json:"ids,omitempty"`
}

// Columns an update_discount action may change.
var discountColumns = map[string]string{
	"description": "description",
	"isActive":    "is_active",
	"usageLimit":  "usage_limit",
	"value":       "value",
}

var productStatusFor = map[string]string{
	intent.BulkActivate:   models.ProductStatusActive,
	intent.BulkDeactivate: models.ProductStatusDraft,
	intent.BulkArchive:    models.ProductStatusArchived,
}

var messageStatusFor = map[string]string{
	intent.BulkMarkRead: models.MessageStatusRead,
	intent.BulkArchive:  models.MessageStatusArchived,
	intent.BulkDelete:   "",
}

// EventTypeActionApplied names the event published after an action is applied.
const EventTypeActionApplied = "admin_action_applied"

// EventPublisher receives an event for every applied action.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, event interface{}) (string, error)
}

// Executor applies confirmed admin actions to the store.
type Executor struct {
	repo      *Repository
	cache     *StatsCache
	publisher EventPublisher
	logger    logger.Logger
	newID     func() string
	now       func() time.Time
}

type ExecutorOption func(*Executor)

func WithIDGenerator(f func() string) ExecutorOption {
	return func(e *Executor) { e.newID = f }
}

func WithExecutorClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) { e.now = now }
}

// WithEventPublisher announces applied actions. Publishing is best effort.
func WithEventPublisher(p EventPublisher) ExecutorOption {
	return func(e *Executor) { e.publisher = p }
}

// NewExecutor builds an executor. cache may be nil.
func NewExecutor(repo *Repository, cache *StatsCache, opts ...ExecutorOption) *Executor {
	e := &Executor{
		repo:   repo,
		cache:  cache,
		logger: repo.logger.WithFields(map[string]interface{}{"component": "executor"}),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply validates and runs the action described by data. Unconfirmed
// actions are rejected with ACTION_NOT_CONFIRMED.
func (e *Executor) Apply(ctx context.Context, data map[string]interface{}) (*ActionResult, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.NewActionValidationFailedError(err.Error())
	}
	var req ActionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, errors.NewActionValidationFailedError(err.Error())
	}

	// A cancel carries only the operation, so it is rejected before validation.
	if !req.Confirmed {
		return nil, errors.NewActionNotConfirmedError(req.Operation)
	}
	result, err := validation.ValidateAction(data)
	if err != nil {
		return nil, errors.NewActionValidationFailedError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewActionValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var res *ActionResult
	switch req.Operation {
	case validation.OpCreateDiscount:
		res, err = e.createDiscount(ctx, req.Payload)
	case validation.OpUpdateDiscount:
		res, err = e.updateDiscount(ctx, req)
	case validation.OpDeleteDiscount:
		res, err = e.deleteDiscount(ctx, req)
	case validation.OpBulk:
		res, err = e.bulk(ctx, req)
	default:
		err = errors.NewActionValidationFailedError(fmt.Sprintf("unknown operation %q", req.Operation))
	}
	if err != nil {
		return nil, err
	}

	metrics.AdminActionsApplied.WithLabelValues(req.Operation).Inc()
	e.invalidateStats(ctx)
	e.publish(ctx, res)
	e.logger.Info("action applied", map[string]interface{}{
		"operation": res.Operation,
		"affected":  res.Affected,
	})
	return res, nil
}

func (e *Executor) createDiscount(ctx context.Context, p *intent.CreateDiscountPayload) (*ActionResult, error) {
	code := strings.ToUpper(strings.TrimSpace(p.Code))
	typ := p.Type
	if typ == "" {
		typ = models.DiscountTypePercentage
	}
	value := p.Value
	if typ == models.DiscountTypeFreeShipping {
		value = 0
	} else if value <= 0 {
		return nil, errors.NewActionValidationFailedError("payload.value: must be greater than 0")
	}

	tx, err := e.repo.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM discount_codes WHERE upper(code) = $1)`, code,
	).Scan(&exists); err != nil {
		return nil, errors.NewQueryExecutionFailedError("discount_code_exists", err)
	}
	if exists {
		return nil, errors.NewDiscountCodeExistsError(code)
	}

	var usageLimit sql.NullInt64
	if p.UsageLimit > 0 {
		usageLimit = sql.NullInt64{Int64: int64(p.UsageLimit), Valid: true}
	}
	id := e.newID()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO discount_codes
			(id, code, type, value, min_order_amount, usage_limit, used_count, one_user_only, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, true, $8)`,
		id, code, typ, value, p.MinOrderAmount, usageLimit, p.OneUserOnly, e.now().UTC(),
	); err != nil {
		return nil, errors.NewActionExecutionFailedError(validation.OpCreateDiscount, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.NewActionExecutionFailedError(validation.OpCreateDiscount, err)
	}

	return &ActionResult{Operation: validation.OpCreateDiscount, Affected: 1, ID: id, Code: code}, nil
}

func (e *Executor) updateDiscount(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	fields := make([]string, 0, len(req.Changes))
	for f := range req.Changes {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	sets := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	for _, f := range fields {
		col, ok := discountColumns[f]
		if !ok {
			return nil, errors.NewActionValidationFailedError(fmt.Sprintf("changes.%s: field cannot be changed", f))
		}
		args = append(args, req.Changes[f])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, req.ID)
	query := fmt.Sprintf("UPDATE discount_codes SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	n, err := e.exec(ctx, validation.OpUpdateDiscount, query, args...)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errors.NewDiscountCodeNotFoundError(codeOrID(req))
	}
	return &ActionResult{Operation: validation.OpUpdateDiscount, Affected: n, ID: req.ID, Code: req.Code}, nil
}

func (e *Executor) deleteDiscount(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	n, err := e.exec(ctx, validation.OpDeleteDiscount, `DELETE FROM discount_codes WHERE id = $1`, req.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errors.NewDiscountCodeNotFoundError(codeOrID(req))
	}
	return &ActionResult{Operation: validation.OpDeleteDiscount, Affected: n, ID: req.ID, Code: req.Code}, nil
}

func (e *Executor) bulk(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	if !intent.BulkSupported(intent.Entity(req.Entity), req.BulkOperation) {
		return nil, unsupportedBulk(req)
	}

	var n int
	var err error

	switch intent.Entity(req.Entity) {
	case intent.EntityCatalog:
		n, err = e.bulkCatalog(ctx, req.BulkOperation, req.IDs)
	case intent.EntityDiscounts:
		n, err = e.bulkDiscounts(ctx, req.BulkOperation, req.IDs)
	case intent.EntityMessages:
		status, ok := messageStatusFor[req.BulkOperation]
		if !ok {
			return nil, unsupportedBulk(req)
		}
		n, err = e.repo.updateMessages(ctx, req.IDs, status)
		if err != nil {
			err = errors.NewActionExecutionFailedError(validation.OpBulk, err)
		}
	default:
		return nil, unsupportedBulk(req)
	}
	if err != nil {
		return nil, err
	}

	return &ActionResult{Operation: validation.OpBulk, Affected: n, Entity: req.Entity, IDs: req.IDs}, nil
}

func (e *Executor) bulkCatalog(ctx context.Context, op string, ids []string) (int, error) {
	if op == intent.BulkDelete {
		return e.exec(ctx, validation.OpBulk, `DELETE FROM products WHERE id = ANY($1)`, pq.Array(ids))
	}
	status, ok := productStatusFor[op]
	if !ok {
		return 0, unsupportedBulk(ActionRequest{Entity: string(intent.EntityCatalog), BulkOperation: op})
	}
	return e.exec(ctx, validation.OpBulk, `UPDATE products SET status = $1 WHERE id = ANY($2)`, status, pq.Array(ids))
}

func (e *Executor) bulkDiscounts(ctx context.Context, op string, ids []string) (int, error) {
	switch op {
	case intent.BulkActivate, intent.BulkDeactivate:
		return e.exec(ctx, validation.OpBulk,
			`UPDATE discount_codes SET is_active = $1 WHERE id = ANY($2)`, op == intent.BulkActivate, pq.Array(ids))
	case intent.BulkDelete:
		return e.exec(ctx, validation.OpBulk, `DELETE FROM discount_codes WHERE id = ANY($1)`, pq.Array(ids))
	default:
		return 0, unsupportedBulk(ActionRequest{Entity: string(intent.EntityDiscounts), BulkOperation: op})
	}
}

func (e *Executor) exec(ctx context.Context, op, query string, args ...interface{}) (int, error) {
	res, err := e.repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.NewActionExecutionFailedError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewActionExecutionFailedError(op, err)
	}
	return int(n), nil
}

func (e *Executor) invalidateStats(ctx context.Context) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Invalidate(ctx); err != nil {
		e.logger.Warn("stats cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func (e *Executor) publish(ctx context.Context, res *ActionResult) {
	if e.publisher == nil {
		return
	}
	event := struct {
		*ActionResult
		AppliedAt time.Time `json:"appliedAt"`
	}{res, e.now().UTC()}
	if _, err := e.publisher.Publish(ctx, EventTypeActionApplied, event); err != nil {
		e.logger.Warn("action event not published", map[string]interface{}{
			"operation": res.Operation,
			"error":     err.Error(),
		})
	}
}

func unsupportedBulk(req ActionRequest) error {
	return errors.NewActionValidationFailedError(
		fmt.Sprintf("bulk %s is not supported for %s", req.BulkOperation, req.Entity))
}

func codeOrID(req ActionRequest) string {
	if req.Code != "" {
		return req.Code
	}
	return req.ID
}
