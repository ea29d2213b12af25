// Package storefront reads and writes the store records the admin query
// pipeline works on. Products, orders and discount codes live in PostgreSQL;
// inbox messages live in Elasticsearch.
package storefront

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/lib/pq"

	"storefront-admin/internal/common/errors"
	"storefront-admin/internal/common/logger"
	"storefront-admin/internal/models"
)

const (
	DefaultMessagesIndex = "storefront-messages"
	DefaultMessagesLimit = 1000
)

const selectProducts = `
	SELECT id, title, COALESCE(title_ar, ''), COALESCE(description, ''), COALESCE(description_ar, ''),
	       COALESCE(category, ''), status, price, stock, COALESCE(sku, ''), tags, created_at
	FROM products
	ORDER BY created_at, id`

const selectOrders = `
	SELECT id, order_number, customer_name, COALESCE(customer_email, ''), COALESCE(customer_phone, ''),
	       status, payment_status, COALESCE(payment_method, ''), items, total, created_at
	FROM orders
	ORDER BY created_at, id`

const selectDiscountCodes = `
	SELECT id, code, COALESCE(description, ''), type, value, COALESCE(min_order_amount, 0),
	       COALESCE(usage_limit, 0), used_count, one_user_only, is_active, starts_at, expires_at, created_at
	FROM discount_codes
	ORDER BY created_at, id`

type Repository struct {
	db            *sql.DB
	es            *elasticsearch.Client
	messagesIndex string
	messagesLimit int
	logger        logger.Logger
}

type RepositoryOption func(*Repository)

func WithMessagesIndex(index string, limit int) RepositoryOption {
	return func(r *Repository) {
		if index != "" {
			r.messagesIndex = index
		}
		if limit > 0 {
			r.messagesLimit = limit
		}
	}
}

func NewRepository(db *sql.DB, es *elasticsearch.Client, log logger.Logger, opts ...RepositoryOption) *Repository {
	r := &Repository{
		db:            db,
		es:            es,
		messagesIndex: DefaultMessagesIndex,
		messagesLimit: DefaultMessagesLimit,
		logger:        log.WithFields(map[string]interface{}{"component": "storefront"}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadCollections reads all four collections. The first failure aborts the
// load and is returned as STORE_LOAD_FAILED.
func (r *Repository) LoadCollections(ctx context.Context) (models.Collections, error) {
	start := time.Now()
	var c models.Collections
	var err error

	if c.Catalog, err = r.Products(ctx); err != nil {
		return models.Collections{}, errors.NewStoreLoadFailedError("products", err)
	}
	if c.Orders, err = r.Orders(ctx); err != nil {
		return models.Collections{}, errors.NewStoreLoadFailedError("orders", err)
	}
	if c.DiscountCodes, err = r.DiscountCodes(ctx); err != nil {
		return models.Collections{}, errors.NewStoreLoadFailedError("discount_codes", err)
	}
	if c.Messages, err = r.Messages(ctx); err != nil {
		return models.Collections{}, errors.NewStoreLoadFailedError("messages", err)
	}

	r.logger.Info("collections loaded", map[string]interface{}{
		"products":      len(c.Catalog),
		"orders":        len(c.Orders),
		"discountCodes": len(c.DiscountCodes),
		"messages":      len(c.Messages),
		"durationMs":    time.Since(start).Milliseconds(),
	})
	return c, nil
}

func (r *Repository) Products(ctx context.Context) ([]models.CatalogItem, error) {
	rows, err := r.db.QueryContext(ctx, selectProducts)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	items := []models.CatalogItem{}
	for rows.Next() {
		var it models.CatalogItem
		var tags pq.StringArray
		if err := rows.Scan(
			&it.ID, &it.Title, &it.TitleAr, &it.Description, &it.DescriptionAr,
			&it.Category, &it.Status, &it.Price, &it.Stock, &it.SKU, &tags, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		it.Tags = []string(tags)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return items, nil
}

func (r *Repository) Orders(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrders)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var items []byte
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
			&o.Status, &o.PaymentStatus, &o.PaymentMethod, &items, &o.Total, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if len(items) > 0 {
			if err := json.Unmarshal(items, &o.Items); err != nil {
				return nil, fmt.Errorf("decode items of order %s: %w", o.ID, err)
			}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (r *Repository) DiscountCodes(ctx context.Context) ([]models.DiscountCode, error) {
	rows, err := r.db.QueryContext(ctx, selectDiscountCodes)
	if err != nil {
		return nil, fmt.Errorf("query discount codes: %w", err)
	}
	defer rows.Close()

	codes := []models.DiscountCode{}
	for rows.Next() {
		var d models.DiscountCode
		var startsAt, expiresAt sql.NullTime
		if err := rows.Scan(
			&d.ID, &d.Code, &d.Description, &d.Type, &d.Value, &d.MinOrderAmount,
			&d.UsageLimit, &d.UsedCount, &d.OneUserOnly, &d.IsActive, &startsAt, &expiresAt, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan discount code: %w", err)
		}
		d.StartsAt = nullTime(startsAt)
		d.ExpiresAt = nullTime(expiresAt)
		codes = append(codes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discount codes: %w", err)
	}
	return codes, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
