// Package adminquery answers free-text admin questions about the store.
//
// The pipeline is parse, narrow, aggregate, synthesize. Every stage is a pure
// function of its inputs; the Engine only adds tracing, metrics and logging.
package adminquery

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"storefront-admin/internal/adminquery/intent"
	"storefront-admin/internal/adminquery/respond"
	"storefront-admin/internal/adminquery/search"
	"storefront-admin/internal/adminquery/stats"
	"storefront-admin/internal/common/logger"
	"storefront-admin/internal/common/metrics"
	"storefront-admin/internal/models"
)

const tracerName = "storefront-admin/adminquery"

// Result is the outcome of one answered query.
type Result struct {
	Parsed   intent.ParsedQuery        `json:"parsedQuery"`
	Stats    stats.StatsSnapshot       `json:"stats"`
	Response respond.GeneratedResponse `json:"response"`
}

type Engine struct {
	parser        *intent.Parser
	aggregator    *stats.Aggregator
	logger        logger.Logger
	tracer        trace.Tracer
	minConfidence int
}

type Option func(*engineOptions)

type engineOptions struct {
	now           func() time.Time
	statsOpts     []stats.Option
	logger        logger.Logger
	tracer        trace.Tracer
	minConfidence int
}

// WithClock fixes "now" for date filters and the stats snapshot.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.now = now }
}

func WithStatsOptions(opts ...stats.Option) Option {
	return func(o *engineOptions) { o.statsOpts = append(o.statsOpts, opts...) }
}

func WithLogger(l logger.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *engineOptions) { o.tracer = t }
}

// WithMinConfidence sets the confidence below which a classification is
// logged as a warning.
func WithMinConfidence(c int) Option {
	return func(o *engineOptions) { o.minConfidence = c }
}

func NewEngine(opts ...Option) *Engine {
	o := &engineOptions{minConfidence: intent.ConfidenceFallback}
	for _, opt := range opts {
		opt(o)
	}

	var parserOpts []intent.Option
	statsOpts := o.statsOpts
	if o.now != nil {
		parserOpts = append(parserOpts, intent.WithClock(o.now))
		statsOpts = append([]stats.Option{stats.WithClock(o.now)}, statsOpts...)
	}
	if o.logger == nil {
		o.logger = logger.NewNoOpLogger()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	return &Engine{
		parser:        intent.NewParser(parserOpts...),
		aggregator:    stats.NewAggregator(statsOpts...),
		logger:        o.logger.WithFields(map[string]interface{}{"component": "adminquery"}),
		tracer:        o.tracer,
		minConfidence: o.minConfidence,
	}
}

// Parse classifies text and extracts its filters.
func (e *Engine) Parse(ctx context.Context, text string) intent.ParsedQuery {
	_, span := e.tracer.Start(ctx, "adminquery.parse")
	defer span.End()

	q := e.parser.Parse(text)
	span.SetAttributes(
		attribute.String("intent", string(q.Type)),
		attribute.Int("confidence", q.Confidence),
		attribute.Bool("filtered", q.Filters != nil),
	)

	metrics.AdminQueryIntents.WithLabelValues(string(q.Type)).Inc()
	metrics.AdminQueryConfidence.Observe(float64(q.Confidence))

	fields := map[string]interface{}{
		"intent":     string(q.Type),
		"confidence": q.Confidence,
	}
	if q.Confidence < e.minConfidence {
		e.logger.Warn("low confidence classification", fields)
	} else {
		e.logger.Debug("query classified", fields)
	}
	return q
}

// Stats aggregates the full, unfiltered collections.
func (e *Engine) Stats(ctx context.Context, c models.Collections) stats.StatsSnapshot {
	_, span := e.tracer.Start(ctx, "adminquery.aggregate", trace.WithAttributes(
		attribute.Int("catalog", len(c.Catalog)),
		attribute.Int("orders", len(c.Orders)),
		attribute.Int("messages", len(c.Messages)),
		attribute.Int("discountCodes", len(c.DiscountCodes)),
	))
	defer span.End()

	return e.aggregator.Aggregate(c.Catalog, c.Orders, c.Messages, c.DiscountCodes)
}

// Respond narrows c for q and renders the response against snapshot s.
func (e *Engine) Respond(ctx context.Context, q intent.ParsedQuery, s stats.StatsSnapshot, c models.Collections, rightToLeft bool) respond.GeneratedResponse {
	_, span := e.tracer.Start(ctx, "adminquery.respond", trace.WithAttributes(
		attribute.String("intent", string(q.Type)),
		attribute.Bool("rtl", rightToLeft),
	))
	defer span.End()

	n := Narrow(q, c)
	resp := respond.Synthesize(q, s, n.Catalog, n.Orders, n.Messages, n.DiscountCodes, rightToLeft)
	span.SetAttributes(
		attribute.String("kind", string(resp.Kind)),
		attribute.Int("actions", len(resp.Actions)),
	)
	return resp
}

// Answer runs the whole pipeline. Any text, blank included, yields a
// response; the only error is a done context.
func (e *Engine) Answer(ctx context.Context, text string, c models.Collections, rightToLeft bool) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "adminquery.answer")
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	q := e.Parse(ctx, text)
	s := e.Stats(ctx, c)
	resp := e.Respond(ctx, q, s, c, rightToLeft)

	e.logger.Info("query answered", map[string]interface{}{
		"intent":  string(q.Type),
		"kind":    string(resp.Kind),
		"actions": len(resp.Actions),
		"rtl":     rightToLeft,
	})

	return &Result{Parsed: q, Stats: s, Response: resp}, nil
}

// Narrow applies the query's filters and search term to the collection of
// the query's entity. The other collections are returned unchanged since
// filters such as status are entity specific. Create, update and delete of
// discount codes see every code so duplicates and targets can be found.
func Narrow(q intent.ParsedQuery, c models.Collections) models.Collections {
	entity := q.Type.Entity()
	if q.Type == intent.BulkOperation && q.Bulk != nil {
		entity = q.Bulk.Entity
		// Active and inactive words name the operation or its scope here.
		if q.Filters != nil && q.Filters.IsActive != nil {
			f := *q.Filters
			f.IsActive = nil
			q.Filters = &f
		}
	}

	term := q.SearchTerm
	if q.Type == intent.DiscountSearch && term == "" {
		term = q.TargetCode
	}
	if q.Filters == nil && term == "" {
		return c
	}

	out := c
	switch entity {
	case intent.EntityCatalog:
		out.Catalog = search.Catalog(c.Catalog, term, q.Filters)
	case intent.EntityOrders:
		out.Orders = search.Orders(c.Orders, term, q.Filters)
	case intent.EntityMessages:
		out.Messages = search.Messages(c.Messages, term, q.Filters)
	case intent.EntityDiscounts:
		switch q.Type {
		case intent.DiscountCreate, intent.DiscountUpdate, intent.DiscountDelete:
		default:
			out.DiscountCodes = search.DiscountCodes(c.DiscountCodes, term, q.Filters)
		}
	}
	return out
}
