package aggregatestorestats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"storefront-admin/internal/adminquery"
	"storefront-admin/internal/adminquery/stats"
	"storefront-admin/internal/common/errors"
	"storefront-admin/internal/common/logger"
	"storefront-admin/internal/common/metrics"
	"storefront-admin/internal/models"
)

const (
	TaskType = "aggregate-store-stats"
)

type CollectionLoader interface {
	LoadCollections(ctx context.Context) (models.Collections, error)
}

type SnapshotCache interface {
	Get(ctx context.Context) (*stats.StatsSnapshot, bool, error)
	Set(ctx context.Context, snap stats.StatsSnapshot) error
}

type Handler struct {
	config       *Config
	engine       *adminquery.Engine
	loader       CollectionLoader
	cache        SnapshotCache
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler. cache may be nil.
func NewHandler(config *Config, engine *adminquery.Engine, loader CollectionLoader, cache SnapshotCache, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		loader:       loader,
		cache:        cache,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	tracker := metrics.StartJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, tracker, errors.NewAdminQueryInvalidError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, tracker, err)
		return
	}

	h.completeJob(client, job, tracker, output)
}

// Execute returns the cached snapshot when there is one, otherwise it loads
// the store, aggregates it and caches the result. Cache failures only cost a
// reload.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.cache != nil && !input.ForceRefresh {
		snap, ok, err := h.cache.Get(ctx)
		if err != nil {
			h.logger.Warn("stats cache read failed", map[string]interface{}{"error": err.Error()})
		} else if ok {
			return &Output{Stats: *snap, Cached: true}, nil
		}
	}

	collections, err := h.loader.LoadCollections(ctx)
	if err != nil {
		return nil, err
	}
	snap := h.engine.Stats(ctx, collections)

	if h.cache != nil {
		if err := h.cache.Set(ctx, snap); err != nil {
			h.logger.Warn("stats cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	h.logger.Info("store stats aggregated", map[string]interface{}{
		"products": snap.Catalog.Total,
		"orders":   snap.Orders.Total,
		"messages": snap.Messages.Total,
	})
	return &Output{Stats: snap}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, tracker *metrics.JobTracker, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.failJob(client, job, tracker, fmt.Errorf("encode output: %w", err))
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		tracker.Failed("COMPLETE_JOB_FAILED")
		return
	}
	tracker.Done()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, tracker *metrics.JobTracker, err error) {
	tracker.Failed(string(errors.Normalize(err).Code))
	h.errorHandler.HandleJobError(context.Background(), client, job, err)
}
