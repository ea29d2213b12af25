package answeradminquery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"storefront-admin/internal/adminquery"
	"storefront-admin/internal/common/errors"
	"storefront-admin/internal/common/logger"
	"storefront-admin/internal/common/metrics"
	"storefront-admin/internal/models"
)

const (
	TaskType = "answer-admin-query"
)

type CollectionLoader interface {
	LoadCollections(ctx context.Context) (models.Collections, error)
}

type Handler struct {
	config       *Config
	engine       *adminquery.Engine
	loader       CollectionLoader
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, engine *adminquery.Engine, loader CollectionLoader, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		loader:       loader,
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

// Execute loads the store and answers the query against it. The stats in
// the answer always cover the whole store.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	query := strings.TrimSpace(input.Query)
	if h.config.MaxQueryLength > 0 && utf8.RuneCountInString(query) > h.config.MaxQueryLength {
		return nil, errors.NewAdminQueryInvalidError(
			fmt.Sprintf("query exceeds %d characters", h.config.MaxQueryLength))
	}

	collections, err := h.loader.LoadCollections(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.engine.Answer(ctx, query, collections, input.IsRightToLeft)
	if err != nil {
		return nil, err
	}

	return &Output{
		ParsedQuery: result.Parsed,
		Response:    result.Response,
	}, nil
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
