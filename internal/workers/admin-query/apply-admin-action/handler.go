package applyadminaction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"storefront-admin/internal/adminquery/respond"
	"storefront-admin/internal/common/errors"
	"storefront-admin/internal/common/logger"
	"storefront-admin/internal/common/metrics"
	"storefront-admin/internal/storefront"
)

const (
	TaskType = "apply-admin-action"
)

// ActionApplier runs confirmed action data against the store.
type ActionApplier interface {
	Apply(ctx context.Context, data map[string]interface{}) (*storefront.ActionResult, error)
}

type Handler struct {
	config       *Config
	applier      ActionApplier
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, applier ActionApplier, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		applier:      applier,
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
		h.failJob(client, job, tracker, errors.NewActionValidationFailedError(fmt.Sprintf("parse input: %v", err)))
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

// Execute applies a confirm action. Navigation and other client-side
// actions never reach the store.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Action.Kind != respond.ActionConfirm {
		return nil, errors.NewActionValidationFailedError(
			fmt.Sprintf("action kind %q cannot be applied", input.Action.Kind))
	}
	if len(input.Action.Data) == 0 {
		return nil, errors.NewActionValidationFailedError("action has no data")
	}

	result, err := h.applier.Apply(ctx, input.Action.Data)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("action result", map[string]interface{}{
		"operation": result.Operation,
		"affected":  result.Affected,
	})
	return &Output{Result: result}, nil
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
