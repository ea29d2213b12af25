package camunda

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"storefront-admin/internal/common/config"
	"storefront-admin/internal/common/observability"
)

// JobHandler completes or fails every job it is given.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type Registration struct {
	TaskType string
	Handler  JobHandler
}

// Pool is the set of job workers opened against one broker.
type Pool struct {
	workers map[string]worker.JobWorker
	logger  *zap.Logger
}

// StartWorkers opens a job worker for every enabled registration. Each job
// is traced and counted through obs.
func StartWorkers(zb zbc.Client, cfg *config.Config, regs []Registration, obs *observability.Observability, log *zap.Logger) *Pool {
	p := &Pool{workers: make(map[string]worker.JobWorker), logger: log}

	for _, reg := range regs {
		wcfg := config.GetWorkerConfig(cfg, reg.TaskType)
		if !wcfg.Enabled {
			log.Info("worker disabled", zap.String("taskType", reg.TaskType))
			continue
		}

		p.workers[reg.TaskType] = zb.NewJobWorker().
			JobType(reg.TaskType).
			Handler(Instrument(obs, reg.TaskType, reg.Handler)).
			Name(cfg.App.Name).
			MaxJobsActive(wcfg.MaxJobsActive).
			Timeout(config.GetDuration(wcfg.Timeout)).
			Open()

		log.Info("worker started",
			zap.String("taskType", reg.TaskType),
			zap.Int("maxJobsActive", wcfg.MaxJobsActive),
			zap.Int("timeoutMs", wcfg.Timeout),
		)
	}
	return p
}

// TaskTypes lists the running workers in name order.
func (p *Pool) TaskTypes() []string {
	types := make([]string, 0, len(p.workers))
	for t := range p.workers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Stop closes every worker and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	for taskType, w := range p.workers {
		p.logger.Info("stopping worker", zap.String("taskType", taskType))
		w.Close()
	}
	for _, w := range p.workers {
		w.AwaitClose()
	}
}

// Job outcomes, as inferred from the command the handler sent.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusThrown    = "error_thrown"
	StatusUnhandled = "unhandled"
)

// observedClient remembers which command a handler used to finish its job.
type observedClient struct {
	worker.JobClient
	status string
}

func (c *observedClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.status = StatusCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *observedClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.status = StatusFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *observedClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.status = StatusThrown
	return c.JobClient.NewThrowErrorCommand()
}

// Instrument wraps h with a span and the job counters of obs.
func Instrument(obs *observability.Observability, taskType string, h JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		ctx, span := obs.StartSpan(context.Background(), "job "+taskType,
			attribute.String("task_type", taskType),
			attribute.Int64("job_key", job.Key),
			attribute.Int64("process_instance_key", job.ProcessInstanceKey),
		)
		start := time.Now()

		oc := &observedClient{JobClient: client, status: StatusUnhandled}
		h.Handle(oc, job)

		var err error
		if oc.status != StatusCompleted {
			err = fmt.Errorf("job %d %s", job.Key, oc.status)
		}
		span.SetAttributes(attribute.String("status", oc.status))
		observability.EndSpan(span, err)

		if obs != nil {
			obs.RecordJobProcessed(ctx, taskType, oc.status)
			obs.RecordJobDuration(ctx, taskType, time.Since(start), oc.status)
		}
	}
}
