package camunda

import (
	"context"
	"sync"
	"time"

	"invoice-template-workers/internal/common/config"
	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/common/metrics"
	"invoice-template-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// WorkerPool opens job workers on one Zeebe client and closes them together.
type WorkerPool struct {
	client zbc.Client
	obs    *observability.Observability
	logger logger.Logger

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorkerPool(client zbc.Client, obs *observability.Observability, log logger.Logger) *WorkerPool {
	return &WorkerPool{
		client:  client,
		obs:     obs,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a worker for taskType unless it is disabled in wcfg.
func (p *WorkerPool) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) {
	if !wcfg.Enabled {
		p.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	jw := p.client.NewJobWorker().
		JobType(taskType).
		Handler(p.instrument(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	p.mu.Lock()
	p.workers[taskType] = jw
	p.mu.Unlock()

	p.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
}

// Running lists the task types with an open worker.
func (p *WorkerPool) Running() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, len(p.workers))
	for taskType := range p.workers {
		out = append(out, taskType)
	}
	return out
}

// Close stops every worker and waits for in-flight jobs, bounded by ctx.
func (p *WorkerPool) Close(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var wg sync.WaitGroup
	for taskType, jw := range p.workers {
		wg.Add(1)
		go func(taskType string, jw worker.JobWorker) {
			defer wg.Done()
			jw.Close()
			jw.AwaitClose()
			p.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
		}(taskType, jw)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("workers did not stop before deadline", map[string]interface{}{"error": ctx.Err().Error()})
	}
	p.workers = make(map[string]worker.JobWorker)
}

func (p *WorkerPool) instrument(taskType string, handler worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer func() {
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			if p.obs != nil {
				ctx := context.Background()
				p.obs.RecordJobProcessed(ctx, taskType)
				p.obs.RecordJobDuration(ctx, taskType, time.Since(start))
			}
		}()
		handler(client, job)
	}
}
