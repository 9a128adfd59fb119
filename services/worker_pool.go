package services

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/xpress-inn/feedback-api/config"
	"github.com/xpress-inn/feedback-api/logger"
)

// jobTimeout bounds a single job's execution so a slow email send cannot
// wedge a worker.
const jobTimeout = 30 * time.Second

// Job is a unit of background work.
type Job struct {
	// Name identifies the job in logs and metrics.
	Name string
	// Execute performs the work. The context carries the job timeout and
	// is cancelled when the pool shuts down.
	Execute func(ctx context.Context) error
}

// WorkerPool runs jobs on a bounded set of workers fed from a bounded
// queue. Submission never blocks: when the queue is full the job is
// dropped and counted. Used for fire-and-forget notification dispatch so
// request handlers never wait on email delivery.
type WorkerPool struct {
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	log      *zap.SugaredLogger
	metrics  *workerPoolMetrics
	config   config.WorkerPoolConfig
	mu       sync.Mutex
	running  bool
}

type workerPoolMetrics struct {
	queueDepth    prometheus.Gauge
	completedJobs prometheus.Counter
	droppedJobs   prometheus.Counter
	errorCount    prometheus.Counter
	jobDuration   prometheus.Histogram
}

// Metrics are process-wide singletons so pools created in tests do not
// trip duplicate registration.
var (
	wpMetricsInstance *workerPoolMetrics
	wpMetricsOnce     sync.Once
	wpRegistry        = prometheus.DefaultRegisterer
)

func newWorkerPoolMetrics() *workerPoolMetrics {
	wpMetricsOnce.Do(func() {
		wpMetricsInstance = &workerPoolMetrics{
			queueDepth: promauto.With(wpRegistry).NewGauge(prometheus.GaugeOpts{
				Name: "notification_worker_pool_queue_depth",
				Help: "Current number of jobs waiting in queue",
			}),
			completedJobs: promauto.With(wpRegistry).NewCounter(prometheus.CounterOpts{
				Name: "notification_worker_pool_completed_jobs_total",
				Help: "Total number of completed jobs",
			}),
			droppedJobs: promauto.With(wpRegistry).NewCounter(prometheus.CounterOpts{
				Name: "notification_worker_pool_dropped_jobs_total",
				Help: "Total number of jobs dropped due to full queue",
			}),
			errorCount: promauto.With(wpRegistry).NewCounter(prometheus.CounterOpts{
				Name: "notification_worker_pool_errors_total",
				Help: "Total number of job execution errors",
			}),
			jobDuration: promauto.With(wpRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "notification_worker_pool_job_duration_seconds",
				Help:    "Time taken to execute jobs",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			}),
		}
	})
	return wpMetricsInstance
}

// resetWorkerPoolMetricsForTesting resets the metrics singleton. Tests only.
func resetWorkerPoolMetricsForTesting() {
	wpRegistry = prometheus.NewRegistry()
	wpMetricsInstance = nil
	wpMetricsOnce = sync.Once{}
}

// NewWorkerPool creates a worker pool. Call Start before submitting jobs.
func NewWorkerPool(cfg config.WorkerPoolConfig) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		jobQueue: make(chan Job, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
		log:      logger.GetLogger().Named("worker-pool"),
		metrics:  newWorkerPoolMetrics(),
		config:   cfg,
	}
}

// Start launches the worker goroutines. Repeated calls are no-ops.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running {
		wp.log.Warn("Worker pool already running")
		return
	}
	wp.running = true

	wp.log.Infow("Starting worker pool",
		"maxWorkers", wp.config.MaxWorkers,
		"queueSize", wp.config.QueueSize)

	for i := 0; i < wp.config.MaxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}
			wp.executeJob(id, job)
		}
	}
}

func (wp *WorkerPool) executeJob(workerID int, job Job) {
	wp.metrics.queueDepth.Dec()
	start := time.Now()

	jobCtx, cancel := context.WithTimeout(wp.ctx, jobTimeout)
	defer cancel()

	if err := job.Execute(jobCtx); err != nil {
		wp.log.Errorw("Job execution failed",
			"job", job.Name,
			"workerId", workerID,
			"error", err,
			"duration", time.Since(start))
		wp.metrics.errorCount.Inc()
	}

	wp.metrics.jobDuration.Observe(time.Since(start).Seconds())
	wp.metrics.completedJobs.Inc()
}

// Submit queues a job without blocking. Returns false when the queue is
// full and the job was dropped, or when the pool is shutting down. The
// mutex is held across the send so a concurrent Shutdown cannot close
// the queue between the running check and the send.
func (wp *WorkerPool) Submit(job Job) bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		wp.metrics.droppedJobs.Inc()
		return false
	}

	select {
	case wp.jobQueue <- job:
		wp.metrics.queueDepth.Inc()
		return true
	default:
		wp.metrics.droppedJobs.Inc()
		wp.log.Warnw("Job dropped - queue full",
			"job", job.Name,
			"queueSize", wp.config.QueueSize)
		return false
	}
}

// Shutdown stops intake, drains queued jobs, and waits for workers until
// the context deadline. Returns ctx.Err() on timeout.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	wp.mu.Lock()
	if !wp.running {
		wp.mu.Unlock()
		return nil
	}
	wp.running = false
	// Close under the same lock Submit sends under, so no send can race
	// the close.
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.log.Info("Draining worker pool...")

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.cancel()
		wp.log.Info("Worker pool shutdown complete")
		return nil
	case <-ctx.Done():
		wp.cancel()
		wp.log.Warn("Worker pool shutdown timed out")
		return ctx.Err()
	}
}

// QueueDepth returns the number of jobs waiting in the queue.
func (wp *WorkerPool) QueueDepth() int {
	return len(wp.jobQueue)
}

// IsRunning reports whether the pool accepts jobs.
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.running
}
