package optimizer

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantsignal/boundary-optimizer/internal/monitoring"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// WorkerPool runs independent optimization jobs in parallel. The engine's
// entry points are synchronous and share no state, so each job only needs
// its own sample slice.
type WorkerPool struct {
	workerCount int
	jobQueue    chan OptimizationJob
	resultQueue chan OptimizationJobResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	log         zerolog.Logger
}

// OptimizationJob is a single combined-optimization task over one dataset.
type OptimizationJob struct {
	ID      string
	Samples []types.PriceMovement
	Config  config.Config
}

// OptimizationJobResult carries one job's outcome.
type OptimizationJobResult struct {
	ID       string
	Result   *CombinedOptimizationResult
	Duration time.Duration
	Error    error
}

// NewWorkerPool creates a worker pool. A non-positive workerCount defaults
// to the machine's CPU count.
func NewWorkerPool(workerCount, jobBufferSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan OptimizationJob, jobBufferSize),
		resultQueue: make(chan OptimizationJobResult, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
		log:         zerolog.Nop(),
	}
}

// WithLogger attaches a structured logger for job progress.
func (wp *WorkerPool) WithLogger(log zerolog.Logger) *WorkerPool {
	wp.log = log
	return wp
}

// Start starts the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop drains the queue and stops the workers gracefully.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// SubmitJob queues a job for execution.
func (wp *WorkerPool) SubmitJob(job OptimizationJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Results returns the channel completed jobs arrive on.
func (wp *WorkerPool) Results() <-chan OptimizationJobResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()
	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}
			result := wp.processJob(job)
			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job OptimizationJob) OptimizationJobResult {
	start := time.Now()
	result, err := NewCombinedOptimizer(job.Config).WithLogger(wp.log).Run(job.Samples)
	if err != nil {
		wp.log.Warn().Str("job", job.ID).Err(err).Msg("optimization job failed")
		monitoring.RecordOptimization("", time.Since(start), true)
	} else {
		monitoring.RecordOptimization(result.BestMethod, time.Since(start), false)
		for name, mr := range result.MethodResults {
			monitoring.RecordStrategyScore(name, mr.Score)
			if mr.Failed {
				monitoring.RecordStrategyFailure(name)
			}
		}
	}
	return OptimizationJobResult{
		ID:       job.ID,
		Result:   result,
		Duration: time.Since(start),
		Error:    err,
	}
}

// ProgressTracker tracks batch completion across goroutines.
type ProgressTracker struct {
	total     int
	completed int
	startTime time.Time
	mutex     sync.RWMutex
}

// NewProgressTracker creates a tracker for the given job count.
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{total: total, startTime: time.Now()}
}

// Increment records one completed job.
func (pt *ProgressTracker) Increment() {
	pt.mutex.Lock()
	defer pt.mutex.Unlock()
	pt.completed++
}

// Progress returns completed count, total count, percent complete and
// elapsed time.
func (pt *ProgressTracker) Progress() (int, int, float64, time.Duration) {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()
	elapsed := time.Since(pt.startTime)
	percent := 0.0
	if pt.total > 0 {
		percent = float64(pt.completed) / float64(pt.total) * 100
	}
	return pt.completed, pt.total, percent, elapsed
}
