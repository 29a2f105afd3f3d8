package analysislog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mikey/llm-mood-engine/internal/core"
	"go.uber.org/zap"
)

// writeTimeout bounds a single sink write
const writeTimeout = 5 * time.Second

// Dispatcher hands analysis records to a sink on background workers. Record
// never blocks: when the queue is full the record is dropped. Sink errors are
// logged and never retried.
type Dispatcher struct {
	sink    core.AnalysisLog
	logger  *zap.Logger
	workers int
	queue   chan *core.AnalysisRecord

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	written atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// NewDispatcher creates a dispatcher. Call Start before recording.
func NewDispatcher(sink core.AnalysisLog, logger *zap.Logger, queueSize int, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		sink:    sink,
		logger:  logger,
		workers: workers,
		queue:   make(chan *core.AnalysisRecord, queueSize),
	}
}

// Start launches the worker goroutines
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.logger.Debug("Analysis log dispatcher started", zap.Int("workers", d.workers))
}

// Record queues a record for writing
func (d *Dispatcher) Record(record *core.AnalysisRecord) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.dropped.Add(1)
		return
	}

	select {
	case d.queue <- record:
	default:
		d.dropped.Add(1)
		d.logger.Warn("Analysis log queue full, dropping record",
			zap.String("processing_id", record.ProcessingID))
	}
}

// Stop drains the queue and waits for the workers to finish
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("Analysis log dispatcher stopped",
		zap.Int64("written", d.written.Load()),
		zap.Int64("failed", d.failed.Load()),
		zap.Int64("dropped", d.dropped.Load()))
}

// Stats returns the written, failed and dropped counts
func (d *Dispatcher) Stats() (written, failed, dropped int64) {
	return d.written.Load(), d.failed.Load(), d.dropped.Load()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for record := range d.queue {
		d.write(record)
	}
}

func (d *Dispatcher) write(record *core.AnalysisRecord) {
	defer func() {
		if r := recover(); r != nil {
			d.failed.Add(1)
			d.logger.Error("Analysis log sink panicked", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := d.sink.AppendAnalysis(ctx, record); err != nil {
		d.failed.Add(1)
		d.logger.Error("Failed to write analysis log record",
			zap.String("processing_id", record.ProcessingID),
			zap.Error(err))
		return
	}
	d.written.Add(1)
}
