package services

import (
	"sync"

	"github.com/rs/zerolog"

	"PosInventory/app/logger"
)

// deductionJob is one queued deduction request
type deductionJob struct {
	kind        string // "sale", "void", "prep_deduct", "prep_restore"
	orderID     uint
	orderItemID uint
	voidReason  string
	employeeID  *uint
	itemIDs     []uint
	wasMade     bool
}

// DeductionWorker decouples deduction from the payment flow: callers enqueue
// and move on, results surface only to logging and metrics. A full queue
// drops the job with an error log rather than blocking the caller; a missed
// deduction must never stall a payment.
type DeductionWorker struct {
	deductionSvc *DeductionService
	prepSvc      *PrepStockService
	jobs         chan deductionJob
	stopOnce     sync.Once
	stopChan     chan struct{}
	doneChan     chan struct{}
	log          zerolog.Logger
}

// NewDeductionWorker creates a worker with the given queue capacity
func NewDeductionWorker(deductionSvc *DeductionService, prepSvc *PrepStockService, queueSize int) *DeductionWorker {
	if queueSize < 1 {
		queueSize = 64
	}
	return &DeductionWorker{
		deductionSvc: deductionSvc,
		prepSvc:      prepSvc,
		jobs:         make(chan deductionJob, queueSize),
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
		log:          logger.For("deduction_worker"),
	}
}

// Start launches the background processing loop
func (w *DeductionWorker) Start() {
	go w.run()
	w.log.Info().Int("queue_capacity", cap(w.jobs)).Msg("deduction worker started")
}

// Stop drains nothing: queued jobs still in the channel are processed, then
// the loop exits. Blocks until the loop has finished.
func (w *DeductionWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	<-w.doneChan
}

// EnqueueOrderDeduction queues the sale-path deduction for a finalized order
func (w *DeductionWorker) EnqueueOrderDeduction(orderID uint, employeeID *uint) {
	w.enqueue(deductionJob{kind: "sale", orderID: orderID, employeeID: employeeID})
}

// EnqueueVoidDeduction queues the waste-path deduction for a voided item
func (w *DeductionWorker) EnqueueVoidDeduction(orderItemID uint, voidReason string, employeeID *uint) {
	w.enqueue(deductionJob{kind: "void", orderItemID: orderItemID, voidReason: voidReason, employeeID: employeeID})
}

// EnqueuePrepDeduction queues a kitchen-send prep stock deduction
func (w *DeductionWorker) EnqueuePrepDeduction(orderID uint, itemIDs []uint) {
	w.enqueue(deductionJob{kind: "prep_deduct", orderID: orderID, itemIDs: itemIDs})
}

// EnqueuePrepRestore queues a prep stock restoration for an early void
func (w *DeductionWorker) EnqueuePrepRestore(orderID uint, itemIDs []uint, wasMade bool) {
	w.enqueue(deductionJob{kind: "prep_restore", orderID: orderID, itemIDs: itemIDs, wasMade: wasMade})
}

func (w *DeductionWorker) enqueue(job deductionJob) {
	select {
	case w.jobs <- job:
	default:
		w.log.Error().
			Str("kind", job.kind).
			Uint("order_id", job.orderID).
			Uint("order_item_id", job.orderItemID).
			Msg("deduction queue full, job dropped")
	}
}

func (w *DeductionWorker) run() {
	defer close(w.doneChan)
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		case <-w.stopChan:
			// Drain what is already queued before exiting
			for {
				select {
				case job := <-w.jobs:
					w.process(job)
				default:
					w.log.Info().Msg("deduction worker stopped")
					return
				}
			}
		}
	}
}

func (w *DeductionWorker) process(job deductionJob) {
	switch job.kind {
	case "sale":
		result := w.deductionSvc.DeductInventoryForOrder(job.orderID, job.employeeID)
		w.logResult(job, result.Success, result.Errors)
	case "void":
		result := w.deductionSvc.DeductInventoryForVoidedItem(job.orderItemID, job.voidReason, job.employeeID)
		w.logResult(job, result.Success, result.Errors)
	case "prep_deduct":
		result := w.prepSvc.DeductPrepStockForOrder(job.orderID, job.itemIDs)
		w.logResult(job, result.Success, result.Errors)
	case "prep_restore":
		result := w.prepSvc.RestorePrepStockForVoid(job.orderID, job.itemIDs, job.wasMade)
		w.logResult(job, result.Success, result.Errors)
	}
}

func (w *DeductionWorker) logResult(job deductionJob, success bool, errs []string) {
	if success {
		w.log.Debug().Str("kind", job.kind).Uint("order_id", job.orderID).Msg("deduction job completed")
		return
	}
	// Failure is log-and-move-on: the sale already happened.
	w.log.Error().
		Str("kind", job.kind).
		Uint("order_id", job.orderID).
		Uint("order_item_id", job.orderItemID).
		Strs("errors", errs).
		Msg("deduction job failed")
}
