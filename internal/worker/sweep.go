package worker

import (
	"time"

	"go.uber.org/zap"

	"github.com/bako110/backend/internal/registry"
)

// SweepWorker periodically removes expired reset attempts. The registry does
// not own a background task itself; this worker is the external scheduler.
type SweepWorker struct {
	resetCodes *registry.ResetCodeRegistry
	interval   time.Duration
	stopChan   chan struct{}
}

// NewSweepWorker creates a sweep worker over the given registry
func NewSweepWorker(resetCodes *registry.ResetCodeRegistry, interval time.Duration) *SweepWorker {
	return &SweepWorker{
		resetCodes: resetCodes,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}
}

// Start starts the sweep loop
func (w *SweepWorker) Start() {
	zap.L().Info("starting reset-code sweep worker", zap.Duration("interval", w.interval))

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := w.resetCodes.SweepExpired(); removed > 0 {
					zap.L().Info("expired reset attempts removed", zap.Int("count", removed))
				}
			case <-w.stopChan:
				zap.L().Info("stopping reset-code sweep worker")
				return
			}
		}
	}()
}

// Stop stops the sweep loop
func (w *SweepWorker) Stop() {
	close(w.stopChan)
}
