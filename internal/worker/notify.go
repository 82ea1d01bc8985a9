package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Channel selects how a notification is delivered.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Task represents a notification to be delivered out-of-band
type Task struct {
	Channel   Channel
	Recipient string
	Subject   string
	Body      string
}

// Provider delivers a notification over one channel
type Provider interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// NotifyPool manages a pool of delivery worker goroutines with a buffered
// channel. Providers are registered per delivery channel.
type NotifyPool struct {
	taskQueue chan Task
	providers map[Channel]Provider
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewNotifyPool creates a notification worker pool
func NewNotifyPool(workerCount int, queueSize int, providers map[Channel]Provider) *NotifyPool {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &NotifyPool{
		taskQueue: make(chan Task, queueSize),
		providers: providers,
		ctx:       ctx,
		cancel:    cancel,
	}

	for i := 0; i < workerCount; i++ {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	zap.L().Info("notification worker pool started", zap.Int("workers", workerCount))
	return pool
}

// Stop gracefully stops the worker pool
func (p *NotifyPool) Stop() {
	zap.L().Info("stopping notification worker pool")
	p.cancel()
	close(p.taskQueue)
	p.wg.Wait()
	zap.L().Info("notification worker pool stopped")
}

// Enqueue adds a task to the queue (non-blocking, will log if pool is shutting down)
func (p *NotifyPool) Enqueue(task Task) {
	select {
	case p.taskQueue <- task:
		// Task enqueued successfully
	case <-p.ctx.Done():
		zap.L().Warn("worker pool is shutting down, discarding task")
	}
}

// Private helper methods

func (p *NotifyPool) worker(id int) {
	defer p.wg.Done()

	zap.L().Info("notification worker started", zap.Int("worker_id", id))

	for {
		select {
		case task, ok := <-p.taskQueue:
			if !ok {
				zap.L().Info("notification worker stopped", zap.Int("worker_id", id))
				return
			}

			p.handleTask(id, task)

		case <-p.ctx.Done():
			zap.L().Info("notification worker shutting down", zap.Int("worker_id", id))
			return
		}
	}
}

func (p *NotifyPool) handleTask(workerID int, task Task) {
	provider, ok := p.providers[task.Channel]
	if !ok {
		zap.L().Error("no provider for channel",
			zap.Int("worker_id", workerID), zap.String("channel", string(task.Channel)))
		return
	}

	if err := provider.Send(p.ctx, task.Recipient, task.Subject, task.Body); err != nil {
		zap.L().Error("failed to deliver notification",
			zap.Int("worker_id", workerID),
			zap.String("channel", string(task.Channel)),
			zap.String("recipient", task.Recipient),
			zap.Error(err))
		return
	}

	zap.L().Info("notification delivered",
		zap.Int("worker_id", workerID),
		zap.String("channel", string(task.Channel)),
		zap.String("recipient", task.Recipient))
}
