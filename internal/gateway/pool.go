package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cropdeal/marketplace-backend/internal/core/ports"
)

const (
	defaultWorkers   = 8
	defaultQueueSize = 256
)

// ErrPoolSaturated is returned by Submit when the job queue is full. The
// filter treats it like any other validation failure: a generic 401.
var ErrPoolSaturated = errors.New("gateway: validation pool saturated")

// Outcome is the result of one validation job.
type Outcome struct {
	Result *ports.ValidationResult
	Err    error
}

type job struct {
	token  string
	result chan Outcome
}

// ValidationPool isolates the blocking remote validation call from the
// request-handling goroutines. A fixed set of workers drains a bounded
// queue; request handlers block only on each job's buffered result
// channel. Because the result channel has capacity one, a worker always
// completes its send even when the requesting client has disconnected;
// the result is simply discarded, never the worker.
type ValidationPool struct {
	jobs      chan job
	validator Validator
	timeout   contextFactory
	log       zerolog.Logger
	stop      sync.Once
}

// contextFactory builds the per-job context. Jobs run detached from the
// inbound request context so a client disconnect cannot abort them mid-call.
type contextFactory func() (context.Context, context.CancelFunc)

// NewValidationPool creates a pool with the given worker count and queue
// size; non-positive values fall back to the defaults. Each job's HTTP
// call is bounded by the validator's own timeout.
func NewValidationPool(workers, queueSize int, v Validator, log zerolog.Logger) *ValidationPool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	p := &ValidationPool{
		jobs:      make(chan job, queueSize),
		validator: v,
		timeout:   func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
		log:       log,
	}
	for i := 0; i < workers; i++ {
		go p.runWorker(i)
	}
	return p
}

// Submit enqueues a validation job without blocking. It fails fast with
// ErrPoolSaturated when the queue is full.
func (p *ValidationPool) Submit(token string) (<-chan Outcome, error) {
	j := job{token: token, result: make(chan Outcome, 1)}
	select {
	case p.jobs <- j:
		return j.result, nil
	default:
		return nil, ErrPoolSaturated
	}
}

// Stop drains the pool: workers exit once the queue empties. Submissions
// after Stop panic, so call it only during shutdown.
func (p *ValidationPool) Stop() {
	p.stop.Do(func() { close(p.jobs) })
}

func (p *ValidationPool) runWorker(id int) {
	for j := range p.jobs {
		ctx, cancel := p.timeout()
		result, err := p.validator.Validate(ctx, j.token)
		cancel()
		if err != nil {
			p.log.Debug().Err(err).Int("worker_id", id).Msg("token validation failed")
		}
		// Buffered send: never blocks, even if the caller is gone.
		j.result <- Outcome{Result: result, Err: err}
	}
}
