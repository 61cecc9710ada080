package stats

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AggregatorOptions tunes the async stats worker.
type AggregatorOptions struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration
	// OnFailure is invoked after a completion could not be stored or was dropped.
	OnFailure func(c Completion, err error)
}

// Aggregator folds completed sessions into the Store off the request path.
type Aggregator struct {
	store     Store
	logger    zerolog.Logger
	queue     chan Completion
	workers   int
	timeout   time.Duration
	onFailure func(Completion, error)

	mu     sync.RWMutex
	closed bool
}

// NewAggregator creates the worker. Call Run to start consuming.
func NewAggregator(store Store, opts AggregatorOptions, logger zerolog.Logger) *Aggregator {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &Aggregator{
		store:     store,
		logger:    logger.With().Str("component", "stats_aggregator").Logger(),
		queue:     make(chan Completion, opts.QueueSize),
		workers:   opts.Workers,
		timeout:   opts.Timeout,
		onFailure: opts.OnFailure,
	}
}

// Submit enqueues a completion without blocking. A full or stopped queue drops it.
func (a *Aggregator) Submit(c Completion) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.fail(c, OutcomeDropped, errAggregatorStopped)
		return
	}
	select {
	case a.queue <- c:
	default:
		a.fail(c, OutcomeDropped, errQueueFull)
	}
}

// Run consumes the queue until ctx is cancelled, then drains what is left.
func (a *Aggregator) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range a.queue {
				a.process(c)
			}
		}()
	}

	<-ctx.Done()

	a.mu.Lock()
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	wg.Wait()
	a.logger.Info().Msg("stats aggregator drained")
	return nil
}

func (a *Aggregator) process(c Completion) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.store.Upsert(ctx, c); err != nil {
		a.fail(c, OutcomeFailed, err)
		return
	}
	aggregationsTotal.WithLabelValues(OutcomeOK).Inc()
	a.logger.Debug().
		Str("user_id", c.UserID.String()).
		Str("session_id", c.SessionID).
		Int("score", c.Score).
		Msg("stats aggregated")
}

func (a *Aggregator) fail(c Completion, outcome string, err error) {
	aggregationsTotal.WithLabelValues(outcome).Inc()
	a.logger.Error().
		Err(err).
		Str("outcome", outcome).
		Str("user_id", c.UserID.String()).
		Str("session_id", c.SessionID).
		Int("score", c.Score).
		Int("correct", c.Correct).
		Int("wrong", c.Wrong).
		Msg("stats aggregation failed")
	if a.onFailure != nil {
		a.onFailure(c, err)
	}
}
