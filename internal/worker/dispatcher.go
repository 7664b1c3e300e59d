package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"livepoll/internal/domain/poll"
	"livepoll/internal/domain/results"
)

const defaultComputeTimeout = 5 * time.Second

type Aggregator interface {
	Compute(ctx context.Context, pollID int64) (results.Snapshot, error)
}

type Publisher interface {
	Publish(pollID int64, snap results.Snapshot)
}

// Dispatcher moves result recomputation and broadcast off the request path.
// Each poll is pinned to one shard and each shard has one worker, so the
// snapshots of a poll are computed and published strictly one after another.
// Notify coalesces: a poll that is already pending is not queued twice, and
// the computation that eventually runs sees every vote committed before it.
type Dispatcher struct {
	shards         []*shard
	agg            Aggregator
	pub            Publisher
	logger         *slog.Logger
	computeTimeout time.Duration
}

type shard struct {
	mu      sync.Mutex
	queue   []int64
	pending map[int64]struct{}
	wake    chan struct{}
}

func NewDispatcher(agg Aggregator, pub Publisher, workers int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		shards:         make([]*shard, workers),
		agg:            agg,
		pub:            pub,
		logger:         logger,
		computeTimeout: defaultComputeTimeout,
	}
	for i := range d.shards {
		d.shards[i] = &shard{
			pending: make(map[int64]struct{}),
			wake:    make(chan struct{}, 1),
		}
	}
	return d
}

// Notify marks pollID as changed. It never blocks.
func (d *Dispatcher) Notify(pollID int64) {
	d.shardFor(pollID).push(pollID)
}

// Run starts one worker per shard and blocks until ctx is cancelled and
// every worker has returned. A worker drains what is already pending
// before it stops, so cancel only after the last Notify.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("publish dispatcher started", "workers", len(d.shards))
	var wg sync.WaitGroup
	for i, s := range d.shards {
		wg.Add(1)
		go func(id int, s *shard) {
			defer wg.Done()
			d.work(ctx, id, s)
		}(i, s)
	}
	wg.Wait()
	d.logger.Info("publish dispatcher stopped")
}

func (d *Dispatcher) shardFor(pollID int64) *shard {
	return d.shards[uint64(pollID)%uint64(len(d.shards))]
}

func (d *Dispatcher) work(ctx context.Context, id int, s *shard) {
	for {
		pollID, ok := s.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}
		d.process(ctx, id, pollID)
	}
}

func (d *Dispatcher) process(ctx context.Context, shardID int, pollID int64) {
	// cancellation of ctx means stop taking work, not abandon this poll
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.computeTimeout)
	defer cancel()

	snap, err := d.agg.Compute(cctx, pollID)
	if err != nil {
		// The vote is already committed; a failed recompute is only logged.
		level := slog.LevelError
		if errors.Is(err, poll.ErrPollNotFound) {
			level = slog.LevelWarn
		}
		d.logger.Log(ctx, level, "results aggregation failed",
			"poll_id", pollID,
			"shard", shardID,
			"error", err,
		)
		return
	}
	d.pub.Publish(pollID, snap)
}

func (s *shard) push(pollID int64) {
	s.mu.Lock()
	if _, ok := s.pending[pollID]; !ok {
		s.pending[pollID] = struct{}{}
		s.queue = append(s.queue, pollID)
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pop removes the oldest pending poll. Once popped, a new Notify for the
// same poll queues it again.
func (s *shard) pop() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return 0, false
	}
	pollID := s.queue[0]
	s.queue[0] = 0
	s.queue = s.queue[1:]
	delete(s.pending, pollID)
	return pollID, true
}
