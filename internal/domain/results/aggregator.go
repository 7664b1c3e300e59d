package results

import (
	"context"
	"time"

	"livepoll/internal/domain/poll"
	"livepoll/internal/metrics"
)

type PollReader interface {
	GetPoll(ctx context.Context, id int64) (*poll.Poll, error)
	GetOptionsByPoll(ctx context.Context, pollID int64) ([]poll.Option, error)
}

// VoteCounter must count every option of a poll in a single read so that
// one snapshot never mixes two points in time.
type VoteCounter interface {
	CountVotesByPoll(ctx context.Context, pollID int64) (map[int64]int64, error)
}

type Aggregator struct {
	polls PollReader
	votes VoteCounter
}

func NewAggregator(polls PollReader, votes VoteCounter) *Aggregator {
	return &Aggregator{polls: polls, votes: votes}
}

// Compute returns poll.ErrPollNotFound for an unknown poll.
func (a *Aggregator) Compute(ctx context.Context, pollID int64) (Snapshot, error) {
	start := time.Now()
	defer func() { metrics.ObserveAggregation(time.Since(start)) }()

	if _, err := a.polls.GetPoll(ctx, pollID); err != nil {
		return Snapshot{}, err
	}
	opts, err := a.polls.GetOptionsByPoll(ctx, pollID)
	if err != nil {
		return Snapshot{}, err
	}
	counts, err := a.votes.CountVotesByPoll(ctx, pollID)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		PollID:  pollID,
		Results: make([]OptionResult, 0, len(opts)),
	}
	for _, o := range opts {
		c := counts[o.ID]
		snap.TotalVotes += c
		snap.Results = append(snap.Results, OptionResult{
			OptionID:  o.ID,
			Text:      o.Text,
			VoteCount: c,
		})
	}
	return snap, nil
}
