package results

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livepoll/internal/domain/poll"
)

type fakeStore struct {
	mu      sync.Mutex
	polls   map[int64]*poll.Poll
	options map[int64][]poll.Option
	votes   map[int64]int64 // option id -> count
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		polls:   make(map[int64]*poll.Poll),
		options: make(map[int64][]poll.Option),
		votes:   make(map[int64]int64),
	}
}

func (s *fakeStore) addPoll(id int64, texts ...string) []poll.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[id] = &poll.Poll{ID: id, Question: "q"}
	opts := make([]poll.Option, len(texts))
	for i, text := range texts {
		opts[i] = poll.Option{ID: id*100 + int64(i) + 1, PollID: id, Text: text}
	}
	s.options[id] = opts
	return opts
}

func (s *fakeStore) vote(optionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[optionID]++
}

func (s *fakeStore) GetPoll(ctx context.Context, id int64) (*poll.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.polls[id]
	if !ok {
		return nil, poll.ErrPollNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) GetOptionsByPoll(ctx context.Context, pollID int64) ([]poll.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]poll.Option(nil), s.options[pollID]...), nil
}

func (s *fakeStore) CountVotesByPoll(ctx context.Context, pollID int64) (map[int64]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	res := make(map[int64]int64)
	for _, o := range s.options[pollID] {
		if c := s.votes[o.ID]; c > 0 {
			res[o.ID] = c
		}
	}
	return res, nil
}

func TestComputeKnownDistribution(t *testing.T) {
	store := newFakeStore()
	opts := store.addPoll(1, "red", "green", "blue")
	for _, idx := range []int{0, 0, 1, 1, 2} {
		store.vote(opts[idx].ID)
	}

	snap, err := NewAggregator(store, store).Compute(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), snap.PollID)
	assert.Equal(t, int64(5), snap.TotalVotes)
	require.Len(t, snap.Results, 3)
	assert.Equal(t, []OptionResult{
		{OptionID: opts[0].ID, Text: "red", VoteCount: 2},
		{OptionID: opts[1].ID, Text: "green", VoteCount: 2},
		{OptionID: opts[2].ID, Text: "blue", VoteCount: 1},
	}, snap.Results)
}

func TestComputeReportsZeroForUnvotedOptions(t *testing.T) {
	store := newFakeStore()
	opts := store.addPoll(2, "a", "b")

	agg := NewAggregator(store, store)
	before, err := agg.Compute(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), before.Count(opts[0].ID))
	assert.Equal(t, int64(0), before.Count(opts[1].ID))

	store.vote(opts[1].ID)
	after, err := agg.Compute(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, before.Count(opts[1].ID)+1, after.Count(opts[1].ID))
	assert.Equal(t, int64(-1), after.Count(12345))
}

func TestComputeUnknownPoll(t *testing.T) {
	store := newFakeStore()
	_, err := NewAggregator(store, store).Compute(context.Background(), 404)
	assert.ErrorIs(t, err, poll.ErrPollNotFound)
}

func TestComputePropagatesCountError(t *testing.T) {
	store := newFakeStore()
	store.addPoll(3, "x")
	store.err = errors.New("boom")
	_, err := NewAggregator(store, store).Compute(context.Background(), 3)
	assert.EqualError(t, err, "boom")
}
