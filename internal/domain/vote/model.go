package vote

import (
	"context"
	"time"
)

type Vote struct {
	ID        int64     `json:"id"`
	VoterID   int64     `json:"voter_id"`
	OptionID  int64     `json:"option_id"`
	PollID    int64     `json:"poll_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is the vote side of the store. CreateVote must be atomic
// with respect to the (voter, option) uniqueness constraint: it reports
// ErrDuplicateVote, ErrVoterNotFound or ErrOptionNotFound from the store's
// own constraints and never checks before inserting.
type Repository interface {
	CreateVote(ctx context.Context, voterID, optionID int64) (*Vote, error)
	CountVotesForOption(ctx context.Context, optionID int64) (int64, error)
	CountVotesByPoll(ctx context.Context, pollID int64) (map[int64]int64, error)
}
