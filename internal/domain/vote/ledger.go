package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrInvalidVote    = errors.New("invalid vote")
	ErrDuplicateVote  = errors.New("user has already voted for this option")
	ErrVoterNotFound  = errors.New("voter not found")
	ErrOptionNotFound = errors.New("option not found")
)

// Notifier is told about every poll whose results changed. Implementations
// must return immediately.
type Notifier interface {
	Notify(pollID int64)
}

type Ledger struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
}

func NewLedger(repo Repository, notifier Notifier, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{repo: repo, notifier: notifier, logger: logger}
}

// Commit records a single vote. A successful commit is final: nothing that
// happens after it (aggregation, broadcast) can undo it.
func (l *Ledger) Commit(ctx context.Context, voterID, optionID int64) (*Vote, error) {
	if voterID <= 0 {
		return nil, fmt.Errorf("%w: voter_id must be positive", ErrInvalidVote)
	}
	if optionID <= 0 {
		return nil, fmt.Errorf("%w: option_id must be positive", ErrInvalidVote)
	}

	v, err := l.repo.CreateVote(ctx, voterID, optionID)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("vote committed",
		"vote_id", v.ID,
		"voter_id", v.VoterID,
		"option_id", v.OptionID,
		"poll_id", v.PollID,
	)
	if l.notifier != nil {
		l.notifier.Notify(v.PollID)
	}
	return v, nil
}

// CountForOption returns the committed vote count of a single option.
func (l *Ledger) CountForOption(ctx context.Context, optionID int64) (int64, error) {
	return l.repo.CountVotesForOption(ctx, optionID)
}
