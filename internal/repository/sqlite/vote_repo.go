package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"livepoll/internal/domain/vote"
	"livepoll/internal/platform/apperr"
)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

// CreateVote inserts first and lets the unique index and foreign keys
// decide. Only after a foreign key failure are the referenced rows looked up,
// to tell a missing voter from a missing option.
func (r *VoteRepo) CreateVote(ctx context.Context, voterID, optionID int64) (*vote.Vote, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap("create vote", err)
	}
	defer tx.Rollback()

	created := now()
	v := &vote.Vote{VoterID: voterID, OptionID: optionID, CreatedAt: fromUnix(created)}
	err = tx.QueryRowContext(ctx, `
        INSERT INTO votes (user_id, option_id, created_at)
        VALUES (?, ?, ?)
        RETURNING id
    `, voterID, optionID, created).Scan(&v.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, vote.ErrDuplicateVote
		}
		if isForeignKeyViolation(err) {
			return nil, r.missingReference(ctx, tx, voterID)
		}
		return nil, apperr.Wrap("create vote", err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT poll_id FROM options WHERE id = ?`, optionID).
		Scan(&v.PollID); err != nil {
		return nil, apperr.Wrap("create vote", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Wrap("create vote", err)
	}
	return v, nil
}

func (r *VoteRepo) missingReference(ctx context.Context, tx *sql.Tx, voterID int64) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, voterID).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return vote.ErrVoterNotFound
	case err != nil:
		return apperr.Wrap("create vote", err)
	default:
		return vote.ErrOptionNotFound
	}
}

func (r *VoteRepo) CountVotesForOption(ctx context.Context, optionID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE option_id = ?`, optionID).Scan(&n)
	if err != nil {
		return 0, apperr.Wrap("count votes", err)
	}
	return n, nil
}

func (r *VoteRepo) CountVotesByPoll(ctx context.Context, pollID int64) (map[int64]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT v.option_id, COUNT(*)
        FROM votes v
        JOIN options o ON o.id = v.option_id
        WHERE o.poll_id = ?
        GROUP BY v.option_id
    `, pollID)
	if err != nil {
		return nil, apperr.Wrap("count votes", err)
	}
	defer rows.Close()

	res := make(map[int64]int64)
	for rows.Next() {
		var optID, c int64
		if err := rows.Scan(&optID, &c); err != nil {
			return nil, apperr.Wrap("count votes", err)
		}
		res[optID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap("count votes", err)
	}
	return res, nil
}
