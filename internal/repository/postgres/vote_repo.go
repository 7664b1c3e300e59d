package postgres

import (
	"context"
	"database/sql"

	"livepoll/internal/domain/vote"
	"livepoll/internal/platform/apperr"
)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

// CreateVote inserts first and lets the unique and foreign key constraints
// decide; there is no read before the write.
func (r *VoteRepo) CreateVote(ctx context.Context, voterID, optionID int64) (*vote.Vote, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap("create vote", err)
	}
	defer tx.Rollback()

	v := &vote.Vote{VoterID: voterID, OptionID: optionID}
	err = tx.QueryRowContext(ctx, `
        INSERT INTO votes (user_id, option_id)
        VALUES ($1, $2)
        RETURNING id, created_at
    `, voterID, optionID).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, vote.ErrDuplicateVote
		}
		switch foreignKeyViolation(err) {
		case "votes_user_id_fkey":
			return nil, vote.ErrVoterNotFound
		case "votes_option_id_fkey":
			return nil, vote.ErrOptionNotFound
		}
		return nil, apperr.Wrap("create vote", err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT poll_id FROM options WHERE id = $1`, optionID).
		Scan(&v.PollID); err != nil {
		return nil, apperr.Wrap("create vote", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Wrap("create vote", err)
	}
	return v, nil
}

func (r *VoteRepo) CountVotesForOption(ctx context.Context, optionID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE option_id = $1`, optionID).Scan(&n)
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
        WHERE o.poll_id = $1
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
