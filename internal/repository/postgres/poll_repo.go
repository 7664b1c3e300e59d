package postgres

import (
	"context"
	"database/sql"
	"errors"

	"livepoll/internal/domain/poll"
	"livepoll/internal/platform/apperr"
)

type PollRepo struct {
	db *sql.DB
}

func NewPollRepo(db *sql.DB) *PollRepo {
	return &PollRepo{db: db}
}

func (r *PollRepo) Create(ctx context.Context, p *poll.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Wrap("create poll", err)
	}
	defer tx.Rollback()

	queryPoll := `
        INSERT INTO polls (question, creator_id)
        VALUES ($1, $2)
        RETURNING id, created_at
    `
	err = tx.QueryRowContext(ctx, queryPoll, p.Question, p.CreatorID).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if foreignKeyViolation(err) == "polls_creator_id_fkey" {
			return poll.ErrCreatorNotFound
		}
		return apperr.Wrap("create poll", err)
	}

	queryOpt := `
        INSERT INTO options (poll_id, text)
        VALUES ($1, $2)
        RETURNING id, created_at
    `
	for i := range p.Options {
		p.Options[i].PollID = p.ID
		if err := tx.QueryRowContext(ctx, queryOpt, p.ID, p.Options[i].Text).
			Scan(&p.Options[i].ID, &p.Options[i].CreatedAt); err != nil {
			return apperr.Wrap("create option", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap("create poll", err)
	}
	return nil
}

func (r *PollRepo) GetPoll(ctx context.Context, id int64) (*poll.Poll, error) {
	p := &poll.Poll{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, question, creator_id, created_at
        FROM polls WHERE id = $1
    `, id).Scan(&p.ID, &p.Question, &p.CreatorID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, poll.ErrPollNotFound
	}
	if err != nil {
		return nil, apperr.Wrap("get poll", err)
	}
	return p, nil
}

func (r *PollRepo) GetOptionsByPoll(ctx context.Context, pollID int64) ([]poll.Option, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, poll_id, text, created_at
        FROM options WHERE poll_id = $1
        ORDER BY id
    `, pollID)
	if err != nil {
		return nil, apperr.Wrap("get options", err)
	}
	defer rows.Close()

	opts := []poll.Option{}
	for rows.Next() {
		var o poll.Option
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.CreatedAt); err != nil {
			return nil, apperr.Wrap("get options", err)
		}
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap("get options", err)
	}
	return opts, nil
}

func (r *PollRepo) GetOption(ctx context.Context, id int64) (*poll.Option, error) {
	o := &poll.Option{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, poll_id, text, created_at
        FROM options WHERE id = $1
    `, id).Scan(&o.ID, &o.PollID, &o.Text, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, poll.ErrOptionNotFound
	}
	if err != nil {
		return nil, apperr.Wrap("get option", err)
	}
	return o, nil
}

func (r *PollRepo) List(ctx context.Context) ([]poll.Poll, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT p.id, p.question, p.creator_id, p.created_at, u.name, u.email
        FROM polls p
        JOIN users u ON u.id = p.creator_id
        ORDER BY p.id
    `)
	if err != nil {
		return nil, apperr.Wrap("list polls", err)
	}
	defer rows.Close()

	res := []poll.Poll{}
	index := make(map[int64]int)
	for rows.Next() {
		var p poll.Poll
		c := &poll.Creator{}
		if err := rows.Scan(&p.ID, &p.Question, &p.CreatorID, &p.CreatedAt, &c.Name, &c.Email); err != nil {
			return nil, apperr.Wrap("list polls", err)
		}
		c.ID = p.CreatorID
		p.Creator = c
		p.Options = []poll.Option{}
		index[p.ID] = len(res)
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap("list polls", err)
	}

	optRows, err := r.db.QueryContext(ctx, `
        SELECT id, poll_id, text, created_at
        FROM options ORDER BY poll_id, id
    `)
	if err != nil {
		return nil, apperr.Wrap("list options", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var o poll.Option
		if err := optRows.Scan(&o.ID, &o.PollID, &o.Text, &o.CreatedAt); err != nil {
			return nil, apperr.Wrap("list options", err)
		}
		// options of polls created after the first query are skipped
		if i, ok := index[o.PollID]; ok {
			res[i].Options = append(res[i].Options, o)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, apperr.Wrap("list options", err)
	}
	return res, nil
}
