package sqlite

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

	created := now()
	err = tx.QueryRowContext(ctx, `
        INSERT INTO polls (question, creator_id, created_at)
        VALUES (?, ?, ?)
        RETURNING id
    `, p.Question, p.CreatorID, created).Scan(&p.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return poll.ErrCreatorNotFound
		}
		return apperr.Wrap("create poll", err)
	}
	p.CreatedAt = fromUnix(created)

	for i := range p.Options {
		p.Options[i].PollID = p.ID
		p.Options[i].CreatedAt = p.CreatedAt
		if err := tx.QueryRowContext(ctx, `
            INSERT INTO options (poll_id, text, created_at)
            VALUES (?, ?, ?)
            RETURNING id
        `, p.ID, p.Options[i].Text, created).Scan(&p.Options[i].ID); err != nil {
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
	var created int64
	err := r.db.QueryRowContext(ctx, `
        SELECT id, question, creator_id, created_at
        FROM polls WHERE id = ?
    `, id).Scan(&p.ID, &p.Question, &p.CreatorID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, poll.ErrPollNotFound
	}
	if err != nil {
		return nil, apperr.Wrap("get poll", err)
	}
	p.CreatedAt = fromUnix(created)
	return p, nil
}

func (r *PollRepo) GetOptionsByPoll(ctx context.Context, pollID int64) ([]poll.Option, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, poll_id, text, created_at
        FROM options WHERE poll_id = ?
        ORDER BY id
    `, pollID)
	if err != nil {
		return nil, apperr.Wrap("get options", err)
	}
	defer rows.Close()
	return scanOptions(rows)
}

func (r *PollRepo) GetOption(ctx context.Context, id int64) (*poll.Option, error) {
	o := &poll.Option{}
	var created int64
	err := r.db.QueryRowContext(ctx, `
        SELECT id, poll_id, text, created_at
        FROM options WHERE id = ?
    `, id).Scan(&o.ID, &o.PollID, &o.Text, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, poll.ErrOptionNotFound
	}
	if err != nil {
		return nil, apperr.Wrap("get option", err)
	}
	o.CreatedAt = fromUnix(created)
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
	res := []poll.Poll{}
	index := make(map[int64]int)
	for rows.Next() {
		var (
			p       poll.Poll
			created int64
		)
		c := &poll.Creator{}
		if err := rows.Scan(&p.ID, &p.Question, &p.CreatorID, &created, &c.Name, &c.Email); err != nil {
			rows.Close()
			return nil, apperr.Wrap("list polls", err)
		}
		c.ID = p.CreatorID
		p.Creator = c
		p.CreatedAt = fromUnix(created)
		p.Options = []poll.Option{}
		index[p.ID] = len(res)
		res = append(res, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, apperr.Wrap("list polls", err)
	}

	// the pool may hold a single connection, so the first cursor is closed
	// before the second query runs
	optRows, err := r.db.QueryContext(ctx, `
        SELECT id, poll_id, text, created_at
        FROM options ORDER BY poll_id, id
    `)
	if err != nil {
		return nil, apperr.Wrap("list options", err)
	}
	defer optRows.Close()

	opts, err := scanOptions(optRows)
	if err != nil {
		return nil, err
	}
	for _, o := range opts {
		if i, ok := index[o.PollID]; ok {
			res[i].Options = append(res[i].Options, o)
		}
	}
	return res, nil
}

func scanOptions(rows *sql.Rows) ([]poll.Option, error) {
	opts := []poll.Option{}
	for rows.Next() {
		var (
			o       poll.Option
			created int64
		)
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &created); err != nil {
			return nil, apperr.Wrap("scan option", err)
		}
		o.CreatedAt = fromUnix(created)
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap("scan option", err)
	}
	return opts, nil
}
