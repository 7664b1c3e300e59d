package poll

import (
	"context"
	"time"
)

type Poll struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	CreatorID int64     `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	Options   []Option  `json:"options"`

	// Creator is only filled in by List.
	Creator *Creator `json:"creator,omitempty"`
}

type Creator struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Option struct {
	ID        int64     `json:"id"`
	PollID    int64     `json:"poll_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository stores a poll together with its options. Options are always
// returned in creation order.
type Repository interface {
	Create(ctx context.Context, p *Poll) error
	GetPoll(ctx context.Context, id int64) (*Poll, error)
	GetOptionsByPoll(ctx context.Context, pollID int64) ([]Option, error)
	GetOption(ctx context.Context, id int64) (*Option, error)
	List(ctx context.Context) ([]Poll, error)
}
