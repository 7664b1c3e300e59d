package poll

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPoll     = errors.New("invalid poll")
	ErrPollNotFound    = errors.New("poll not found")
	ErrOptionNotFound  = errors.New("option not found")
	ErrCreatorNotFound = errors.New("creator not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists the poll and its options in one transaction. The Options
// slice only needs Text set; ids are filled in on success.
func (s *Service) Create(ctx context.Context, p *Poll) error {
	p.Question = strings.TrimSpace(p.Question)
	if p.Question == "" {
		return fmt.Errorf("%w: question is required", ErrInvalidPoll)
	}
	if p.CreatorID <= 0 {
		return fmt.Errorf("%w: creator_id is required", ErrInvalidPoll)
	}
	if len(p.Options) == 0 {
		return fmt.Errorf("%w: poll must have at least 1 option", ErrInvalidPoll)
	}
	for i := range p.Options {
		p.Options[i].Text = strings.TrimSpace(p.Options[i].Text)
		if p.Options[i].Text == "" {
			return fmt.Errorf("%w: option %d text is empty", ErrInvalidPoll, i+1)
		}
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*Poll, error) {
	p, err := s.repo.GetPoll(ctx, id)
	if err != nil {
		return nil, err
	}
	opts, err := s.repo.GetOptionsByPoll(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Options = opts
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Poll, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetOption(ctx context.Context, id int64) (*Option, error) {
	return s.repo.GetOption(ctx, id)
}
