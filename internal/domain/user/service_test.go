package user

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type memoryUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*User
	byMail map[string]int64
	nextID int64
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		users:  make(map[int64]*User),
		byMail: make(map[string]int64),
		nextID: 1,
	}
}

func (r *memoryUserRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byMail[u.Email]; ok {
		return ErrEmailTaken
	}
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now()
	copyUser := *u
	r.users[u.ID] = &copyUser
	r.byMail[u.Email] = u.ID
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copyUser := *u
	return &copyUser, nil
}

func (r *memoryUserRepo) List(ctx context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]User, 0, len(r.users))
	for _, u := range r.users {
		res = append(res, *u)
	}
	return res, nil
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestRegister(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, "John", "john@example.com", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if u.PasswordHash == "s3cret" || u.PasswordHash == "" {
		t.Fatalf("password should be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}

	if _, err := svc.Register(ctx, "Johnny", "john@example.com", "another"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken error, got %v", err)
	}

	got, err := svc.GetByID(ctx, u.ID)
	if err != nil || got.Email != "john@example.com" {
		t.Fatalf("lookup failed: %v %+v", err, got)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newMemoryUserRepo())
	ctx := context.Background()

	cases := []struct {
		name, email, password string
	}{
		{"", "a@example.com", "secret1"},
		{"Ann", "not-an-email", "secret1"},
		{"Ann", "a@example.com", "short"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.name, tc.email, tc.password); !errors.Is(err, ErrInvalidUser) {
			t.Fatalf("expected invalid user for %+v, got %v", tc, err)
		}
	}
}
