package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"livepoll/internal/domain/poll"
	"livepoll/internal/domain/user"
	"livepoll/internal/domain/vote"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("livepoll"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(context.Background())
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))
	return db
}

func seedUser(t *testing.T, repo *UserRepo, name string) *user.User {
	t.Helper()
	u := &user.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestPostgresStore(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	users := NewUserRepo(db)
	polls := NewPollRepo(db)
	votes := NewVoteRepo(db)

	creator := seedUser(t, users, "creator")
	voters := make([]*user.User, 5)
	for i := range voters {
		voters[i] = seedUser(t, users, fmt.Sprintf("voter%d", i))
	}

	p := &poll.Poll{
		Question:  "Favourite colour?",
		CreatorID: creator.ID,
		Options:   []poll.Option{{Text: "red"}, {Text: "green"}, {Text: "blue"}},
	}
	require.NoError(t, polls.Create(ctx, p))

	t.Run("email uniqueness", func(t *testing.T) {
		err := users.Create(ctx, &user.User{Name: "dup", Email: creator.Email, PasswordHash: "x"})
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	})

	t.Run("unknown creator", func(t *testing.T) {
		err := polls.Create(ctx, &poll.Poll{Question: "q", CreatorID: 999999, Options: []poll.Option{{Text: "a"}}})
		assert.ErrorIs(t, err, poll.ErrCreatorNotFound)
	})

	t.Run("options keep creation order", func(t *testing.T) {
		opts, err := polls.GetOptionsByPoll(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, opts, 3)
		assert.Equal(t, []string{"red", "green", "blue"}, []string{opts[0].Text, opts[1].Text, opts[2].Text})

		listed, err := polls.List(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Len(t, listed[0].Options, 3)
		require.NotNil(t, listed[0].Creator)
		assert.Equal(t, poll.Creator{ID: creator.ID, Name: "creator", Email: creator.Email}, *listed[0].Creator)
	})

	t.Run("known distribution", func(t *testing.T) {
		for i, idx := range []int{0, 0, 1, 1, 2} {
			v, err := votes.CreateVote(ctx, voters[i].ID, p.Options[idx].ID)
			require.NoError(t, err)
			assert.Equal(t, p.ID, v.PollID)
		}
		counts, err := votes.CountVotesByPoll(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, map[int64]int64{
			p.Options[0].ID: 2,
			p.Options[1].ID: 2,
			p.Options[2].ID: 1,
		}, counts)

		n, err := votes.CountVotesForOption(ctx, p.Options[2].ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("constraint errors", func(t *testing.T) {
		_, err := votes.CreateVote(ctx, voters[0].ID, p.Options[0].ID)
		assert.ErrorIs(t, err, vote.ErrDuplicateVote)
		_, err = votes.CreateVote(ctx, 999999, p.Options[0].ID)
		assert.ErrorIs(t, err, vote.ErrVoterNotFound)
		_, err = votes.CreateVote(ctx, voters[0].ID, 999999)
		assert.ErrorIs(t, err, vote.ErrOptionNotFound)
		_, err = polls.GetPoll(ctx, 999999)
		assert.ErrorIs(t, err, poll.ErrPollNotFound)
	})

	t.Run("concurrent duplicates", func(t *testing.T) {
		const attempts = 20
		var (
			wg        sync.WaitGroup
			successes atomic.Int32
			dups      atomic.Int32
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := votes.CreateVote(ctx, creator.ID, p.Options[1].ID)
				switch {
				case err == nil:
					successes.Add(1)
				case errors.Is(err, vote.ErrDuplicateVote):
					dups.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), successes.Load())
		assert.Equal(t, int32(attempts-1), dups.Load())
	})
}
