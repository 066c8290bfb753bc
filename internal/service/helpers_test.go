package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopverse/shopverse/internal/auth"
	"github.com/shopverse/shopverse/internal/metrics"
	"github.com/shopverse/shopverse/internal/model"
	"github.com/shopverse/shopverse/internal/repository"
	"github.com/shopverse/shopverse/internal/session"
	"github.com/shopverse/shopverse/internal/testutil/fakes"
	"github.com/stretchr/testify/require"
)

// testHasher keeps argon2 cheap in tests.
var testHasher = auth.Hasher{Params: auth.Params{Time: 1, Memory: 8, Threads: 1, KeyLen: 16, SaltLen: 8}}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type authEnv struct {
	svc      *AuthService
	users    *fakes.Users
	sessions *session.MemoryStore
	metrics  *metrics.InMemoryRecorder
}

func newAuthEnv(t *testing.T, allowPlaintext bool) *authEnv {
	t.Helper()
	users := fakes.NewUsers()
	sessions := session.NewMemoryStore(time.Hour)
	recorder := metrics.NewInMemory()
	verifier := auth.NewVerifier(users, auth.VerifierOptions{Hasher: testHasher, AllowPlaintext: allowPlaintext})
	return &authEnv{
		svc:      NewAuthService(users, sessions, verifier, testHasher, discardLogger(), recorder),
		users:    users,
		sessions: sessions,
		metrics:  recorder,
	}
}

// seedUser stores a user whose password is hashed with testHasher.
func seedUser(t *testing.T, users *fakes.Users, email, password string) *model.User {
	t.Helper()
	hash, err := testHasher.Hash(password)
	require.NoError(t, err)
	u := &model.User{Name: "Seed", Email: email, Password: hash, Phone: "555-0100"}
	require.NoError(t, users.CreateUser(context.Background(), u))
	return u
}

func ptr(s string) *string { return &s }

// narrowUsers rejects every write as if a column were too short.
type narrowUsers struct {
	*fakes.Users
}

func (narrowUsers) CreateUser(context.Context, *model.User) error {
	return repository.ErrValueTooLong
}

func (narrowUsers) UpdateUser(context.Context, int64, repository.UserUpdate) error {
	return repository.ErrValueTooLong
}
