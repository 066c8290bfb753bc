package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/shopverse/shopverse/internal/model"
	"github.com/shopverse/shopverse/internal/repository"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserFinder looks users up by exact email.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// VerifierOptions configure a Verifier.
type VerifierOptions struct {
	Hasher Hasher
	// AllowPlaintext accepts stored credentials that are not Argon2id hashes
	// and compares them verbatim. Such matches report NeedsRehash.
	AllowPlaintext bool
}

// Verification is the outcome of a successful credential check.
type Verification struct {
	// User has its Password field cleared.
	User *model.User
	// NeedsRehash is set when the stored credential should be replaced with
	// a fresh hash of the supplied password.
	NeedsRehash bool
}

// Verifier validates email/password pairs against stored users.
type Verifier struct {
	users UserFinder
	opts  VerifierOptions

	dummyOnce sync.Once
	dummy     string
}

// NewVerifier creates a Verifier.
func NewVerifier(users UserFinder, opts VerifierOptions) *Verifier {
	return &Verifier{users: users, opts: opts}
}

// Verify checks password against the user stored under email.
func (v *Verifier) Verify(ctx context.Context, email, password string) (*Verification, error) {
	user, err := v.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			v.burn(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	stored := user.Password
	var ok bool
	switch {
	case IsHashed(stored):
		ok, err = VerifyPassword(password, stored)
		if err != nil {
			return nil, ErrInvalidCredentials
		}
	case v.opts.AllowPlaintext:
		v.burn(password)
		ok = subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
	default:
		v.burn(password)
	}

	if !ok {
		return nil, ErrInvalidCredentials
	}

	return &Verification{
		User:        user.Public(),
		NeedsRehash: v.opts.Hasher.NeedsRehash(stored),
	}, nil
}

// burn spends the same work as a real hash check so response time does not
// reveal whether the account exists.
func (v *Verifier) burn(password string) {
	v.dummyOnce.Do(func() {
		v.dummy, _ = v.opts.Hasher.Hash("dummy-password")
	})
	if v.dummy != "" {
		_, _ = VerifyPassword(password, v.dummy)
	}
}
