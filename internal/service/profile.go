package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopverse/shopverse/internal/auth"
	"github.com/shopverse/shopverse/internal/metrics"
	"github.com/shopverse/shopverse/internal/model"
	"github.com/shopverse/shopverse/internal/repository"
)

// ProfileService reads and updates the signed-in user's own record.
type ProfileService struct {
	users   UserRepository
	hasher  auth.Hasher
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users UserRepository, hasher auth.Hasher, logger *slog.Logger, recorder metrics.Recorder) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ProfileService{
		users:   users,
		hasher:  hasher,
		logger:  logger,
		metrics: recorder,
	}
}

// ProfileUpdate holds the fields a user may change. Nil or blank fields are
// left untouched.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
}

// profileField is one entry of the update allow-list. prepare validates the
// supplied value and writes it into the repository update.
type profileField struct {
	name    string
	value   func(ProfileUpdate) *string
	prepare func(ctx context.Context, s *ProfileService, userID int64, v string, upd *repository.UserUpdate) error
}

// profileFields is the allow-list, in validation order.
var profileFields = []profileField{
	{
		name:  "name",
		value: func(p ProfileUpdate) *string { return p.Name },
		prepare: func(_ context.Context, _ *ProfileService, _ int64, v string, upd *repository.UserUpdate) error {
			v = sanitize(v)
			if err := checkLength("name", v, maxNameLength); err != nil {
				return err
			}
			upd.Name = &v
			return nil
		},
	},
	{
		name:  "email",
		value: func(p ProfileUpdate) *string { return p.Email },
		prepare: func(ctx context.Context, s *ProfileService, userID int64, v string, upd *repository.UserUpdate) error {
			v = sanitize(v)
			if err := checkLength("email", v, maxEmailLength); err != nil {
				return err
			}
			if !validEmail(v) {
				return invalid("Invalid email format")
			}
			taken, err := s.users.EmailExists(ctx, v, userID)
			if err != nil {
				return fmt.Errorf("check email: %w", err)
			}
			if taken {
				return &ConflictError{Message: "Email already taken by another user"}
			}
			upd.Email = &v
			return nil
		},
	},
	{
		name:  "phone",
		value: func(p ProfileUpdate) *string { return p.Phone },
		prepare: func(_ context.Context, _ *ProfileService, _ int64, v string, upd *repository.UserUpdate) error {
			v = sanitize(v)
			if err := checkLength("phone", v, maxPhoneLength); err != nil {
				return err
			}
			upd.Phone = &v
			return nil
		},
	},
	{
		name:  "password",
		value: func(p ProfileUpdate) *string { return p.Password },
		prepare: func(_ context.Context, s *ProfileService, _ int64, v string, upd *repository.UserUpdate) error {
			if !validPassword(v) {
				return invalid("Password must be at least 6 characters long")
			}
			encoded, err := s.hasher.Hash(v)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			upd.Password = &encoded
			return nil
		},
	},
}

// Get returns the user's own record without the credential.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user.Public(), nil
}

// Update applies a partial update and returns the stored result.
func (s *ProfileService) Update(ctx context.Context, userID int64, input ProfileUpdate) (*model.User, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	var (
		upd     repository.UserUpdate
		changed []string
	)
	for _, f := range profileFields {
		v := f.value(input)
		if !present(v) {
			continue
		}
		if err := f.prepare(ctx, s, userID, *v, &upd); err != nil {
			return nil, err
		}
		changed = append(changed, f.name)
	}

	if upd.Empty() {
		return nil, invalid("No valid fields to update")
	}

	if err := s.users.UpdateUser(ctx, userID, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, &ConflictError{Message: "Email already taken by another user"}
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrValueTooLong):
			return nil, errValueTooLong
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.metrics.IncProfileUpdated()
	s.logger.Info("profile_updated", "user_id", userID, "fields", changed)

	return s.Get(ctx, userID)
}
