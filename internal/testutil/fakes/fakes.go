// Package fakes provides in-memory stand-ins for the repository used by
// service and handler tests.
package fakes

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopverse/shopverse/internal/model"
	"github.com/shopverse/shopverse/internal/repository"
)

// Users is an in-memory user table with a unique email index.
type Users struct {
	mu     sync.Mutex
	byID   map[int64]*model.User
	nextID int64

	// Err, when set, is returned by every method.
	Err error
	// Now supplies timestamps; defaults to time.Now.
	Now func() time.Time
}

// NewUsers creates an empty user table.
func NewUsers() *Users {
	return &Users{byID: make(map[int64]*model.User), Now: time.Now}
}

// CreateUser inserts user and assigns its ID and timestamps.
func (u *Users) CreateUser(_ context.Context, user *model.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	for _, existing := range u.byID {
		if existing.Email == user.Email {
			return repository.ErrEmailExists
		}
	}

	u.nextID++
	now := u.Now()
	user.ID = u.nextID
	user.CreatedAt = now
	user.UpdatedAt = now

	cp := *user
	u.byID[cp.ID] = &cp
	return nil
}

// GetUserByID returns a copy of the user.
func (u *Users) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, u.Err
	}
	user, ok := u.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

// GetUserByEmail returns a copy of the user with exactly this email.
func (u *Users) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, u.Err
	}
	for _, user := range u.byID {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// EmailExists reports whether another user owns email.
func (u *Users) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return false, u.Err
	}
	for _, user := range u.byID {
		if user.Email == email && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// UpdateUser applies the non-nil fields of upd.
func (u *Users) UpdateUser(_ context.Context, id int64, upd repository.UserUpdate) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	user, ok := u.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if upd.Email != nil {
		for _, other := range u.byID {
			if other.ID != id && other.Email == *upd.Email {
				return repository.ErrEmailExists
			}
		}
		user.Email = *upd.Email
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	if upd.Password != nil {
		user.Password = *upd.Password
	}
	user.UpdatedAt = u.Now()
	return nil
}

// Count returns the number of users with email.
func (u *Users) Count(email string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, user := range u.byID {
		if user.Email == email {
			n++
		}
	}
	return n
}

// Len returns the number of stored users.
func (u *Users) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.byID)
}

// Orders is an in-memory order table.
type Orders struct {
	mu     sync.Mutex
	orders []*model.Order

	// Err, when set, is returned by every method.
	Err error
}

// NewOrders creates an empty order table.
func NewOrders() *Orders {
	return &Orders{}
}

// Add stores order, assigning an ID when it has none, and returns the ID.
func (o *Orders) Add(order *model.Order) int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if order.ID == 0 {
		order.ID = int64(len(o.orders) + 1)
	}
	order.SetItems(order.Items)
	o.orders = append(o.orders, order)
	return order.ID
}

func (o *Orders) match(filter repository.OrderFilter) []*model.Order {
	var out []*model.Order
	for _, order := range o.orders {
		if order.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		day := dateOf(order.CreatedAt)
		if filter.DateFrom != nil && day.Before(dateOf(*filter.DateFrom)) {
			continue
		}
		if filter.DateTo != nil && day.After(dateOf(*filter.DateTo)) {
			continue
		}
		out = append(out, order)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// CountOrders counts orders matching filter.
func (o *Orders) CountOrders(_ context.Context, filter repository.OrderFilter) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return 0, o.Err
	}
	return len(o.match(filter)), nil
}

// ListOrders returns a page of matching orders, newest first.
func (o *Orders) ListOrders(_ context.Context, filter repository.OrderFilter, limit, offset int) ([]*model.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return nil, o.Err
	}
	all := o.match(filter)
	if offset >= len(all) {
		return []*model.Order{}, nil
	}
	end := min(offset+limit, len(all))
	return append([]*model.Order{}, all[offset:end]...), nil
}

// GetOrderForUser returns the order only when userID owns it.
func (o *Orders) GetOrderForUser(_ context.Context, orderID, userID int64) (*model.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return nil, o.Err
	}
	for _, order := range o.orders {
		if order.ID == orderID && order.UserID == userID {
			return order, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ErrStorage is a stand-in storage failure for error-path tests.
var ErrStorage = errors.New("fake storage failure")
