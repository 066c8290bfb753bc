package service

import (
	"context"

	"github.com/shopverse/shopverse/internal/model"
	"github.com/shopverse/shopverse/internal/repository"
)

// UserRepository is the user storage used by the services.
// *repository.Repository implements it.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	UpdateUser(ctx context.Context, id int64, upd repository.UserUpdate) error
}

// OrderRepository is the order storage used by OrderService.
// *repository.Repository implements it.
type OrderRepository interface {
	CountOrders(ctx context.Context, filter repository.OrderFilter) (int, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter, limit, offset int) ([]*model.Order, error)
	GetOrderForUser(ctx context.Context, orderID, userID int64) (*model.Order, error)
}

var (
	_ UserRepository  = (*repository.Repository)(nil)
	_ OrderRepository = (*repository.Repository)(nil)
)
