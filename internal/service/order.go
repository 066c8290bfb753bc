package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopverse/shopverse/internal/metrics"
	"github.com/shopverse/shopverse/internal/model"
	"github.com/shopverse/shopverse/internal/repository"
)

// Order listing bounds.
const (
	DefaultOrderLimit = 10
	MaxOrderLimit     = 50
)

// OrderService serves a user's order history.
type OrderService struct {
	orders  OrderRepository
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders OrderRepository, logger *slog.Logger, recorder metrics.Recorder) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &OrderService{
		orders:  orders,
		logger:  logger,
		metrics: recorder,
	}
}

// ListOrdersInput defines the order history query. Page and Limit are
// clamped; empty Status or "all" disables the status filter; dates are
// inclusive YYYY-MM-DD values.
type ListOrdersInput struct {
	Page     int
	Limit    int
	Status   string
	DateFrom string
	DateTo   string
}

// ClampPage returns page bounded below by 1.
func ClampPage(page int) int {
	return max(1, page)
}

// ClampLimit returns limit bounded to [1, MaxOrderLimit].
func ClampLimit(limit int) int {
	return max(1, min(MaxOrderLimit, limit))
}

// TotalPages returns ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// List returns one page of the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, userID int64, input ListOrdersInput) (*model.OrderPage, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOrderQueryDuration(time.Since(start)) }()

	page := ClampPage(input.Page)
	limit := ClampLimit(input.Limit)

	filter := repository.OrderFilter{UserID: userID}
	if status := sanitize(input.Status); status != "" && status != model.OrderStatusAll {
		filter.Status = status
	}

	var err error
	if filter.DateFrom, err = parseDate("date_from", input.DateFrom); err != nil {
		return nil, err
	}
	if filter.DateTo, err = parseDate("date_to", input.DateTo); err != nil {
		return nil, err
	}

	total, err := s.orders.CountOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	orders, err := s.orders.ListOrders(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []*model.Order{}
	}

	return &model.OrderPage{
		Orders: orders,
		Pagination: model.Pagination{
			CurrentPage: page,
			TotalPages:  TotalPages(total, limit),
			TotalOrders: total,
			PerPage:     limit,
		},
	}, nil
}

// GetByID returns one of the user's orders with its items. Orders owned by
// someone else are reported as ErrOrderNotFound.
func (s *OrderService) GetByID(ctx context.Context, userID, orderID int64) (*model.Order, error) {
	if orderID <= 0 {
		return nil, invalid("Order ID is required")
	}

	order, err := s.orders.GetOrderForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			s.logger.Debug("order_not_found", "user_id", userID, "order_id", orderID)
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	return order, nil
}
