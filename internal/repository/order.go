package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"github.com/shopverse/shopverse/internal/model"
)

// Common errors for order repository operations.
var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderFilter narrows a user's order listing. Zero values mean "no filter".
// DateFrom and DateTo are compared against the calendar date of created_at,
// both inclusive.
type OrderFilter struct {
	UserID   int64
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

func (f OrderFilter) where() (string, []any) {
	conds := []string{"o.user_id = $1"}
	args := []any{f.UserID}

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conds = append(conds, fmt.Sprintf("o.created_at::date >= $%d::date", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conds = append(conds, fmt.Sprintf("o.created_at::date <= $%d::date", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

const orderColumns = `o.id, o.user_id, o.total_amount::float8, o.status, o.shipping_address, o.payment_method, o.created_at, o.updated_at`

// CountOrders returns how many orders match the filter.
func (r *Repository) CountOrders(ctx context.Context, filter OrderFilter) (int, error) {
	where, args := filter.where()
	query := `SELECT COUNT(*) FROM orders o WHERE ` + where

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

// ListOrders returns one page of matching orders, newest first, with their
// line items attached.
func (r *Repository) ListOrders(ctx context.Context, filter OrderFilter, limit, offset int) ([]*model.Order, error) {
	where, args := filter.where()
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders o
		WHERE %s
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// GetOrderForUser retrieves an order only if it belongs to userID.
// Another user's order is reported as ErrOrderNotFound.
func (r *Repository) GetOrderForUser(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1 AND o.user_id = $2`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := r.attachItems(ctx, []*model.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

// attachItems loads the line items of all orders in one round trip.
func (r *Repository) attachItems(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]*model.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.SetItems(nil)
	}

	query := `
		SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, ''), COALESCE(p.image, ''),
		       oi.quantity, oi.price::float8, (oi.quantity * oi.price)::float8, oi.created_at
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id
	`

	rows, err := r.pool.Query(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Image,
			&item.Quantity,
			&item.Price,
			&item.Subtotal,
			&item.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if o, ok := byID[item.OrderID]; ok {
			o.SetItems(append(o.Items, &item))
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	return nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.Status,
		&order.ShippingAddress,
		&order.PaymentMethod,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
