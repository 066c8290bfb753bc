package model

import "time"

// Order status values as stored in orders.status.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatusAll is the list filter value meaning "no status filter".
const OrderStatusAll = "all"

// Order is a placed order owned by a user.
type Order struct {
	ID              int64        `json:"id"`
	UserID          int64        `json:"user_id"`
	TotalAmount     float64      `json:"total_amount"`
	Status          string       `json:"status"`
	ShippingAddress string       `json:"shipping_address"`
	PaymentMethod   string       `json:"payment_method"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	Items           []*OrderItem `json:"items"`
	ItemsCount      int          `json:"items_count"`
}

// SetItems attaches line items and refreshes the item count.
func (o *Order) SetItems(items []*OrderItem) {
	if items == nil {
		items = []*OrderItem{}
	}
	o.Items = items
	o.ItemsCount = len(items)
}

// OrderItem is a line of an order with the product snapshot taken at
// checkout. Subtotal is quantity × price.
type OrderItem struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Subtotal  float64   `json:"subtotal"`
	CreatedAt time.Time `json:"created_at"`
}

// Pagination describes a page of a page-numbered listing.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalOrders int `json:"total_orders"`
	PerPage     int `json:"per_page"`
}

// OrderPage is one page of a user's order history.
type OrderPage struct {
	Orders     []*Order   `json:"orders"`
	Pagination Pagination `json:"pagination"`
}
