package models

import "time"

const OrderStatusNew = "new"

// Order - снимок корзины и данных покупателя на момент оформления
type Order struct {
	ID              int64       `json:"id"`
	UserID          *int64      `json:"user_id,omitempty"`
	OrderNumber     string      `json:"order_number"`
	TotalCents      int64       `json:"total_cents"`
	DeliveryMethod  string      `json:"delivery_method"`
	Status          string      `json:"status"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem - замороженная строка заказа: цена и количество не меняются вслед за товаром
type OrderItem struct {
	ID         int64  `json:"id"`
	OrderID    int64  `json:"order_id"`
	ProductID  *int64 `json:"product_id,omitempty"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}
