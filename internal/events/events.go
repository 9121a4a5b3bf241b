// Package events публикует события заказов для внешних потребителей.
package events

import (
	"context"
	"time"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent - сообщение в топике заказов, ключ - номер заказа
type OrderEvent struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	OrderID     int64       `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	ChatID      int64       `json:"chat_id,omitempty"`
	Status      string      `json:"status"`
	TotalCents  int64       `json:"total_cents,omitempty"`
	Items       []OrderLine `json:"items,omitempty"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

type OrderLine struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
	PriceCents int64 `json:"price_cents"`
}

type Publisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
	Close() error
}

// NopPublisher используется, когда брокеры не настроены
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, OrderEvent) error { return nil }

func (NopPublisher) Close() error { return nil }

var _ Publisher = NopPublisher{}
