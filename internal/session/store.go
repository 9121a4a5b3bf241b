// Package session хранит промежуточное состояние оформления заказа по chat id.
package session

import (
	"context"
	"errors"

	"github.com/linemk/shop-bot/internal/checkout"
)

var ErrNotFound = errors.New("checkout session not found")

// Store - хранилище незавершённых диалогов. Get возвращает ErrNotFound, если диалога нет
type Store interface {
	Get(ctx context.Context, chatID int64) (checkout.Session, error)
	Save(ctx context.Context, chatID int64, s checkout.Session) error
	Delete(ctx context.Context, chatID int64) error
	Close() error
}
