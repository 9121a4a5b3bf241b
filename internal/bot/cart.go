package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/shop-bot/internal/domain/models"
	"github.com/linemk/shop-bot/internal/storage"
)

func (b *Bot) showCart(ctx context.Context, chatID int64) (*Response, error) {
	lines, err := b.cart.GetCart(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return &Response{Text: textCartEmpty}, nil
	}

	text := fmt.Sprintf("Your cart. Total: %s", b.price(models.CalculateTotal(lines)))
	return &Response{Text: text, Buttons: cartKeyboard(lines)}, nil
}

func (b *Bot) addToCart(ctx context.Context, logger *slog.Logger, chatID, productID int64) (*Response, error) {
	if err := b.cart.AddToCart(ctx, chatID, productID, 1); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			logger.Info("attempt to add unavailable product", slog.Int64("productID", productID))
			return &Response{Notice: textProductNotFound}, nil
		}
		return nil, err
	}
	return &Response{Notice: textAddedToCart}, nil
}

func (b *Bot) changeQty(ctx context.Context, chatID, productID int64, delta int) (*Response, error) {
	if err := b.cart.ChangeQty(ctx, chatID, productID, delta); err != nil {
		return nil, err
	}
	return b.showCart(ctx, chatID)
}

func (b *Bot) removeFromCart(ctx context.Context, chatID, productID int64) (*Response, error) {
	if err := b.cart.RemoveFromCart(ctx, chatID, productID); err != nil {
		return nil, err
	}
	return b.showCart(ctx, chatID)
}
