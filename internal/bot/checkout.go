package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/shop-bot/internal/checkout"
	"github.com/linemk/shop-bot/internal/service"
	"github.com/linemk/shop-bot/internal/session"
)

// startCheckout всегда начинает диалог с имени, прошлые ответы отбрасываются
func (b *Bot) startCheckout(ctx context.Context, logger *slog.Logger, chatID int64) (*Response, error) {
	lines, err := b.cart.GetCart(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		if err := b.sessions.Delete(ctx, chatID); err != nil {
			return nil, fmt.Errorf("failed to drop checkout session: %w", err)
		}
		return &Response{Text: textCheckoutEmpty}, nil
	}

	sess := b.machine.Start()
	if err := b.sessions.Save(ctx, chatID, sess); err != nil {
		return nil, fmt.Errorf("failed to save checkout session: %w", err)
	}
	logger.Info("checkout started")
	return b.prompt(sess), nil
}

func (b *Bot) cancelCheckout(ctx context.Context, logger *slog.Logger, chatID int64) (*Response, error) {
	if _, err := b.sessions.Get(ctx, chatID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return &Response{Text: textNothingCancel}, nil
		}
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}
	if err := b.sessions.Delete(ctx, chatID); err != nil {
		return nil, fmt.Errorf("failed to drop checkout session: %w", err)
	}
	logger.Info("checkout cancelled")
	return &Response{Text: textCancelled}, nil
}

// handleText - свободный текст: очередной ответ в диалоге оформления, если он идёт
func (b *Bot) handleText(ctx context.Context, logger *slog.Logger, chatID int64, text string) (*Response, error) {
	sess, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return &Response{Text: textNoActiveFlow}, nil
		}
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	next, err := b.machine.Advance(sess, text)
	if err != nil {
		return b.reprompt(ctx, logger, chatID, sess, err)
	}

	if next.Complete() {
		return b.finishCheckout(ctx, logger, chatID, next)
	}

	if err := b.sessions.Save(ctx, chatID, next); err != nil {
		return nil, fmt.Errorf("failed to save checkout session: %w", err)
	}
	logger.Debug("checkout advanced", slog.String("state", next.State.String()))
	return b.prompt(next), nil
}

// reprompt: ошибка валидации оставляет диалог на текущем шаге
func (b *Bot) reprompt(ctx context.Context, logger *slog.Logger, chatID int64, sess checkout.Session, cause error) (*Response, error) {
	logger.Info("checkout input rejected", slog.String("state", sess.State.String()), slog.Any("reason", cause))

	resp := b.prompt(sess)
	switch {
	case errors.Is(cause, checkout.ErrEmptyInput):
		resp.Text = textEmptyAnswer + "\n" + resp.Text
	case errors.Is(cause, checkout.ErrInvalidPhone):
		resp.Text = textInvalidPhone + "\n" + resp.Text
	case errors.Is(cause, checkout.ErrInvalidDelivery):
		resp.Text = textInvalidOption
	case errors.Is(cause, checkout.ErrAlreadyComplete):
		// законченный диалог в хранилище не остаётся, но старое состояние могло пережить сбой
		if err := b.sessions.Delete(ctx, chatID); err != nil {
			return nil, fmt.Errorf("failed to drop checkout session: %w", err)
		}
		return &Response{Text: textNoActiveFlow}, nil
	default:
		return nil, cause
	}
	return resp, nil
}

// finishCheckout создаёт заказ; промежуточное состояние удаляется при любом исходе
func (b *Bot) finishCheckout(ctx context.Context, logger *slog.Logger, chatID int64, sess checkout.Session) (*Response, error) {
	defer func() {
		if err := b.sessions.Delete(ctx, chatID); err != nil {
			logger.Warn("failed to drop checkout session", slog.Any("error", err))
		}
	}()

	order, err := b.orders.CreateOrder(ctx, chatID, service.CustomerDetails{
		Name:           sess.Name,
		Phone:          sess.Phone,
		Address:        sess.Address,
		DeliveryMethod: sess.Delivery,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			return &Response{Text: textCheckoutEmpty}, nil
		}
		return nil, err
	}

	logger.Info("order placed", slog.String("orderNumber", order.OrderNumber))
	return &Response{
		Text: fmt.Sprintf("Order placed! Order number: %s\nStatus: %s\nTotal: %s",
			order.OrderNumber, order.Status, b.price(order.TotalCents)),
	}, nil
}

func (b *Bot) prompt(sess checkout.Session) *Response {
	switch sess.State {
	case checkout.StatePhone:
		return &Response{Text: textAskPhone}
	case checkout.StateAddress:
		return &Response{Text: textAskAddress}
	case checkout.StateDelivery:
		return &Response{Text: textAskDelivery, Options: b.machine.DeliveryOptions()}
	default:
		return &Response{Text: textAskName}
	}
}
