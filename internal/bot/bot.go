// Package bot переводит действия пользователя чата (команды, нажатия кнопок, свободный текст)
// в вызовы сервисов и собирает ответ для шлюза.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/linemk/shop-bot/internal/checkout"
	"github.com/linemk/shop-bot/internal/service"
	"github.com/linemk/shop-bot/internal/session"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrEmptyAction   = errors.New("action has neither text nor callback")
)

// Action - входящее действие: либо текст, либо payload кнопки
type Action struct {
	ChatID   int64
	Text     string
	Callback string
}

type Button struct {
	Text string `json:"text"`
	Data string `json:"callback_data"`
}

// Response - то, что шлюз показывает пользователю.
// Buttons - inline-клавиатура, Options - варианты для следующего ввода, Notice - короткое всплывающее уведомление.
type Response struct {
	Text     string     `json:"text,omitempty"`
	Buttons  [][]Button `json:"buttons,omitempty"`
	Options  []string   `json:"options,omitempty"`
	PhotoURL string     `json:"photo_url,omitempty"`
	Notice   string     `json:"notice,omitempty"`
}

// Currency - символ и число знаков после запятой для вывода цен
type Currency struct {
	Symbol   string
	Exponent int32
}

type Deps struct {
	Catalog  service.CatalogService
	Cart     service.CartService
	Orders   service.OrderService
	Admin    service.AdminService
	Sessions session.Store
	Machine  *checkout.Machine
	Currency Currency
}

type Bot struct {
	log      *slog.Logger
	catalog  service.CatalogService
	cart     service.CartService
	orders   service.OrderService
	admin    service.AdminService
	sessions session.Store
	machine  *checkout.Machine
	currency Currency
}

func New(log *slog.Logger, deps Deps) *Bot {
	return &Bot{
		log:      log,
		catalog:  deps.Catalog,
		cart:     deps.Cart,
		orders:   deps.Orders,
		admin:    deps.Admin,
		sessions: deps.Sessions,
		machine:  deps.Machine,
		currency: deps.Currency,
	}
}

// Handle обрабатывает одно действие.
// Ошибка возвращается только для некорректного действия; сбои хранилища превращаются в ответ "operation failed".
func (b *Bot) Handle(ctx context.Context, a Action) (*Response, error) {
	const op = "bot.Handle"
	logger := b.log.With(
		slog.String("op", op),
		slog.String("actionID", uuid.NewString()),
		slog.Int64("chatID", a.ChatID),
	)

	var (
		resp *Response
		err  error
	)
	switch {
	case a.Callback != "":
		logger.Debug("callback received", slog.String("data", a.Callback))
		resp, err = b.handleCallback(ctx, logger, a.ChatID, a.Callback)
	case strings.HasPrefix(strings.TrimSpace(a.Text), "/"):
		logger.Debug("command received", slog.String("text", a.Text))
		resp, err = b.handleCommand(ctx, logger, a.ChatID, strings.TrimSpace(a.Text))
	case a.Text != "":
		resp, err = b.handleText(ctx, logger, a.ChatID, a.Text)
	default:
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyAction)
	}

	if err != nil {
		if errors.Is(err, ErrUnknownAction) {
			logger.Info("unknown action rejected", slog.Any("reason", err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Error("action failed", slog.Any("error", err))
		return &Response{Text: textOperationFailed}, nil
	}
	return resp, nil
}

func (b *Bot) handleCallback(ctx context.Context, logger *slog.Logger, chatID int64, data string) (*Response, error) {
	cb, err := parseCallback(data)
	if err != nil {
		return nil, err
	}

	switch cb.kind {
	case callbackNoop:
		return &Response{}, nil
	case callbackCategory:
		return b.showProducts(ctx, cb.id, 1)
	case callbackPage:
		return b.showProducts(ctx, cb.id, cb.page)
	case callbackProduct:
		return b.showProduct(ctx, cb.id)
	case callbackAdd:
		return b.addToCart(ctx, logger, chatID, cb.id)
	case callbackQty:
		return b.changeQty(ctx, chatID, cb.id, cb.delta)
	case callbackRemove:
		return b.removeFromCart(ctx, chatID, cb.id)
	case callbackCartView:
		return b.showCart(ctx, chatID)
	case callbackCheckoutStart:
		return b.startCheckout(ctx, logger, chatID)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, data)
}

func (b *Bot) handleCommand(ctx context.Context, logger *slog.Logger, chatID int64, text string) (*Response, error) {
	name, args := splitCommand(text)

	switch name {
	case "start":
		return b.showCategories(ctx, textWelcome)
	case "catalog":
		return b.showCategories(ctx, "")
	case "cart":
		return b.showCart(ctx, chatID)
	case "checkout":
		return b.startCheckout(ctx, logger, chatID)
	case "cancel":
		return b.cancelCheckout(ctx, logger, chatID)
	case "help":
		return b.help(chatID), nil
	case "add_category", "add_product", "edit_product", "orders", "set_status":
		return b.handleAdmin(ctx, logger, chatID, name, args)
	}
	return &Response{Text: textUnknownCommand}, nil
}

// splitCommand: "/edit_product@shop_bot 5 price 10" -> ("edit_product", "5 price 10")
func splitCommand(text string) (string, string) {
	text = strings.TrimPrefix(text, "/")
	name, args, _ := strings.Cut(text, " ")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), strings.TrimSpace(args)
}

func (b *Bot) help(chatID int64) *Response {
	text := textHelp
	if b.admin.IsAdmin(chatID) {
		text += "\n\n" + textAdminHelp
	}
	return &Response{Text: text}
}
