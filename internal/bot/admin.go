package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/linemk/shop-bot/internal/service"
	"github.com/linemk/shop-bot/internal/storage"
)

func (b *Bot) handleAdmin(ctx context.Context, logger *slog.Logger, chatID int64, name, args string) (*Response, error) {
	if !b.admin.IsAdmin(chatID) {
		logger.Warn("admin command denied", slog.String("command", name))
		return &Response{Text: textAccessDenied}, nil
	}

	switch name {
	case "add_category":
		return b.addCategory(ctx, args)
	case "add_product":
		return b.addProduct(ctx, args)
	case "edit_product":
		return b.editProduct(ctx, args)
	case "orders":
		return b.listOrders(ctx, args)
	case "set_status":
		return b.setStatus(ctx, args)
	}
	return &Response{Text: textUnknownCommand}, nil
}

func (b *Bot) addCategory(ctx context.Context, args string) (*Response, error) {
	if args == "" {
		return &Response{Text: usageAddCategory}, nil
	}

	cat, created, err := b.admin.AddCategory(ctx, args)
	if err != nil {
		if errors.Is(err, service.ErrInvalidValue) {
			return &Response{Text: usageAddCategory}, nil
		}
		return nil, err
	}
	if !created {
		return &Response{Text: fmt.Sprintf("Category already exists: %s (ID: %d)", cat.Name, cat.ID)}, nil
	}
	return &Response{Text: fmt.Sprintf("Category added: %s (ID: %d)", cat.Name, cat.ID)}, nil
}

// addProduct: title|description|price|category|[photo_url]
func (b *Bot) addProduct(ctx context.Context, args string) (*Response, error) {
	parts := strings.Split(args, "|")
	if len(parts) < 4 || len(parts) > 5 {
		return &Response{Text: usageAddProduct}, nil
	}

	in := service.NewProduct{
		Title:        parts[0],
		Description:  parts[1],
		Price:        parts[2],
		CategoryName: parts[3],
	}
	if len(parts) == 5 {
		in.PhotoURL = parts[4]
	}

	product, err := b.admin.AddProduct(ctx, in)
	if err != nil {
		if errors.Is(err, service.ErrInvalidValue) {
			return &Response{Text: invalidValueText(err) + "\n" + usageAddProduct}, nil
		}
		return nil, err
	}
	return &Response{Text: fmt.Sprintf("Product added: %s (ID: %d)", product.Title, product.ID)}, nil
}

// editProduct: <id> <field> <value...>, значение может содержать пробелы
func (b *Bot) editProduct(ctx context.Context, args string) (*Response, error) {
	id, rest, _ := strings.Cut(args, " ")
	field, value, _ := strings.Cut(strings.TrimSpace(rest), " ")
	value = strings.TrimSpace(value)
	if field == "" || value == "" {
		return &Response{Text: usageEditProduct}, nil
	}
	productID, ok := parseID(id)
	if !ok {
		return &Response{Text: usageEditProduct}, nil
	}

	err := b.admin.EditProduct(ctx, productID, field, value)
	switch {
	case err == nil:
		return &Response{Text: "OK"}, nil
	case errors.Is(err, service.ErrUnknownField):
		return &Response{Text: fmt.Sprintf("Unknown field %q. Fields: title, description, price, active, category, photo", field)}, nil
	case errors.Is(err, service.ErrInvalidValue):
		return &Response{Text: invalidValueText(err)}, nil
	case errors.Is(err, storage.ErrProductNotFound):
		return &Response{Text: fmt.Sprintf("Product %d not found", productID)}, nil
	case errors.Is(err, storage.ErrCategoryNotFound):
		return &Response{Text: "Category not found"}, nil
	}
	return nil, err
}

func (b *Bot) listOrders(ctx context.Context, args string) (*Response, error) {
	orders, err := b.orders.ListOrders(ctx, strings.TrimSpace(args))
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return &Response{Text: "No orders"}, nil
	}

	lines := make([]string, 0, len(orders))
	for _, o := range orders {
		lines = append(lines, fmt.Sprintf("#%d %s %s %s", o.ID, o.OrderNumber, o.Status, b.price(o.TotalCents)))
	}
	return &Response{Text: strings.Join(lines, "\n")}, nil
}

func (b *Bot) setStatus(ctx context.Context, args string) (*Response, error) {
	// статус - весь остаток строки, может состоять из нескольких слов
	idText, status, _ := strings.Cut(strings.TrimSpace(args), " ")
	status = strings.TrimSpace(status)
	if status == "" {
		return &Response{Text: usageSetStatus}, nil
	}
	orderID, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return &Response{Text: usageSetStatus}, nil
	}

	err = b.orders.SetStatus(ctx, orderID, status)
	switch {
	case err == nil:
		return &Response{Text: fmt.Sprintf("Order #%d status updated: %s", orderID, status)}, nil
	case errors.Is(err, storage.ErrOrderNotFound):
		return &Response{Text: fmt.Sprintf("Order #%d not found", orderID)}, nil
	case errors.Is(err, service.ErrInvalidValue):
		return &Response{Text: usageSetStatus}, nil
	}
	return nil, err
}

// invalidValueText - причина отказа без префикса op
func invalidValueText(err error) string {
	_, reason, found := strings.Cut(err.Error(), ": ")
	if !found {
		reason = err.Error()
	}
	return "Rejected: " + reason
}
