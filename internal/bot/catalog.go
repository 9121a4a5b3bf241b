package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linemk/shop-bot/internal/storage"
)

func (b *Bot) showCategories(ctx context.Context, greeting string) (*Response, error) {
	categories, err := b.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	text := textChooseCategory
	if len(categories) == 0 {
		text = textNoCategories
	}
	if greeting != "" {
		text = greeting + "\n" + text
	}
	return &Response{Text: text, Buttons: categoriesKeyboard(categories)}, nil
}

func (b *Bot) showProducts(ctx context.Context, categoryID int64, page int) (*Response, error) {
	p, err := b.catalog.ListProducts(ctx, categoryID, page)
	if err != nil {
		return nil, err
	}

	text := textCategoryItems
	if len(p.Products) == 0 {
		text = textNoProducts
	}
	return &Response{
		Text:    text,
		Buttons: productsKeyboard(p.Products, p.CategoryID, p.Page, p.TotalPages),
	}, nil
}

func (b *Bot) showProduct(ctx context.Context, productID int64) (*Response, error) {
	product, err := b.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return &Response{Notice: textProductNotFound}, nil
		}
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(product.Title)
	if product.Description != "" {
		sb.WriteString("\n\n" + product.Description)
	}
	fmt.Fprintf(&sb, "\n\nPrice: %s", b.price(product.PriceCents))

	return &Response{
		Text:     sb.String(),
		Buttons:  productKeyboard(product.ID),
		PhotoURL: product.PhotoURL,
	}, nil
}
