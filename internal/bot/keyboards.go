package bot

import (
	"fmt"

	"github.com/linemk/shop-bot/internal/domain/models"
	"github.com/linemk/shop-bot/internal/lib/money"
)

const categoriesPerRow = 2

func (b *Bot) price(minor int64) string {
	amount := money.Format(minor, b.currency.Exponent)
	if b.currency.Symbol == "" {
		return amount
	}
	return amount + " " + b.currency.Symbol
}

// categoriesKeyboard - по две категории в строке
func categoriesKeyboard(categories []models.Category) [][]Button {
	var (
		rows [][]Button
		row  []Button
	)
	for _, c := range categories {
		row = append(row, Button{Text: c.Name, Data: categoryData(c.ID)})
		if len(row) == categoriesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// productsKeyboard - товар на строку, затем навигация и переход в корзину
func productsKeyboard(products []models.Product, categoryID int64, page, totalPages int) [][]Button {
	rows := make([][]Button, 0, len(products)+2)
	for _, p := range products {
		rows = append(rows, []Button{{Text: p.Title, Data: productData(p.ID)}})
	}

	var nav []Button
	if page > 1 {
		nav = append(nav, Button{Text: "◀️", Data: pageData(categoryID, page-1)})
	}
	nav = append(nav, Button{Text: fmt.Sprintf("%d/%d", page, totalPages), Data: noopData})
	if page < totalPages {
		nav = append(nav, Button{Text: "▶️", Data: pageData(categoryID, page+1)})
	}
	rows = append(rows, nav)

	return append(rows, []Button{{Text: "🛒 Cart", Data: cartViewData}})
}

func productKeyboard(productID int64) [][]Button {
	return [][]Button{
		{{Text: "➕ Add to cart", Data: addData(productID)}},
		{{Text: "🛒 Cart", Data: cartViewData}},
	}
}

func cartKeyboard(lines []models.CartLine) [][]Button {
	rows := make([][]Button, 0, len(lines)+1)
	for _, l := range lines {
		rows = append(rows, []Button{
			{Text: "➖", Data: qtyData(l.Product.ID, -1)},
			{Text: fmt.Sprintf("%s: %d", l.Product.Title, l.Quantity), Data: noopData},
			{Text: "➕", Data: qtyData(l.Product.ID, 1)},
			{Text: "🗑️", Data: removeData(l.Product.ID)},
		})
	}
	return append(rows, []Button{{Text: "✅ Checkout", Data: checkoutStartData}})
}
