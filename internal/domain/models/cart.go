package models

// CartLine - строка корзины: текущие данные товара и количество
type CartLine struct {
	Product  Product
	Quantity int
}

// LineTotal стоимость строки в минимальных единицах
func (l CartLine) LineTotal() int64 {
	return l.Product.PriceCents * int64(l.Quantity)
}

// CalculateTotal считает сумму price*quantity по всем строкам
func CalculateTotal(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.LineTotal()
	}
	return total
}
