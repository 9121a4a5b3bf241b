package models

// Product представляет товар каталога.
// Цена хранится в минимальных единицах валюты (копейки, центы)
type Product struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	PhotoURL    string `json:"photo_url,omitempty"`
	IsActive    bool   `json:"is_active"`
	CategoryID  *int64 `json:"category_id,omitempty"` // nil после удаления категории
}
