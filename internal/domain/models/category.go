package models

// Category - группа товаров, имя уникально
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
