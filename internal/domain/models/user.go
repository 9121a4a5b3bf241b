package models

import "time"

// User представляет покупателя, идентифицируемого chat id.
// Name/Phone/Address кэшируются из последнего оформленного заказа, пустая строка - не заполнено
type User struct {
	ID        int64
	TgID      int64
	Name      string
	Phone     string
	Address   string
	CreatedAt time.Time
}
