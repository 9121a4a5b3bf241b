package checkout

import (
	"errors"

	"github.com/nyaruka/phonenumbers"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone проверяет номер в международном формате (с кодом страны, без региона
// по умолчанию) и возвращает его в E.164
func NormalizePhone(s string) (string, error) {
	num, err := phonenumbers.Parse(s, "")
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
