// Package money переводит цены между основными единицами валюты (как вводит админ)
// и минимальными (как хранится в БД) без плавающей точки.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrTooPrecise     = errors.New("amount has more fractional digits than the currency allows")
)

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// ParseMajor разбирает "12.50" (или "12,50") в минимальные единицы: 1250 при exp=2.
// Дробная часть длиннее exp - ошибка, а не округление.
func ParseMajor(s string, exp int32) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}

	minor := d.Shift(exp)
	if !minor.IsInteger() {
		return 0, ErrTooPrecise
	}
	if minor.GreaterThan(maxMinor) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, s)
	}
	return minor.IntPart(), nil
}

// Format печатает сумму в основных единицах с фиксированным числом знаков: 2468 -> "24.68"
func Format(minor int64, exp int32) string {
	return decimal.New(minor, -exp).StringFixed(exp)
}
