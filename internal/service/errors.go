package service

import "errors"

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrUnknownField = errors.New("unknown product field")
	ErrInvalidValue = errors.New("invalid value")
)
