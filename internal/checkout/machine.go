// Package checkout - конечный автомат сбора данных покупателя:
// имя -> телефон -> адрес -> способ доставки.
package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyInput      = errors.New("empty input")
	ErrInvalidDelivery = errors.New("unknown delivery option")
	ErrAlreadyComplete = errors.New("checkout already complete")
)

type Machine struct {
	deliveryOptions []string
}

func NewMachine(deliveryOptions []string) *Machine {
	opts := make([]string, 0, len(deliveryOptions))
	for _, o := range deliveryOptions {
		if o = strings.TrimSpace(o); o != "" {
			opts = append(opts, o)
		}
	}
	return &Machine{deliveryOptions: opts}
}

// DeliveryOptions варианты для клавиатуры шага доставки
func (m *Machine) DeliveryOptions() []string {
	out := make([]string, len(m.deliveryOptions))
	copy(out, m.deliveryOptions)
	return out
}

// Start начинает диалог заново, прошлые ответы отбрасываются
func (m *Machine) Start() Session {
	return Session{State: StateName}
}

// Advance применяет ответ пользователя к текущему шагу.
// При ошибке валидации возвращается исходная сессия без изменений.
func (m *Machine) Advance(s Session, input string) (Session, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return s, ErrEmptyInput
	}

	next := s
	switch s.State {
	case StateName:
		next.Name = input
		next.State = StatePhone
	case StatePhone:
		phone, err := NormalizePhone(input)
		if err != nil {
			return s, err
		}
		next.Phone = phone
		next.State = StateAddress
	case StateAddress:
		next.Address = input
		next.State = StateDelivery
	case StateDelivery:
		option, ok := m.matchDelivery(input)
		if !ok {
			return s, ErrInvalidDelivery
		}
		next.Delivery = option
		next.State = StateComplete
	case StateComplete:
		return s, ErrAlreadyComplete
	default:
		return s, fmt.Errorf("unknown checkout state %s", s.State)
	}
	return next, nil
}

func (m *Machine) matchDelivery(input string) (string, bool) {
	for _, o := range m.deliveryOptions {
		if strings.EqualFold(o, input) {
			return o, true
		}
	}
	return "", false
}
