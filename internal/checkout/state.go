package checkout

//go:generate go tool stringer -type=State -trimprefix=State

// State - шаг диалога оформления заказа
type State int

const (
	StateName State = iota
	StatePhone
	StateAddress
	StateDelivery
	// StateComplete: все данные собраны, можно создавать заказ
	StateComplete
)

// Session - частично заполненные ответы покупателя между сообщениями
type Session struct {
	State    State  `json:"state"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Delivery string `json:"delivery,omitempty"`
}

func (s Session) Complete() bool {
	return s.State == StateComplete
}
