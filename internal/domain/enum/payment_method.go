package enum

// PaymentMethod is how a settlement leg is collected. Stored as a string the
// way payment types are keyed from the register UI.
type PaymentMethod string

const (
	// PaymentMethodCash is cash into the drawer.
	PaymentMethodCash PaymentMethod = "cash"
	// PaymentMethodCard is a card payment routed through the terminal.
	PaymentMethodCard PaymentMethod = "card"
	// PaymentMethodCashTerminal is cash collected via the terminal device
	// (the device counts, the drawer still receives the money).
	PaymentMethodCashTerminal PaymentMethod = "cash_terminal"
	// PaymentMethodCredit books the amount onto the customer's tab.
	PaymentMethodCredit PaymentMethod = "credit"
)

// Valid reports whether the method is one the register accepts.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodCashTerminal, PaymentMethodCredit:
		return true
	}
	return false
}

// UsesTerminal reports whether the method routes through the card terminal.
func (m PaymentMethod) UsesTerminal() bool {
	return m == PaymentMethodCard || m == PaymentMethodCashTerminal
}

// CashEquivalent reports whether the collected money lands in the drawer.
func (m PaymentMethod) CashEquivalent() bool {
	return m == PaymentMethodCash || m == PaymentMethodCashTerminal
}
