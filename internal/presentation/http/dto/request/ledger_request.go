package request

import "time"

// AddTransactionRequest books a manual debt or payment on a customer's tab
type AddTransactionRequest struct {
	Type        string     `json:"type" binding:"required,oneof=debt payment"`
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	Description string     `json:"description" binding:"max=255"`
	DueDate     *time.Time `json:"due_date"`
}

// CollectPaymentRequest takes money against an existing debt
type CollectPaymentRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Method      string  `json:"method" binding:"required,oneof=cash card cash_terminal"`
	Description string  `json:"description" binding:"max=255"`
}
