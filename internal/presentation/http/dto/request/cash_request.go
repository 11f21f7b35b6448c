package request

// OpenSessionRequest opens the register with a starting float
type OpenSessionRequest struct {
	OpeningBalance float64 `json:"opening_balance" binding:"gte=0"`
}

// AddCashTransactionRequest appends a deposit or withdrawal to the open session
type AddCashTransactionRequest struct {
	Type        string  `json:"type" binding:"required,oneof=deposit withdrawal"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"max=255"`
}

// RecordCountingRequest records the operator's physical count
type RecordCountingRequest struct {
	CountedAmount float64 `json:"counted_amount" binding:"gte=0"`
}
