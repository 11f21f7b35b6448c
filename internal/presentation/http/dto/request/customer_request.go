package request

// CreateCustomerRequest represents a create customer request. Money fields
// are lira with decimals; the service converts to kuruş.
type CreateCustomerRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Note        *string `json:"note"`
	CreditLimit float64 `json:"credit_limit" binding:"gte=0"`
}

// UpdateCustomerRequest represents an update customer request
type UpdateCustomerRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Phone       *string  `json:"phone"`
	Address     *string  `json:"address"`
	Note        *string  `json:"note"`
	CreditLimit *float64 `json:"credit_limit" binding:"omitempty,gte=0"`
}
