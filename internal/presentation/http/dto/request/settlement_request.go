package request

import "time"

// DiscountRequest is a checkout-level discount. Value is a percentage for
// percent discounts and lira for amount discounts.
type DiscountRequest struct {
	Type  string  `json:"type" binding:"omitempty,oneof=percent amount"`
	Value float64 `json:"value" binding:"gte=0"`
}

// NormalSettlementRequest commits a single-method checkout
type NormalSettlementRequest struct {
	SaleID      *string          `json:"sale_id" binding:"omitempty,uuid"`
	Total       float64          `json:"total" binding:"required,gt=0"`
	Discount    *DiscountRequest `json:"discount"`
	Method      string           `json:"method" binding:"required,oneof=cash card cash_terminal credit"`
	Received    float64          `json:"received" binding:"gte=0"`
	CustomerID  *string          `json:"customer_id" binding:"omitempty,uuid"`
	DueDate     *time.Time       `json:"due_date"`
	Description string           `json:"description" binding:"max=255"`
}

// SplitItemRequest is a line item still unpaid in a product-split checkout
type SplitItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
}

// SplitSelectionRequest picks a sub-quantity of a remaining item
type SplitSelectionRequest struct {
	Index    int `json:"index" binding:"gte=0"`
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// ProductSplitLegRequest pays for a selection of the remaining items
type ProductSplitLegRequest struct {
	SaleID     string                  `json:"sale_id" binding:"required,uuid"`
	Items      []SplitItemRequest      `json:"items" binding:"required,min=1,dive"`
	Selections []SplitSelectionRequest `json:"selections" binding:"required,min=1,dive"`
	Method     string                  `json:"method" binding:"required,oneof=cash card cash_terminal credit"`
	Received   float64                 `json:"received" binding:"gte=0"`
	CustomerID *string                 `json:"customer_id" binding:"omitempty,uuid"`
	DueDate    *time.Time              `json:"due_date"`
}

// SplitParticipantRequest is one payer in an equal-split checkout
type SplitParticipantRequest struct {
	Method     string     `json:"method" binding:"required,oneof=cash card cash_terminal credit"`
	Received   float64    `json:"received" binding:"required,gt=0"`
	CustomerID *string    `json:"customer_id" binding:"omitempty,uuid"`
	DueDate    *time.Time `json:"due_date"`
}

// EqualSplitRequest commits an N-way split checkout
type EqualSplitRequest struct {
	SaleID         *string                   `json:"sale_id" binding:"omitempty,uuid"`
	Total          float64                   `json:"total" binding:"required,gt=0"`
	Discount       *DiscountRequest          `json:"discount"`
	Participants   []SplitParticipantRequest `json:"participants" binding:"required,min=1,dive"`
	ConfirmOverpay bool                      `json:"confirm_overpay"`
	Description    string                    `json:"description" binding:"max=255"`
}
