package entity

import (
	"encoding/json"
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditTransaction is a single ledger entry on a customer's tab.
//
// Invariant: per customer, the sum of outstanding (Active|Overdue) debt
// amounts minus outstanding payment amounts equals Customer.CurrentDebt.
// Entries are never hard-deleted while outstanding; FIFO settlement reduces
// Amount in place and finally flips Status to Paid.
type CreditTransaction struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id"`
	Type       enum.CreditType   `gorm:"default:0" json:"type"`
	Status     enum.CreditStatus `gorm:"default:0;index" json:"status"`
	Amount     int64             `gorm:"not null" json:"-"` // Stored in kuruş, excluded from JSON
	Date       time.Time         `gorm:"not null;index" json:"date"`
	DueDate    *time.Time        `json:"due_date,omitempty"` // Only meaningful for debt entries
	Description string           `gorm:"size:255" json:"description"`

	// RelatedSaleID links the entry back to the settlement that produced it.
	RelatedSaleID *uuid.UUID `gorm:"type:uuid;index" json:"related_sale_id,omitempty"`

	// Discount provenance, recorded when the originating checkout carried a
	// discount. Enables "discounted sales" statistics later.
	OriginalAmount *int64            `json:"-"`
	DiscountAmount *int64            `json:"-"`
	DiscountType   enum.DiscountType `gorm:"size:20;default:''" json:"discount_type,omitempty"`
	DiscountValue  *float64          `json:"discount_value,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON custom marshaler to convert kuruş to decimal lira for API responses
func (t CreditTransaction) MarshalJSON() ([]byte, error) {
	type Alias CreditTransaction
	out := &struct {
		Alias
		Amount         float64  `json:"amount"`
		OriginalAmount *float64 `json:"original_amount,omitempty"`
		DiscountAmount *float64 `json:"discount_amount,omitempty"`
	}{
		Alias:  Alias(t),
		Amount: float64(t.Amount) / 100,
	}
	if t.OriginalAmount != nil {
		v := float64(*t.OriginalAmount) / 100
		out.OriginalAmount = &v
	}
	if t.DiscountAmount != nil {
		v := float64(*t.DiscountAmount) / 100
		out.DiscountAmount = &v
	}
	return json.Marshal(out)
}

// Discounted reports whether the entry carries discount provenance.
func (t *CreditTransaction) Discounted() bool {
	return t.DiscountType != enum.DiscountTypeNone && t.DiscountAmount != nil && *t.DiscountAmount > 0
}

// BeforeCreate generates a UUID before creating a new credit transaction
func (t *CreditTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CreditTransaction model
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
