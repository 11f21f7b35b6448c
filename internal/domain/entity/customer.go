package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a veresiye customer: someone the shop extends a
// running tab to. CurrentDebt is owned by the ledger and mutated only
// through ledger transactions, never written directly by the UI.
type Customer struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Phone       *string        `gorm:"size:50" json:"phone,omitempty"`
	Address     *string        `gorm:"type:text" json:"address,omitempty"`
	Note        *string        `gorm:"type:text" json:"note,omitempty"`
	CreditLimit int64          `gorm:"not null;default:0" json:"-"` // Stored in kuruş, excluded from JSON
	CurrentDebt int64          `gorm:"not null;default:0" json:"-"` // Stored in kuruş, excluded from JSON
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Transactions []CreditTransaction `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON custom marshaler to convert kuruş to decimal lira for API responses
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		CreditLimit float64 `json:"credit_limit"`
		CurrentDebt float64 `json:"current_debt"`
	}{
		Alias:       Alias(c),
		CreditLimit: float64(c.CreditLimit) / 100,
		CurrentDebt: float64(c.CurrentDebt) / 100,
	})
}

// AvailableCredit returns how much more debt the customer may take on.
func (c *Customer) AvailableCredit() int64 {
	remaining := c.CreditLimit - c.CurrentDebt
	if remaining < 0 {
		return 0
	}
	return remaining
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
