package entity

import (
	"encoding/json"
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CashSession is one drawer lifecycle: opened with a float, fed by
// cash movements, closed at end of day. At most one session is Open at a
// time; once Closed it is immutable history.
type CashSession struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Status         enum.SessionStatus `gorm:"default:0;index" json:"status"`
	OpeningDate    time.Time          `gorm:"not null" json:"opening_date"`
	OpeningBalance int64              `gorm:"not null" json:"-"` // Stored in kuruş, excluded from JSON
	ClosedAt       *time.Time         `json:"closed_at,omitempty"`

	// End-of-day counting. CountedAmount is what the operator physically
	// counted; CountingDifference = counted − theoretical. Informational
	// only, it never corrects the ledger.
	CountedAmount      *int64     `json:"-"`
	CountingDifference *int64     `json:"-"`
	CountedAt          *time.Time `json:"counted_at,omitempty"`

	OpenedBy  uuid.UUID      `gorm:"type:uuid;not null" json:"opened_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Transactions []CashTransaction `gorm:"foreignKey:SessionID" json:"transactions,omitempty"`
}

// MarshalJSON custom marshaler to convert kuruş to decimal lira for API responses
func (s CashSession) MarshalJSON() ([]byte, error) {
	type Alias CashSession
	out := &struct {
		Alias
		OpeningBalance     float64  `json:"opening_balance"`
		CountedAmount      *float64 `json:"counted_amount,omitempty"`
		CountingDifference *float64 `json:"counting_difference,omitempty"`
	}{
		Alias:          Alias(s),
		OpeningBalance: float64(s.OpeningBalance) / 100,
	}
	if s.CountedAmount != nil {
		v := float64(*s.CountedAmount) / 100
		out.CountedAmount = &v
	}
	if s.CountingDifference != nil {
		v := float64(*s.CountingDifference) / 100
		out.CountingDifference = &v
	}
	return json.Marshal(out)
}

// Open reports whether the session still accepts cash movements.
func (s *CashSession) Open() bool {
	return s.Status == enum.SessionStatusOpen
}

// BeforeCreate generates a UUID before creating a new cash session
func (s *CashSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashSession model
func (CashSession) TableName() string {
	return "cash_sessions"
}

// CashTransaction is an append-only drawer movement within a session.
// Movements are never mutated or deleted; corrections create inverse entries.
type CashTransaction struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	SessionID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"session_id"`
	Type        enum.CashFlowType `gorm:"default:0" json:"type"`
	Amount      int64             `gorm:"not null" json:"-"` // Stored in kuruş, excluded from JSON
	Date        time.Time         `gorm:"not null" json:"date"`
	Description string            `gorm:"size:255" json:"description"`

	// RelatedSaleID links drawer movements produced by a settlement.
	RelatedSaleID *uuid.UUID `gorm:"type:uuid;index" json:"related_sale_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Session CashSession `gorm:"foreignKey:SessionID" json:"-"`
}

// MarshalJSON custom marshaler to convert kuruş to decimal lira for API responses
func (t CashTransaction) MarshalJSON() ([]byte, error) {
	type Alias CashTransaction
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(t),
		Amount: float64(t.Amount) / 100,
	})
}

// Signed returns the movement's contribution to the drawer balance.
func (t *CashTransaction) Signed() int64 {
	if t.Type == enum.CashFlowWithdrawal {
		return -t.Amount
	}
	return t.Amount
}

// BeforeCreate generates a UUID before creating a new cash transaction
func (t *CashTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashTransaction model
func (CashTransaction) TableName() string {
	return "cash_transactions"
}
