package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CreditStatus represents the settlement state of a ledger entry.
// Debt entries move Active -> Paid or Active -> Overdue -> Paid.
// Payment entries stay Active; a payment is never overdue.
type CreditStatus int

const (
	CreditStatusActive  CreditStatus = 0
	CreditStatusOverdue CreditStatus = 1
	CreditStatusPaid    CreditStatus = 2
)

func (s CreditStatus) String() string {
	return [...]string{"Active", "Overdue", "Paid"}[s]
}

// Outstanding reports whether the entry still counts towards the
// customer's running debt.
func (s CreditStatus) Outstanding() bool {
	return s == CreditStatusActive || s == CreditStatusOverdue
}

func (s CreditStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CreditStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = CreditStatus(i)
		return nil
	}
	switch str {
	case "Active":
		*s = CreditStatusActive
	case "Overdue":
		*s = CreditStatusOverdue
	case "Paid":
		*s = CreditStatusPaid
	}
	return nil
}

func (s CreditStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CreditStatus) Scan(value interface{}) error {
	if value == nil {
		*s = CreditStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = CreditStatus(v)
	case int:
		*s = CreditStatus(v)
	}
	return nil
}
