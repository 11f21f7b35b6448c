package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CreditType represents the direction of a ledger entry
type CreditType int

const (
	CreditTypeDebt    CreditType = 0
	CreditTypePayment CreditType = 1
)

func (t CreditType) String() string {
	return [...]string{"Debt", "Payment"}[t]
}

func (t CreditType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *CreditType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = CreditType(i)
		return nil
	}
	switch str {
	case "Debt":
		*t = CreditTypeDebt
	case "Payment":
		*t = CreditTypePayment
	}
	return nil
}

func (t CreditType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *CreditType) Scan(value interface{}) error {
	if value == nil {
		*t = CreditTypeDebt
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = CreditType(v)
	case int:
		*t = CreditType(v)
	}
	return nil
}
