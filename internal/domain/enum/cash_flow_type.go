package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CashFlowType represents the direction of a cash drawer movement
type CashFlowType int

const (
	CashFlowDeposit    CashFlowType = 0
	CashFlowWithdrawal CashFlowType = 1
)

func (t CashFlowType) String() string {
	return [...]string{"Deposit", "Withdrawal"}[t]
}

func (t CashFlowType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *CashFlowType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = CashFlowType(i)
		return nil
	}
	switch str {
	case "Deposit":
		*t = CashFlowDeposit
	case "Withdrawal":
		*t = CashFlowWithdrawal
	}
	return nil
}

func (t CashFlowType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *CashFlowType) Scan(value interface{}) error {
	if value == nil {
		*t = CashFlowDeposit
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = CashFlowType(v)
	case int:
		*t = CashFlowType(v)
	}
	return nil
}
