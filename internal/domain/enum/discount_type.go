package enum

// DiscountType identifies how a checkout discount was expressed.
type DiscountType string

const (
	DiscountTypeNone    DiscountType = ""
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeAmount  DiscountType = "amount"
)

// Valid reports whether the discount type is known.
func (t DiscountType) Valid() bool {
	switch t {
	case DiscountTypeNone, DiscountTypePercent, DiscountTypeAmount:
		return true
	}
	return false
}
