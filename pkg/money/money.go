package money

import "math"

// Amounts are handled as int64 kuruş (1 ₺ = 100 kuruş) everywhere in the
// backend. Conversion to decimal lira happens only at the JSON boundary.

// FromLira converts a decimal lira amount to kuruş.
func FromLira(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ToLira converts a kuruş amount to decimal lira.
func ToLira(amount int64) float64 {
	return float64(amount) / 100
}

// round applies half-away-from-zero rounding, which is what the fiscal
// register expects for kuruş amounts.
func round(v float64) int64 {
	if v < 0 {
		return -int64(math.Floor(-v + 0.5))
	}
	return int64(math.Floor(v + 0.5))
}

// AddVAT returns the gross amount for a net (tax-exclusive) price at the
// given VAT rate in percent.
func AddVAT(net int64, ratePct float64) int64 {
	return net + VATPortion(net, ratePct)
}

// VATPortion returns the VAT to be added on top of a net price.
func VATPortion(net int64, ratePct float64) int64 {
	return round(float64(net) * ratePct / 100)
}

// ExtractVAT returns the VAT already contained in a gross (tax-inclusive)
// price at the given rate.
func ExtractVAT(gross int64, ratePct float64) int64 {
	return round(float64(gross) * ratePct / (100 + ratePct))
}

// NetFromGross strips the VAT out of a tax-inclusive price.
func NetFromGross(gross int64, ratePct float64) int64 {
	return gross - ExtractVAT(gross, ratePct)
}

// ApplyPercentDiscount reduces total by pct percent. Percentages outside
// [0, 100] are clamped.
func ApplyPercentDiscount(total int64, pct float64) int64 {
	if pct <= 0 {
		return total
	}
	if pct >= 100 {
		return 0
	}
	return total - round(float64(total)*pct/100)
}

// ApplyAmountDiscount reduces total by a fixed kuruş amount, clamped so the
// result is never negative.
func ApplyAmountDiscount(total, amount int64) int64 {
	if amount <= 0 {
		return total
	}
	if amount >= total {
		return 0
	}
	return total - amount
}
