package engine

import "math"

// MonthlyPayment returns the constant payment that retires principal over the
// given number of months at an annual rate in percent. A zero rate pays the
// principal back in equal parts.
func MonthlyPayment(principal, annualRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	r := monthlyRate(annualRate)
	if r == 0 {
		return principal / float64(months)
	}
	growth := math.Pow(1+r, float64(months))
	return principal * r * growth / (growth - 1)
}

// RemainingBalance returns the principal still owed after paid payments of an
// amortizing loan of the given length. A zero-rate loan is amortized linearly.
func RemainingBalance(principal, annualRate float64, months, paid int) float64 {
	if months <= 0 || paid >= months {
		return 0
	}
	if paid <= 0 {
		return principal
	}
	r := monthlyRate(annualRate)
	if r == 0 {
		return principal * float64(months-paid) / float64(months)
	}
	total := math.Pow(1+r, float64(months))
	return principal * (total - math.Pow(1+r, float64(paid))) / (total - 1)
}

func monthlyRate(annualRate float64) float64 {
	return annualRate / 100 / 12
}
