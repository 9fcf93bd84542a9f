// Package currency converts between naira and US dollar amounts
// at a fixed exchange rate.
package currency

// USDToNGNRate is the fixed exchange rate used across the system.
const USDToNGNRate = 1600.0

// NgnToUsd converts a naira amount to US dollars.
func NgnToUsd(ngn float64) float64 {
	return ngn / USDToNGNRate
}

// UsdToNgn converts a US dollar amount to naira.
func UsdToNgn(usd float64) float64 {
	return usd * USDToNGNRate
}

// Pair holds the same amount in both currencies.
type Pair struct {
	NGN float64 `json:"ngn"`
	USD float64 `json:"usd"`
}

// FromNgn builds a Pair from a naira amount.
func FromNgn(ngn float64) Pair {
	return Pair{NGN: ngn, USD: NgnToUsd(ngn)}
}

// FromUsd builds a Pair from a US dollar amount.
func FromUsd(usd float64) Pair {
	return Pair{NGN: UsdToNgn(usd), USD: usd}
}
