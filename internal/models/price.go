package models

// PriceMap maps an exchange-qualified symbol to its last known price.
// A missing key means the price is unknown; there are no null entries.
type PriceMap map[string]float64

// Lookup returns the price for symbol and whether it is known.
func (m PriceMap) Lookup(symbol string) (float64, bool) {
	p, ok := m[symbol]
	return p, ok
}
