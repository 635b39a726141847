package catalog

import "github.com/shopspring/decimal"

// maxPrice límite exclusivo para NUMERIC(10,2).
var maxPrice = decimal.New(1, 8)

// ValidPrice indica si price es no negativo, tiene a lo sumo 2 decimales y cabe en NUMERIC(10,2).
func ValidPrice(price decimal.Decimal) bool {
	if price.IsNegative() {
		return false
	}
	if !price.Equal(price.Round(2)) {
		return false
	}
	return price.LessThan(maxPrice)
}
