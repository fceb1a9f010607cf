package calc

import "github.com/shopspring/decimal"

var kWhPerMWh = decimal.NewFromInt(1000)

// PerKWh converts a PLN/MWh quote to PLN/kWh, rounded to four decimals.
func PerKWh(pricePerMWh decimal.Decimal) decimal.Decimal {
	return pricePerMWh.Div(kWhPerMWh).Round(4)
}
