package entity

import "github.com/shopspring/decimal"

// MoneyPlaces decimales con los que se persisten los importes (NUMERIC(14,2)).
const MoneyPlaces = 2

var maxMoney = decimal.New(1, 12) // 10^12, cota exclusiva de NUMERIC(14,2)

// ValidAmount indica si el importe entra en una columna monetaria sin redondeo ni
// desborde: como mucho 2 decimales significativos y |d| < 10^12.
func ValidAmount(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces)) && d.Abs().LessThan(maxMoney)
}
