package core

// Currency is static reference data for display formatting. The table is
// fixed and not user-editable; unknown codes degrade to code-prefix formatting.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

var currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "CHF", Symbol: "CHF", Name: "Swiss Franc"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real"},
}

// Currencies returns the supported currency table in display order.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// LookupCurrency finds a descriptor by code. ok is false for unknown codes;
// the returned descriptor then carries the code itself as symbol and name so
// formatting degrades gracefully.
func LookupCurrency(code string) (Currency, bool) {
	for _, c := range currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{Code: code, Symbol: code + " ", Name: code}, false
}

// FormatAmount renders a money value with the symbol of the given currency.
func FormatAmount(m Money, code string) string {
	c, _ := LookupCurrency(code)
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := c.Symbol + Money{Cents: cents}.DecimalString()
	if neg {
		return "-" + s
	}
	return s
}
