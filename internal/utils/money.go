package utils

import "fmt"

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatINR renders an amount with the currency marker used on invoices.
func FormatINR(amount float64) string {
	return "Rs " + FormatMoney(amount)
}
