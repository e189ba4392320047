package utils

import (
	"math"

	"github.com/techsrow/locationhubapi/internal/domain/models"
)

const (
	gstRate      = 0.18
	depositShare = 0.5
)

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeQuote derives the frozen booking amounts from a unit price and slot
// count: base, 18% GST, and a 50% deposit of the rounded total. Pure; callers
// must reject slotCount <= 0 before reaching here.
func ComputeQuote(unitPrice float64, slotCount int) models.Quote {
	base := unitPrice * float64(slotCount)
	gst := Round2(base * gstRate)
	total := Round2(base + gst)
	deposit := Round2(total * depositShare)
	return models.Quote{
		TotalAmount:   total,
		GSTAmount:     gst,
		BookingAmount: deposit,
	}
}

// ToMinorUnits converts a currency amount to integer minor units (paise) for
// the payment gateway.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
