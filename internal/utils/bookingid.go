package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const bookingIDPrefix = "LH"

// NewBookingID returns a public booking id like LH-20240501-3F9A1C2B. The
// random suffix keeps concurrent requests from colliding; the bookings table
// still carries a UNIQUE constraint and the insert retries on a duplicate.
func NewBookingID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return bookingIDPrefix + "-" + now.Format("20060102") + "-" + suffix
}
