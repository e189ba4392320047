package models

import "time"

// Payment status values. Transitions are monotonic: locked may become paid or
// expired; paid may become cancelled; expired and cancelled are terminal.
const (
	StatusLocked    = "locked"
	StatusPaid      = "paid"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// Booking is a slot hold. Amounts are frozen at lock time and never recomputed
// from the current catalog price.
type Booking struct {
	ID               int64      `json:"-"`
	BookingID        string     `json:"bookingId"`
	ProductID        int64      `json:"productId"`
	BookingDate      string     `json:"bookingDate"`
	FirstName        string     `json:"firstName,omitempty"`
	LastName         string     `json:"lastName,omitempty"`
	Address          string     `json:"address,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Postcode         string     `json:"postcode,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Email            string     `json:"email,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	TotalAmount      float64    `json:"totalAmount"`
	GSTAmount        float64    `json:"gstAmount"`
	BookingAmount    float64    `json:"bookingAmount"`
	PaymentStatus    string     `json:"paymentStatus"`
	LockExpiresAt    *time.Time `json:"lockExpiresAt,omitempty"`
	GatewayOrderID   string     `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string     `json:"gatewayPaymentId,omitempty"`
}

// CustomerDetails is the locked-only customer update payload.
type CustomerDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

// Quote holds the amounts frozen into a booking at lock time.
type Quote struct {
	TotalAmount   float64 `json:"totalAmount"`
	GSTAmount     float64 `json:"gstAmount"`
	BookingAmount float64 `json:"bookingAmount"`
}

// SlotInfo is the slot view embedded in a booking summary.
type SlotInfo struct {
	Label     string `json:"label"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// BookingSummary is the read-only projection of a booking with its product,
// slots and remaining balance.
type BookingSummary struct {
	BookingID        string     `json:"bookingId"`
	ProductName      string     `json:"productName"`
	BookingDate      string     `json:"bookingDate"`
	PaymentStatus    string     `json:"paymentStatus"`
	GatewayOrderID   string     `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string     `json:"gatewayPaymentId,omitempty"`
	CustomerName     string     `json:"customerName"`
	Email            string     `json:"email,omitempty"`
	Slots            []SlotInfo `json:"slots"`
	TotalAmount      float64    `json:"totalAmount"`
	GSTAmount        float64    `json:"gstAmount"`
	BookingAmount    float64    `json:"bookingAmount"`
	RemainingAmount  float64    `json:"remainingAmount"`
}
