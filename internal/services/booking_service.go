package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/techsrow/locationhubapi/internal/domain"
	"github.com/techsrow/locationhubapi/internal/domain/models"
	"github.com/techsrow/locationhubapi/internal/repositories"
	"github.com/techsrow/locationhubapi/internal/utils"
)

const defaultLockTTL = 10 * time.Minute

// BookingService owns the booking lifecycle: the lock transaction, customer
// updates, cancellation and the summary projection. Exclusion across
// concurrent lock attempts comes from the storage transaction plus the
// active-hold unique key, never from an in-process mutex.
type BookingService struct {
	DB       *sql.DB
	Bookings repositories.BookingRepo
	Products repositories.ProductRepo
	LockTTL  time.Duration
}

// LockRequest carries the validated inputs of a lock attempt. Customer
// identity is optional at lock time and can be completed later while the
// booking is still locked.
type LockRequest struct {
	ProductID   int64
	BookingDate string
	SlotIDs     []int64
	FirstName   string
	LastName    string
	Phone       string
	Email       string
	RequestID   string
}

func (s BookingService) ttl() time.Duration {
	if s.LockTTL > 0 {
		return s.LockTTL
	}
	return defaultLockTTL
}

// LockBooking atomically validates the product and slots, checks availability,
// freezes pricing and reserves the slots under a TTL hold. Either the whole
// reservation commits or nothing is observable.
func (s BookingService) LockBooking(ctx context.Context, req LockRequest) (models.Booking, error) {
	slotIDs := dedupeIDs(req.SlotIDs)
	if len(slotIDs) == 0 {
		return models.Booking{}, domain.ValidationError{Field: "slotIds", Msg: "must be a non-empty array"}
	}

	bookingDate, err := utils.NormalizeBookingDate(req.BookingDate)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "bookingDate", Msg: err.Error()}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "could not open transaction", Err: err}
	}
	defer tx.Rollback()

	product, err := s.Products.GetByID(ctx, tx, req.ProductID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}

	slots, err := s.Products.GetSlotsByIDs(ctx, tx, product.ID, slotIDs)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if len(slots) != len(slotIDs) {
		return models.Booking{}, domain.ValidationError{Field: "slotIds", Msg: "invalid slot selection for this product"}
	}

	held, err := s.Bookings.FindHeldSlots(ctx, tx, product.ID, bookingDate, slotIDs)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if len(held) > 0 {
		return models.Booking{}, domain.ConflictError{Resource: "slot", Msg: "one of the selected slots is already booked"}
	}

	quote := utils.ComputeQuote(product.Price, len(slotIDs))
	now := time.Now()
	expires := now.Add(s.ttl())

	booking := models.Booking{
		ProductID:     product.ID,
		BookingDate:   bookingDate,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.TrimSpace(req.Email),
		TotalAmount:   quote.TotalAmount,
		GSTAmount:     quote.GSTAmount,
		BookingAmount: quote.BookingAmount,
		PaymentStatus: models.StatusLocked,
		LockExpiresAt: &expires,
	}

	// The random suffix makes a duplicate public id vanishingly rare, but the
	// UNIQUE key is authoritative, so retry with a fresh id on 1062.
	for attempt := 0; ; attempt++ {
		booking.BookingID = utils.NewBookingID(now)
		err = s.Bookings.InsertBooking(ctx, tx, &booking)
		if err == nil {
			break
		}
		if repositories.IsDuplicateEntry(err) && attempt < 2 {
			continue
		}
		return models.Booking{}, domain.InternalError{Msg: "could not create booking", Err: err}
	}

	for _, slotID := range slotIDs {
		if err := s.Bookings.InsertHold(ctx, tx, booking.ID, slotID, product.ID, bookingDate); err != nil {
			if domain.IsConflict(err) {
				return models.Booking{}, err
			}
			return models.Booking{}, domain.InternalError{Msg: "could not reserve slot", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "could not commit booking", Err: err}
	}

	utils.LogEvent(req.RequestID, "booking", "lock",
		fmt.Sprintf("booking_id=%s product_id=%d slots=%d total=%.2f", booking.BookingID, product.ID, len(slotIDs), quote.TotalAmount))
	return booking, nil
}

// UpdateCustomerDetails applies customer fields to a booking that is still
// locked; paid, expired and cancelled bookings reject the update.
func (s BookingService) UpdateCustomerDetails(ctx context.Context, bookingID string, d models.CustomerDetails) (models.Booking, error) {
	booking, err := s.Bookings.GetByPublicID(ctx, s.DB, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.PaymentStatus != models.StatusLocked {
		return models.Booking{}, domain.InvalidStateError{Current: booking.PaymentStatus, Msg: "customer details can only be updated while the booking is locked"}
	}

	// The WHERE still carries payment_status='locked' so a transition that
	// committed after the read above cannot be clobbered.
	rows, err := s.Bookings.UpdateCustomer(ctx, s.DB, bookingID, d)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	updated, err := s.Bookings.GetByPublicID(ctx, s.DB, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	// Zero rows is ambiguous under MySQL changed-rows semantics: either the
	// booking left the locked state between read and write, or the submitted
	// values matched what was stored. Re-reading disambiguates.
	if rows == 0 && updated.PaymentStatus != models.StatusLocked {
		return models.Booking{}, domain.InvalidStateError{Current: updated.PaymentStatus, Msg: "customer details can only be updated while the booking is locked"}
	}
	return updated, nil
}

// CancelBooking transitions a paid booking to cancelled and releases its slot
// holds so the date becomes bookable again.
func (s BookingService) CancelBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	booking, err := s.Bookings.GetByPublicID(ctx, tx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	rows, err := s.Bookings.CancelPaid(ctx, tx, booking.ID)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if rows == 0 {
		return models.Booking{}, domain.InvalidStateError{Current: booking.PaymentStatus, Msg: "only a paid booking can be cancelled"}
	}
	if err := s.Bookings.ReleaseHolds(ctx, tx, booking.ID); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	booking.PaymentStatus = models.StatusCancelled
	utils.LogEvent("", "booking", "cancel", "booking_id="+bookingID)
	return booking, nil
}

// GetBooking returns the raw booking by public id.
func (s BookingService) GetBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	return s.Bookings.GetByPublicID(ctx, s.DB, bookingID)
}

// GetBookingSummary assembles the read-only projection: booking, product name,
// slot labels/times and the remaining balance. No mutation.
func (s BookingService) GetBookingSummary(ctx context.Context, bookingID string) (models.BookingSummary, error) {
	booking, err := s.Bookings.GetByPublicID(ctx, s.DB, bookingID)
	if err != nil {
		return models.BookingSummary{}, err
	}

	product, err := s.Products.GetByID(ctx, s.DB, booking.ProductID)
	if err != nil && !domain.IsNotFound(err) {
		return models.BookingSummary{}, domain.InternalError{Err: err}
	}

	slots, err := s.Bookings.ListHeldSlotInfo(ctx, s.DB, booking.ID)
	if err != nil {
		return models.BookingSummary{}, domain.InternalError{Err: err}
	}

	return models.BookingSummary{
		BookingID:        booking.BookingID,
		ProductName:      product.Name,
		BookingDate:      booking.BookingDate,
		PaymentStatus:    booking.PaymentStatus,
		GatewayOrderID:   booking.GatewayOrderID,
		GatewayPaymentID: booking.GatewayPaymentID,
		CustomerName:     strings.TrimSpace(booking.FirstName + " " + booking.LastName),
		Email:            booking.Email,
		Slots:            slots,
		TotalAmount:      booking.TotalAmount,
		GSTAmount:        booking.GSTAmount,
		BookingAmount:    booking.BookingAmount,
		RemainingAmount:  utils.Round2(booking.TotalAmount - booking.BookingAmount),
	}, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
