package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/techsrow/locationhubapi/internal/domain"
	"github.com/techsrow/locationhubapi/internal/domain/models"
	"github.com/techsrow/locationhubapi/internal/repositories"
)

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := BookingService{
		DB:       db,
		Bookings: repositories.BookingRepo{DB: db},
		Products: repositories.ProductRepo{DB: db},
		LockTTL:  10 * time.Minute,
	}
	return svc, mock, func() { db.Close() }
}

func slotRows(productID int64, slotIDs ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "product_id", "label", "start_time", "end_time"})
	for _, id := range slotIDs {
		rows.AddRow(id, productID, "Morning", "09:00", "13:00")
	}
	return rows
}

func TestLockBookingSuccess(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, price FROM products").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).AddRow(3, "Studio A", 1000.0))
	mock.ExpectQuery("FROM slots").
		WillReturnRows(slotRows(3, 11, 12))
	mock.ExpectQuery("SELECT bs.slot_id").
		WillReturnRows(sqlmock.NewRows([]string{"slot_id"}))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO booking_slots").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO booking_slots").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	booking, err := svc.LockBooking(context.Background(), LockRequest{
		ProductID:   3,
		BookingDate: "2025-07-01",
		SlotIDs:     []int64{11, 12},
		FirstName:   "Asha",
		Email:       "asha@example.com",
	})
	if err != nil {
		t.Fatalf("lock error: %v", err)
	}
	if booking.ID != 42 {
		t.Fatalf("storage id not filled, got %d", booking.ID)
	}
	if booking.BookingID == "" {
		t.Fatalf("public booking id missing")
	}
	if booking.TotalAmount != 2360 || booking.GSTAmount != 360 || booking.BookingAmount != 1180 {
		t.Fatalf("amounts wrong: %+v", booking)
	}
	if booking.PaymentStatus != "locked" {
		t.Fatalf("status: got %s want locked", booking.PaymentStatus)
	}
	if booking.LockExpiresAt == nil {
		t.Fatalf("lock expiry not set")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLockBookingSlotAlreadyHeld(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, price FROM products").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).AddRow(3, "Studio A", 1000.0))
	mock.ExpectQuery("FROM slots").
		WillReturnRows(slotRows(3, 11))
	mock.ExpectQuery("SELECT bs.slot_id").
		WillReturnRows(sqlmock.NewRows([]string{"slot_id"}).AddRow(11))
	mock.ExpectRollback()

	_, err := svc.LockBooking(context.Background(), LockRequest{
		ProductID:   3,
		BookingDate: "2025-07-01",
		SlotIDs:     []int64{11},
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLockBookingLosesHoldRace(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	// The guard saw the slot free but a concurrent transaction committed its
	// hold first; the unique key rejects the insert with 1062.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, price FROM products").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).AddRow(3, "Studio A", 1000.0))
	mock.ExpectQuery("FROM slots").
		WillReturnRows(slotRows(3, 11))
	mock.ExpectQuery("SELECT bs.slot_id").
		WillReturnRows(sqlmock.NewRows([]string{"slot_id"}))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO booking_slots").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := svc.LockBooking(context.Background(), LockRequest{
		ProductID:   3,
		BookingDate: "2025-07-01",
		SlotIDs:     []int64{11},
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLockBookingRejectsForeignSlot(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	// Two slot ids requested but only one belongs to the product.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, price FROM products").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).AddRow(3, "Studio A", 1000.0))
	mock.ExpectQuery("FROM slots").
		WillReturnRows(slotRows(3, 11))
	mock.ExpectRollback()

	_, err := svc.LockBooking(context.Background(), LockRequest{
		ProductID:   3,
		BookingDate: "2025-07-01",
		SlotIDs:     []int64{11, 99},
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLockBookingEmptySlots(t *testing.T) {
	svc, _, closeDB := newBookingService(t)
	defer closeDB()

	_, err := svc.LockBooking(context.Background(), LockRequest{
		ProductID:   3,
		BookingDate: "2025-07-01",
		SlotIDs:     nil,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLockBookingBadDate(t *testing.T) {
	svc, _, closeDB := newBookingService(t)
	defer closeDB()

	_, err := svc.LockBooking(context.Background(), LockRequest{
		ProductID:   3,
		BookingDate: "01/07/2025",
		SlotIDs:     []int64{11},
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetBookingSummaryRemainingBalance(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	mock.ExpectQuery("FROM bookings WHERE booking_id").WithArgs("LH-20250701-AAAA1111").
		WillReturnRows(bookingRow(42, "LH-20250701-AAAA1111", "paid", "order_1"))
	mock.ExpectQuery("SELECT id, name, price FROM products").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).AddRow(3, "Studio A", 1000.0))
	mock.ExpectQuery("JOIN slots").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"label", "start_time", "end_time"}).
			AddRow("Morning", "09:00", "13:00").
			AddRow("Afternoon", "14:00", "18:00"))

	sum, err := svc.GetBookingSummary(context.Background(), "LH-20250701-AAAA1111")
	if err != nil {
		t.Fatalf("summary error: %v", err)
	}
	if sum.RemainingAmount != sum.TotalAmount-sum.BookingAmount {
		t.Fatalf("remaining %v != total %v - deposit %v", sum.RemainingAmount, sum.TotalAmount, sum.BookingAmount)
	}
	if sum.RemainingAmount != 1180 {
		t.Fatalf("remaining: got %v want 1180", sum.RemainingAmount)
	}
	if sum.ProductName != "Studio A" {
		t.Fatalf("product name: got %q", sum.ProductName)
	}
	if sum.CustomerName != "Asha" {
		t.Fatalf("customer name: got %q", sum.CustomerName)
	}
	if len(sum.Slots) != 2 || sum.Slots[0].Label != "Morning" {
		t.Fatalf("slots: got %+v", sum.Slots)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetBookingSummaryNotFound(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	mock.ExpectQuery("FROM bookings WHERE booking_id").WithArgs("LH-NOPE").
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err := svc.GetBookingSummary(context.Background(), "LH-NOPE")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateCustomerDetailsWhileLocked(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	mock.ExpectQuery("FROM bookings WHERE booking_id").WithArgs("LH-20250701-AAAA1111").
		WillReturnRows(bookingRow(42, "LH-20250701-AAAA1111", "locked", ""))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM bookings WHERE booking_id").WithArgs("LH-20250701-AAAA1111").
		WillReturnRows(bookingRow(42, "LH-20250701-AAAA1111", "locked", ""))

	_, err := svc.UpdateCustomerDetails(context.Background(), "LH-20250701-AAAA1111", models.CustomerDetails{
		FirstName: "Asha", City: "Pune",
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateCustomerDetailsRejectsPaid(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	mock.ExpectQuery("FROM bookings WHERE booking_id").
		WillReturnRows(bookingRow(42, "LH-20250701-AAAA1111", "paid", "order_1"))

	_, err := svc.UpdateCustomerDetails(context.Background(), "LH-20250701-AAAA1111", models.CustomerDetails{FirstName: "X"})
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("update issued against a paid booking: %v", err)
	}
}

func TestUpdateCustomerDetailsLosesRaceToTransition(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	// The read sees locked but the sweep expires the booking before the
	// conditional write lands: zero rows, and the re-read shows the new state.
	mock.ExpectQuery("FROM bookings WHERE booking_id").
		WillReturnRows(bookingRow(42, "LH-20250701-AAAA1111", "locked", ""))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM bookings WHERE booking_id").
		WillReturnRows(bookingRow(42, "LH-20250701-AAAA1111", "expired", ""))

	_, err := svc.UpdateCustomerDetails(context.Background(), "LH-20250701-AAAA1111", models.CustomerDetails{FirstName: "X"})
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateCustomerDetailsUnchangedValuesStillSucceed(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	// MySQL reports zero changed rows when the submitted values match the
	// stored ones; the booking is still locked, so that is not an error.
	mock.ExpectQuery("FROM bookings WHERE booking_id").
		WillReturnRows(bookingRow(42, "LH-20250701-AAAA1111", "locked", ""))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM bookings WHERE booking_id").
		WillReturnRows(bookingRow(42, "LH-20250701-AAAA1111", "locked", ""))

	booking, err := svc.UpdateCustomerDetails(context.Background(), "LH-20250701-AAAA1111", models.CustomerDetails{FirstName: "Asha"})
	if err != nil {
		t.Fatalf("idempotent resubmit should succeed, got %v", err)
	}
	if booking.PaymentStatus != "locked" {
		t.Fatalf("status: got %s want locked", booking.PaymentStatus)
	}
}

func TestCancelBookingReleasesHolds(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE booking_id").WithArgs("LH-20250701-AAAA1111").
		WillReturnRows(bookingRow(42, "LH-20250701-AAAA1111", "paid", "order_1"))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE booking_slots").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	booking, err := svc.CancelBooking(context.Background(), "LH-20250701-AAAA1111")
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if booking.PaymentStatus != "cancelled" {
		t.Fatalf("status: got %s want cancelled", booking.PaymentStatus)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBookingOnlyPaid(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE booking_id").
		WillReturnRows(bookingRow(42, "LH-20250701-AAAA1111", "locked", ""))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.CancelBooking(context.Background(), "LH-20250701-AAAA1111")
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
