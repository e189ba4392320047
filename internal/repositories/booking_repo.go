package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/techsrow/locationhubapi/internal/domain"
	"github.com/techsrow/locationhubapi/internal/domain/models"
)

// DBTX is satisfied by *sql.DB and *sql.Tx, so guard reads and hold writes can
// run inside the same transaction handle the service opened.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// IsDuplicateEntry reports MySQL error 1062 (duplicate key).
func IsDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

type BookingRepo struct {
	DB *sql.DB
}

const bookingColumns = `id, booking_id, product_id, DATE_FORMAT(booking_date, '%Y-%m-%d'),
	COALESCE(first_name,''), COALESCE(last_name,''), COALESCE(address,''), COALESCE(city,''),
	COALESCE(state,''), COALESCE(postcode,''), COALESCE(phone,''), COALESCE(email,''), COALESCE(notes,''),
	total_amount, gst_amount, booking_amount, payment_status, lock_expires_at,
	COALESCE(gateway_order_id,''), COALESCE(gateway_payment_id,'')`

func scanBooking(row *sql.Row) (models.Booking, error) {
	var b models.Booking
	var lockExpires sql.NullTime
	err := row.Scan(
		&b.ID,
		&b.BookingID,
		&b.ProductID,
		&b.BookingDate,
		&b.FirstName,
		&b.LastName,
		&b.Address,
		&b.City,
		&b.State,
		&b.Postcode,
		&b.Phone,
		&b.Email,
		&b.Notes,
		&b.TotalAmount,
		&b.GSTAmount,
		&b.BookingAmount,
		&b.PaymentStatus,
		&lockExpires,
		&b.GatewayOrderID,
		&b.GatewayPaymentID,
	)
	if err != nil {
		return models.Booking{}, err
	}
	if lockExpires.Valid {
		t := lockExpires.Time
		b.LockExpiresAt = &t
	}
	return b, nil
}

// GetByPublicID loads a booking by its public LH- id.
func (r BookingRepo) GetByPublicID(ctx context.Context, q DBTX, bookingID string) (models.Booking, error) {
	row := q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id=? LIMIT 1`, bookingID)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// GetByGatewayOrderID loads a booking by the payment-gateway order id recorded
// at issuance time.
func (r BookingRepo) GetByGatewayOrderID(ctx context.Context, q DBTX, orderID string) (models.Booking, error) {
	row := q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE gateway_order_id=? LIMIT 1`, orderID)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// FindHeldSlots returns the subset of slotIDs currently held for the product
// and date under the exclusivity rule: paid, or locked with a live TTL. Must be
// called on the same transaction that will insert the new holds.
func (r BookingRepo) FindHeldSlots(ctx context.Context, q DBTX, productID int64, bookingDate string, slotIDs []int64) ([]int64, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}
	ph := strings.TrimSuffix(strings.Repeat("?,", len(slotIDs)), ",")
	args := []any{productID, bookingDate}
	for _, id := range slotIDs {
		args = append(args, id)
	}
	args = append(args, models.StatusPaid, models.StatusLocked)

	rows, err := q.QueryContext(ctx, `
		SELECT bs.slot_id
		FROM booking_slots bs
		JOIN bookings b ON b.id = bs.booking_id
		WHERE bs.product_id=? AND bs.booking_date=? AND bs.active=1
		  AND bs.slot_id IN (`+ph+`)
		  AND (b.payment_status=? OR (b.payment_status=? AND b.lock_expires_at > NOW()))
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var held []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		held = append(held, id)
	}
	return held, rows.Err()
}

// InsertBooking inserts the booking row and fills in the storage id. A
// duplicate public booking id surfaces as a raw 1062 for the caller to retry
// with a fresh id.
func (r BookingRepo) InsertBooking(ctx context.Context, q DBTX, b *models.Booking) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO bookings
		(booking_id, product_id, booking_date, first_name, last_name, phone, email,
		 total_amount, gst_amount, booking_amount, payment_status, lock_expires_at, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,NOW())
	`,
		b.BookingID,
		b.ProductID,
		b.BookingDate,
		b.FirstName,
		b.LastName,
		b.Phone,
		b.Email,
		b.TotalAmount,
		b.GSTAmount,
		b.BookingAmount,
		b.PaymentStatus,
		b.LockExpiresAt,
	)
	if err != nil {
		return err
	}
	b.ID, _ = res.LastInsertId()
	return nil
}

// InsertHold writes one active hold row. The uniq_active_hold key turns a
// concurrent reservation of the same slot into a 1062, reported here as a
// slot conflict so the losing transaction rolls back cleanly.
func (r BookingRepo) InsertHold(ctx context.Context, q DBTX, bookingRowID, slotID, productID int64, bookingDate string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO booking_slots (booking_id, slot_id, product_id, booking_date, active, created_at)
		VALUES (?, ?, ?, ?, 1, NOW())
	`, bookingRowID, slotID, productID, bookingDate)
	if IsDuplicateEntry(err) {
		return domain.ConflictError{Resource: "slot", Msg: "one of the selected slots is already booked", Err: err}
	}
	return err
}

// UpdateCustomer applies customer details to a booking that is still locked.
// Returns the number of rows touched; zero means not-locked or unknown id.
func (r BookingRepo) UpdateCustomer(ctx context.Context, q DBTX, bookingID string, d models.CustomerDetails) (int64, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE bookings
		SET first_name=?, last_name=?, address=?, city=?, state=?, postcode=?, phone=?, email=?, notes=?, updated_at=NOW()
		WHERE booking_id=? AND payment_status=?
	`,
		strings.TrimSpace(d.FirstName),
		strings.TrimSpace(d.LastName),
		strings.TrimSpace(d.Address),
		strings.TrimSpace(d.City),
		strings.TrimSpace(d.State),
		strings.TrimSpace(d.Postcode),
		strings.TrimSpace(d.Phone),
		strings.TrimSpace(d.Email),
		strings.TrimSpace(d.Notes),
		bookingID,
		models.StatusLocked,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetGatewayOrderID records the gateway order id exactly once: the conditional
// WHERE keeps a concurrent issuance or state change from overwriting it.
func (r BookingRepo) SetGatewayOrderID(ctx context.Context, q DBTX, bookingID, orderID string) (int64, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE bookings
		SET gateway_order_id=?, updated_at=NOW()
		WHERE booking_id=? AND payment_status=? AND gateway_order_id IS NULL
	`, orderID, bookingID, models.StatusLocked)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkPaid flips locked -> paid for the booking owning the gateway order id,
// records the payment id and clears the lock TTL. Conditional on the row still
// being locked so a replayed webhook or a racing sweep cannot clobber it.
func (r BookingRepo) MarkPaid(ctx context.Context, q DBTX, orderID, paymentID string) (int64, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE bookings
		SET payment_status=?, gateway_payment_id=?, lock_expires_at=NULL, updated_at=NOW()
		WHERE gateway_order_id=? AND payment_status=?
	`, models.StatusPaid, paymentID, orderID, models.StatusLocked)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CancelPaid flips paid -> cancelled. Zero rows means the booking was not paid.
func (r BookingRepo) CancelPaid(ctx context.Context, q DBTX, bookingRowID int64) (int64, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE bookings
		SET payment_status=?, updated_at=NOW()
		WHERE id=? AND payment_status=?
	`, models.StatusCancelled, bookingRowID, models.StatusPaid)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseHolds frees the slot holds of one booking. Setting active to NULL
// removes the rows from the unique index without deleting history.
func (r BookingRepo) ReleaseHolds(ctx context.Context, q DBTX, bookingRowID int64) error {
	_, err := q.ExecContext(ctx, `
		UPDATE booking_slots SET active=NULL WHERE booking_id=? AND active=1
	`, bookingRowID)
	return err
}

// ExpireStale bulk-transitions every locked booking whose TTL has elapsed to
// expired and releases its holds, in one transaction. The status condition in
// the WHERE means a booking paid at the same instant is left alone.
func (r BookingRepo) ExpireStale(ctx context.Context) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET payment_status=?, updated_at=NOW()
		WHERE payment_status=? AND lock_expires_at IS NOT NULL AND lock_expires_at < NOW()
	`, models.StatusExpired, models.StatusLocked)
	if err != nil {
		return 0, err
	}
	expired, _ := res.RowsAffected()

	if expired > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE booking_slots bs
			JOIN bookings b ON b.id = bs.booking_id
			SET bs.active=NULL
			WHERE bs.active=1 AND b.payment_status=?
		`, models.StatusExpired)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return expired, nil
}

// ListHeldSlotInfo returns label and times of every slot a booking holds, for
// the summary projection.
func (r BookingRepo) ListHeldSlotInfo(ctx context.Context, q DBTX, bookingRowID int64) ([]models.SlotInfo, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT s.label, s.start_time, s.end_time
		FROM booking_slots bs
		JOIN slots s ON s.id = bs.slot_id
		WHERE bs.booking_id=?
		ORDER BY s.start_time, s.id
	`, bookingRowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SlotInfo{}
	for rows.Next() {
		var si models.SlotInfo
		if err := rows.Scan(&si.Label, &si.StartTime, &si.EndTime); err != nil {
			return nil, err
		}
		out = append(out, si)
	}
	return out, rows.Err()
}
