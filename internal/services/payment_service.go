package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/techsrow/locationhubapi/internal/domain"
	"github.com/techsrow/locationhubapi/internal/domain/models"
	"github.com/techsrow/locationhubapi/internal/gateway"
	"github.com/techsrow/locationhubapi/internal/notify"
	"github.com/techsrow/locationhubapi/internal/repositories"
	"github.com/techsrow/locationhubapi/internal/utils"
)

const eventPaymentCaptured = "payment.captured"

// PaymentService issues gateway orders for the deposit and reconciles the
// asynchronous capture webhooks. Both sides rely on conditional updates so
// retried deliveries and racing sweeps cannot double-apply a transition.
type PaymentService struct {
	DB            *sql.DB
	Bookings      repositories.BookingRepo
	Gateway       gateway.OrderCreator
	Notifier      notify.Notifier
	WebhookSecret []byte
	Currency      string
}

func (s PaymentService) currency() string {
	if s.Currency != "" {
		return s.Currency
	}
	return "INR"
}

// CreatePaymentOrder requests a gateway order for the booking's deposit and
// persists the returned order id. At most one outbound gateway call succeeds
// per booking; later attempts fail with AlreadyInitiated before calling out.
func (s PaymentService) CreatePaymentOrder(ctx context.Context, bookingID string) (string, error) {
	booking, err := s.Bookings.GetByPublicID(ctx, s.DB, bookingID)
	if err != nil {
		return "", err
	}
	if booking.PaymentStatus != models.StatusLocked {
		return "", domain.InvalidStateError{Current: booking.PaymentStatus, Msg: "booking not available for payment"}
	}
	if booking.GatewayOrderID != "" {
		return "", domain.AlreadyInitiatedError{BookingID: bookingID}
	}

	orderID, err := s.Gateway.CreateOrder(ctx, utils.ToMinorUnits(booking.BookingAmount), s.currency(), bookingID)
	if err != nil {
		if domain.IsGateway(err) {
			return "", err
		}
		return "", domain.GatewayError{Op: "order.create", Err: err}
	}

	rows, err := s.Bookings.SetGatewayOrderID(ctx, s.DB, bookingID, orderID)
	if err != nil {
		return "", domain.InternalError{Err: err}
	}
	if rows == 0 {
		// Lost a race: either another request stored its order first or the
		// booking left the locked state. The extra gateway order is orphaned.
		utils.LogEvent("", "payment", "create_order", "orphaned gateway order "+orderID+" for booking "+bookingID)
		current, rerr := s.Bookings.GetByPublicID(ctx, s.DB, bookingID)
		if rerr != nil {
			return "", rerr
		}
		if current.GatewayOrderID != "" {
			return "", domain.AlreadyInitiatedError{BookingID: bookingID}
		}
		return "", domain.InvalidStateError{Current: current.PaymentStatus, Msg: "booking not available for payment"}
	}

	utils.LogEvent("", "payment", "create_order",
		fmt.Sprintf("booking_id=%s order_id=%s amount_minor=%d", bookingID, orderID, utils.ToMinorUnits(booking.BookingAmount)))
	return orderID, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 hex digest of the exact raw
// body against the signature header, in constant time.
func VerifyWebhookSignature(raw []byte, signature string, secret []byte) bool {
	mac := hmac.New(sha256.New, secret)
	mac.Write(raw)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook verifies and applies a gateway event. It is safe under
// arbitrary repeated delivery: only the first "payment captured" per order
// mutates state, every replay is acknowledged without re-mutating. A nil
// return means the delivery is settled and the gateway must not retry.
func (s PaymentService) HandleWebhook(ctx context.Context, raw []byte, signature string) error {
	if len(s.WebhookSecret) == 0 {
		return domain.InternalError{Msg: "webhook secret not configured"}
	}
	if !VerifyWebhookSignature(raw, signature, s.WebhookSecret) {
		return domain.InvalidSignatureError{}
	}

	var ev webhookEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		// Signed but unparseable: acknowledge so the gateway stops retrying.
		utils.LogEvent("", "webhook", "parse", "unparseable signed payload ignored")
		return nil
	}

	if ev.Event != eventPaymentCaptured {
		utils.LogEvent("", "webhook", "ignore", "event="+ev.Event)
		return nil
	}

	entity := ev.Payload.Payment.Entity
	if entity.OrderID == "" {
		utils.LogEvent("", "webhook", "ignore", "captured event without order_id")
		return nil
	}

	booking, err := s.Bookings.GetByGatewayOrderID(ctx, s.DB, entity.OrderID)
	if err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		return domain.InternalError{Err: err}
	}
	if booking.PaymentStatus == models.StatusPaid {
		utils.LogEvent("", "webhook", "replay", "booking_id="+booking.BookingID+" already paid")
		return nil
	}

	rows, err := s.Bookings.MarkPaid(ctx, s.DB, entity.OrderID, entity.ID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if rows == 0 {
		current, rerr := s.Bookings.GetByPublicID(ctx, s.DB, booking.BookingID)
		if rerr != nil {
			return domain.InternalError{Err: rerr}
		}
		if current.PaymentStatus != models.StatusPaid {
			// Capture arrived for a booking already expired or cancelled.
			// Acknowledged but not applied; expired stays terminal.
			utils.LogEvent("", "webhook", "ignore",
				fmt.Sprintf("booking_id=%s capture ignored in state %s", booking.BookingID, current.PaymentStatus))
		}
		return nil
	}

	// The event amount is logged for visibility but not reconciled against
	// the stored deposit.
	utils.LogEvent("", "webhook", "paid",
		fmt.Sprintf("booking_id=%s order_id=%s payment_id=%s amount_minor=%d deposit_minor=%d",
			booking.BookingID, entity.OrderID, entity.ID, entity.Amount, utils.ToMinorUnits(booking.BookingAmount)))

	s.publishPaid(ctx, booking, entity.OrderID, entity.ID, entity.Amount)
	return nil
}

// publishPaid emits the booking.paid event; failures are logged and swallowed
// so notification problems never fail the reconciliation.
func (s PaymentService) publishPaid(ctx context.Context, b models.Booking, orderID, paymentID string, amountMinor int64) {
	if s.Notifier == nil {
		return
	}
	evt := map[string]any{
		"event":            "booking.paid",
		"bookingId":        b.BookingID,
		"gatewayOrderId":   orderID,
		"gatewayPaymentId": paymentID,
		"amountMinor":      amountMinor,
		"occurredAt":       time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Notifier.PublishJSON(ctx, "booking.paid", evt); err != nil {
		utils.LogError("", "webhook", "notify", err)
	}
}
