package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techsrow/locationhubapi/internal/domain/models"
	"github.com/techsrow/locationhubapi/internal/http/middleware"
	"github.com/techsrow/locationhubapi/internal/services"
	"github.com/techsrow/locationhubapi/internal/validation"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	Bookings services.BookingService
	Payments services.PaymentService
	Docs     services.DocsService
	Validate *validation.Validator
}

type lockBookingRequest struct {
	ProductID   int64   `json:"productId" validate:"required,gt=0"`
	BookingDate string  `json:"bookingDate" validate:"required"`
	SlotIDs     []int64 `json:"slotIds" validate:"required,min=1"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email" validate:"omitempty,email"`
}

// POST /api/bookings/lock
func (h BookingHandler) Lock(c *gin.Context) {
	var req lockBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		RespondDomainError(c, err)
		return
	}

	booking, err := h.Bookings.LockBooking(c.Request.Context(), services.LockRequest{
		ProductID:   req.ProductID,
		BookingDate: req.BookingDate,
		SlotIDs:     req.SlotIDs,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Email:       req.Email,
		RequestID:   middleware.GetRequestID(c),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GET /api/bookings/:id
func (h BookingHandler) Get(c *gin.Context) {
	summary, err := h.Bookings.GetBookingSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// PUT /api/bookings/:id/customer
func (h BookingHandler) UpdateCustomer(c *gin.Context) {
	var details models.CustomerDetails
	if !BindJSONOrError(c, &details) {
		return
	}
	booking, err := h.Bookings.UpdateCustomerDetails(c.Request.Context(), c.Param("id"), details)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// POST /api/bookings/:id/pay
func (h BookingHandler) Pay(c *gin.Context) {
	orderID, err := h.Payments.CreatePaymentOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gatewayOrderId": orderID})
}

// POST /api/bookings/:id/cancel
func (h BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.Bookings.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GET /api/bookings/:id/invoice
func (h BookingHandler) Invoice(c *gin.Context) {
	pdfBytes, filename, err := h.Docs.GenerateInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
