package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/techsrow/locationhubapi/internal/domain/models"
	"github.com/techsrow/locationhubapi/internal/utils"
)

// DocsService renders the booking invoice PDF from the summary projection.
type DocsService struct {
	Bookings BookingService
}

func (s DocsService) GenerateInvoice(ctx context.Context, bookingID string) ([]byte, string, error) {
	summary, err := s.Bookings.GetBookingSummary(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	return buildInvoicePDF(summary)
}

func buildInvoicePDF(sum models.BookingSummary) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice No : INV-"+sum.BookingID)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Booking    : "+sum.BookingID)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+safe(sum.BookingDate, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Status     : "+sum.PaymentStatus)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Name  : "+safe(sum.CustomerName, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Email : "+safe(sum.Email, "-"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, fmt.Sprintf("%s on %s", safe(sum.ProductName, "-"), sum.BookingDate), "", "", false)
	for i, slot := range sum.Slots {
		pdf.MultiCell(0, 6, fmt.Sprintf("%d) %s (%s - %s)", i+1, slot.Label, slot.StartTime, slot.EndTime), "", "", false)
	}
	pdf.Ln(4)

	pdf.Cell(0, 6, "GST (18%)        : "+utils.FormatINR(sum.GSTAmount))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Total            : "+utils.FormatINR(sum.TotalAmount))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Deposit (50%)    : "+utils.FormatINR(sum.BookingAmount))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Balance due      : "+utils.FormatINR(sum.RemainingAmount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "The balance is payable at the studio on the booking date.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("INVOICE_%s.pdf", safeFilenamePart(sum.BookingID))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
