package payment

import (
	"context"
	"encoding/json"
	"time"

	"tripay/models"
)

// CreateInvoiceInput carries the customer-supplied fields for a new invoice.
type CreateInvoiceInput struct {
	DateTravel    time.Time
	NumberOfGuest int
	Note          string
	ProductID     string
}

// ReviewInput carries the customer-supplied fields for a review.
type ReviewInput struct {
	InvoiceID   string
	Rating      int
	Comment     string
	IsRecommend bool
}

// PaymentInitiation is the outcome of initiating payment: the refreshed
// invoice, the raw gateway order and the hosted checkout URL the customer
// should be sent to.
type PaymentInitiation struct {
	Invoice    *models.Invoice
	Payment    json.RawMessage
	PaymentURL string
}

// CaptureOutcome reports what the capture callback did. AlreadyCaptured is
// set when the gateway reported the order COMPLETED and no second capture
// was attempted.
type CaptureOutcome struct {
	Invoice         *models.Invoice
	AlreadyCaptured bool
}

// OrderStatusResult is the outcome of a status inquiry. Expired means the
// gateway no longer knows the order and the invoice was moved to the
// expired status; otherwise the gateway's response is relayed as-is.
type OrderStatusResult struct {
	Approved   bool
	Expired    bool
	Message    string
	HTTPStatus int
	Raw        json.RawMessage
}

// InvoiceService is the invoice/payment lifecycle orchestrator. Every
// operation returns a *PaymentError on failure.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, customerID string, in CreateInvoiceInput) (*models.Invoice, error)
	InitiatePayment(ctx context.Context, customerID, invoiceID, origin string) (*PaymentInitiation, error)
	Capture(ctx context.Context, invoiceID string) (*CaptureOutcome, error)
	OrderStatus(ctx context.Context, customerID, invoiceID string) (*OrderStatusResult, error)
	DeleteInvoice(ctx context.Context, customerID, invoiceID string) error
	AttachReview(ctx context.Context, customerID string, in ReviewInput) (*models.Review, error)

	ListOrders(ctx context.Context, customerID string) ([]models.InvoiceOrder, error)
	ListReviewable(ctx context.Context, customerID string) ([]models.InvoiceOrder, error)
}
