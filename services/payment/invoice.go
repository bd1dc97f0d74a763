package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	invoiceRepo "tripay/database/repository/invoice"
	merchantRepo "tripay/database/repository/merchant"
	productRepo "tripay/database/repository/product"
	reviewRepo "tripay/database/repository/review"
	"tripay/models"
	"tripay/services/exchange"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultInvoiceService implements InvoiceService. All collaborators are
// injected; the gateway client is constructed once per process and shared.
type DefaultInvoiceService struct {
	InvoiceRepo  invoiceRepo.InvoiceRepository
	ProductRepo  productRepo.ProductRepository
	MerchantRepo merchantRepo.MerchantRepository
	ReviewRepo   reviewRepo.ReviewRepository
	Gateway      Gateway
	Converter    exchange.Converter
	Logger       *zap.Logger

	// CheckoutURL is the provider's hosted checkout page; the order id is
	// appended as the token query parameter.
	CheckoutURL string
	BrandName   string
	FEHost      string
	// ResolveHost maps a request Origin header to the backend host used in
	// the capture return URL.
	ResolveHost func(origin string) string
}

// CreateInvoice validates the request, converts the product price and
// persists a pending invoice. No gateway order exists yet at this point, so
// a failure here leaves no external side effect.
func (s *DefaultInvoiceService) CreateInvoice(ctx context.Context, customerID string, in CreateInvoiceInput) (*models.Invoice, error) {
	if in.DateTravel.IsZero() {
		return nil, newValidationError("Date travel is required")
	}
	if in.NumberOfGuest <= 0 {
		return nil, newValidationError("Number of guest is required")
	}
	if in.Note == "" {
		return nil, newValidationError("Note is required")
	}
	if in.ProductID == "" {
		return nil, newValidationError("Product id is required")
	}

	product, err := s.ProductRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, &PaymentError{Kind: KindNotFound, Message: "Product not found", Err: err}
	}
	if product == nil {
		return nil, newNotFoundError("Product not found")
	}
	if in.NumberOfGuest > product.NumberOfGuests {
		return nil, newValidationError(fmt.Sprintf("Number of guest must be less than or equal to %d", product.NumberOfGuests))
	}

	merchant, err := s.MerchantRepo.GetByID(product.MerchantID)
	if err != nil || merchant == nil {
		return nil, newNotFoundError("Merchant not found")
	}

	conv := s.Converter.Convert(ctx, product.Price)

	invoice := &models.Invoice{
		ID:            uuid.New().String(),
		DateTravel:    in.DateTravel,
		NumberOfGuest: in.NumberOfGuest,
		Note:          in.Note,
		CreatedAt:     time.Now(),

		AmountUSD: conv.AmountUSD,
		AmountMYR: conv.AmountMYR,
		Rate:      conv.Rate,

		Status:            models.InvoiceStatusPending,
		ResponseCode:      nil,
		ResponseStringify: nil,

		CustomerID: customerID,
		MerchantID: merchant.ID,
		ProductID:  product.ID,
	}

	if err := s.InvoiceRepo.Create(invoice); err != nil {
		return nil, &PaymentError{Kind: KindGateway, Message: "Failed to create invoice", Err: err}
	}

	s.Logger.Info("invoice created",
		zap.String("invoice_id", invoice.ID),
		zap.Float64("amount_usd", invoice.AmountUSD),
		zap.Float64("rate", invoice.Rate))
	return invoice, nil
}

// InitiatePayment converts a pending or unpaid invoice into a gateway order.
// Re-initiating overwrites the previous order reference. A gateway failure
// leaves the invoice untouched so the customer can retry.
func (s *DefaultInvoiceService) InitiatePayment(ctx context.Context, customerID, invoiceID, origin string) (*PaymentInitiation, error) {
	invoice, err := s.loadOwnedInvoice(customerID, invoiceID)
	if err != nil {
		return nil, err
	}
	switch invoice.Status {
	case models.InvoiceStatusPaid:
		return nil, newConflictError("Invoice already paid")
	case models.InvoiceStatusExpired:
		return nil, newConflictError("Invoice has expired")
	}

	product, err := s.ProductRepo.GetByID(invoice.ProductID)
	if err != nil || product == nil {
		return nil, newNotFoundError("Product not found")
	}

	amount := fmt.Sprintf("%.2f", invoice.AmountUSD)
	payload := OrderPayload{
		Intent: "CAPTURE",
		PurchaseUnits: []PurchaseUnit{{
			ReferenceID: fmt.Sprintf("TPY-%s-%d", invoice.ID, time.Now().UnixMilli()),
			Description: fmt.Sprintf("Payment for %s", invoice.ProductID),
			Items: []LineItem{{
				Name:        product.Name,
				Description: fmt.Sprintf("Payment for product %s", product.Name),
				Quantity:    "1",
				UnitAmount:  Money{CurrencyCode: "USD", Value: amount},
			}},
			Amount: UnitAmount{
				CurrencyCode: "USD",
				Value:        amount,
				Breakdown:    &Breakdown{ItemTotal: Money{CurrencyCode: "USD", Value: amount}},
			},
		}},
		ApplicationContext: ApplicationContext{
			BrandName:          s.BrandName,
			ShippingPreference: "NO_SHIPPING",
			ReturnURL:          fmt.Sprintf("%s/api/payment/invoice/%s/capture", s.ResolveHost(origin), invoice.ID),
			CancelURL:          s.FEHost + "/orders",
		},
	}

	result, err := s.Gateway.CreateOrder(ctx, payload)
	if err != nil {
		return nil, newGatewayError("Failed to create order", err)
	}

	raw := string(result.Raw)
	update := bson.M{
		"status":             models.InvoiceStatusUnpaid,
		"response_code":      result.ID,
		"response_stringify": raw,
	}
	if err := s.InvoiceRepo.UpdateFields(invoice.ID, update); err != nil {
		return nil, &PaymentError{Kind: KindGateway, Message: "Failed to update invoice", Err: err}
	}

	invoice.Status = models.InvoiceStatusUnpaid
	invoice.ResponseCode = &result.ID
	invoice.ResponseStringify = &raw

	s.Logger.Info("payment initiated",
		zap.String("invoice_id", invoice.ID),
		zap.String("order_id", result.ID))

	return &PaymentInitiation{
		Invoice:    invoice,
		Payment:    result.Raw,
		PaymentURL: s.CheckoutURL + "?token=" + result.ID,
	}, nil
}

// Capture finalizes an approved order. It is the target of the provider's
// redirect and may be invoked more than once: a COMPLETED order is treated
// as already captured and never re-captured.
func (s *DefaultInvoiceService) Capture(ctx context.Context, invoiceID string) (*CaptureOutcome, error) {
	if invoiceID == "" {
		return nil, newValidationError("Invoice id is required")
	}
	invoice, err := s.InvoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, &PaymentError{Kind: KindNotFound, Message: "Invoice not found", Err: err}
	}
	if invoice == nil {
		return nil, newNotFoundError("Invoice not found")
	}
	if invoice.ResponseCode == nil {
		return nil, newConflictError("Payment has not been initiated for this invoice")
	}

	order, err := s.Gateway.GetOrder(ctx, *invoice.ResponseCode)
	if err != nil {
		return nil, newGatewayError("Failed to get order", err)
	}

	if order.Status == OrderStatusCompleted {
		return &CaptureOutcome{Invoice: invoice, AlreadyCaptured: true}, nil
	}
	if order.Status != OrderStatusApproved {
		return nil, newConflictError("Order not approved")
	}

	captured, err := s.Gateway.CaptureOrder(ctx, *invoice.ResponseCode)
	if err != nil {
		return nil, newGatewayError("Failed to capture order", err)
	}

	raw := string(captured.Raw)
	update := bson.M{
		"status":             models.InvoiceStatusPaid,
		"response_code":      captured.ID,
		"response_stringify": raw,
	}
	if err := s.InvoiceRepo.UpdateFields(invoice.ID, update); err != nil {
		return nil, &PaymentError{Kind: KindGateway, Message: "Failed to update invoice", Err: err}
	}

	invoice.Status = models.InvoiceStatusPaid
	invoice.ResponseCode = &captured.ID
	invoice.ResponseStringify = &raw

	s.Logger.Info("payment captured",
		zap.String("invoice_id", invoice.ID),
		zap.String("order_id", captured.ID))

	return &CaptureOutcome{Invoice: invoice}, nil
}

// OrderStatus inquires the gateway about an invoice's order. This is the
// lazy expiry detection path: an INVALID_RESOURCE_ID error from the gateway
// moves the invoice to the expired status.
func (s *DefaultInvoiceService) OrderStatus(ctx context.Context, customerID, invoiceID string) (*OrderStatusResult, error) {
	invoice, err := s.loadOwnedInvoice(customerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.ResponseCode == nil {
		return nil, newConflictError("Payment has not been initiated for this invoice")
	}

	order, err := s.Gateway.GetOrder(ctx, *invoice.ResponseCode)
	if err != nil {
		var gerr *GatewayError
		if errors.As(err, &gerr) && gerr.Issue == IssueInvalidResourceID {
			if invoice.Status != models.InvoiceStatusExpired {
				if uerr := s.InvoiceRepo.UpdateFields(invoice.ID, bson.M{"status": models.InvoiceStatusExpired}); uerr != nil {
					return nil, &PaymentError{Kind: KindGateway, Message: "Failed to update invoice", Err: uerr}
				}
				s.Logger.Info("invoice expired", zap.String("invoice_id", invoice.ID))
			}
			return &OrderStatusResult{
				Expired:    true,
				Message:    "Order was expired",
				HTTPStatus: gerr.HTTPStatus,
				Raw:        gerr.Raw,
			}, nil
		}
		return nil, newGatewayError("Failed to get order data", err)
	}

	result := &OrderStatusResult{
		HTTPStatus: order.HTTPStatus,
		Raw:        order.Raw,
	}
	if order.Status == OrderStatusApproved {
		result.Approved = true
		result.Message = "Order approved, waiting for capture"
	}
	return result, nil
}

// DeleteInvoice hard-deletes an invoice that has not been paid.
func (s *DefaultInvoiceService) DeleteInvoice(ctx context.Context, customerID, invoiceID string) error {
	invoice, err := s.loadOwnedInvoice(customerID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status == models.InvoiceStatusPaid {
		return newUnauthorizedError("Invoice already paid and cannot be deleted")
	}

	if err := s.InvoiceRepo.Delete(invoice.ID); err != nil {
		return &PaymentError{Kind: KindGateway, Message: "Failed to delete invoice", Err: err}
	}
	s.Logger.Info("invoice deleted", zap.String("invoice_id", invoice.ID))
	return nil
}

// ListOrders returns the customer's invoices with product details and a
// hosted checkout URL for any invoice holding an order reference.
func (s *DefaultInvoiceService) ListOrders(ctx context.Context, customerID string) ([]models.InvoiceOrder, error) {
	orders, err := s.InvoiceRepo.ListOrdersByCustomer(customerID)
	if err != nil {
		return nil, &PaymentError{Kind: KindGateway, Message: "Failed to list orders", Err: err}
	}
	s.attachPaymentURLs(orders)
	return orders, nil
}

// ListReviewable returns the customer's paid invoices with product details
// and any attached review.
func (s *DefaultInvoiceService) ListReviewable(ctx context.Context, customerID string) ([]models.InvoiceOrder, error) {
	orders, err := s.InvoiceRepo.ListReviewableByCustomer(customerID)
	if err != nil {
		return nil, &PaymentError{Kind: KindGateway, Message: "Failed to list orders", Err: err}
	}
	s.attachPaymentURLs(orders)
	return orders, nil
}

func (s *DefaultInvoiceService) attachPaymentURLs(orders []models.InvoiceOrder) {
	for i := range orders {
		if orders[i].ResponseCode != nil {
			orders[i].PaymentURL = s.CheckoutURL + "?token=" + *orders[i].ResponseCode
		}
	}
}

// loadOwnedInvoice fetches an invoice and verifies it belongs to the caller.
func (s *DefaultInvoiceService) loadOwnedInvoice(customerID, invoiceID string) (*models.Invoice, error) {
	if invoiceID == "" {
		return nil, newValidationError("Invoice id is required")
	}
	invoice, err := s.InvoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, &PaymentError{Kind: KindNotFound, Message: "Invoice not found", Err: err}
	}
	if invoice == nil {
		return nil, newNotFoundError("Invoice not found")
	}
	if invoice.CustomerID != customerID {
		return nil, newUnauthorizedError("Invoice does not belong to you")
	}
	return invoice, nil
}
