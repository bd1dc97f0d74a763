package payment

import (
	"context"
	"time"

	"tripay/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AttachReview creates the single review allowed for a paid invoice,
// copying the invoice's customer/merchant/product references verbatim.
func (s *DefaultInvoiceService) AttachReview(ctx context.Context, customerID string, in ReviewInput) (*models.Review, error) {
	if in.Rating == 0 {
		return nil, newValidationError("Rating is required")
	}
	if in.Comment == "" {
		return nil, newValidationError("Comment is required")
	}

	invoice, err := s.loadOwnedInvoice(customerID, in.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != models.InvoiceStatusPaid {
		return nil, newValidationError("Invoice status is not paid")
	}

	count, err := s.ReviewRepo.CountByInvoice(invoice.ID)
	if err != nil {
		return nil, &PaymentError{Kind: KindGateway, Message: "Failed to check existing review", Err: err}
	}
	if count > 0 {
		return nil, newConflictError("Invoice already has a review")
	}

	review := &models.Review{
		ID:        uuid.New().String(),
		InvoiceID: invoice.ID,

		CustomerID: invoice.CustomerID,
		MerchantID: invoice.MerchantID,
		ProductID:  invoice.ProductID,

		Rating:      in.Rating,
		Comment:     in.Comment,
		IsRecommend: in.IsRecommend,
		CreatedAt:   time.Now(),
	}
	if err := s.ReviewRepo.Create(review); err != nil {
		return nil, &PaymentError{Kind: KindConflict, Message: "Failed to create review", Err: err}
	}

	s.Logger.Info("review attached",
		zap.String("invoice_id", invoice.ID),
		zap.Int("rating", review.Rating))
	return review, nil
}
