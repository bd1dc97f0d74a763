package invoiceRepo

import (
	"time"

	"tripay/models"

	"go.mongodb.org/mongo-driver/bson"
)

// InvoiceRepository defines data access for invoices. Updates go through
// $set documents so concurrent writers only contend on the fields they
// touch; the store's per-document atomicity is the only coordination.
type InvoiceRepository interface {
	Create(invoice *models.Invoice) error
	GetByID(id string) (*models.Invoice, error)
	UpdateFields(id string, fields bson.M) error
	Delete(id string) error

	// ListOrdersByCustomer returns all of a customer's invoices with their
	// product joined in, newest first.
	ListOrdersByCustomer(customerID string) ([]models.InvoiceOrder, error)
	// ListReviewableByCustomer returns the customer's paid invoices with
	// product and any attached review joined in, newest first.
	ListReviewableByCustomer(customerID string) ([]models.InvoiceOrder, error)
	// ListStaleUnpaid returns unpaid invoices created before the cutoff
	// that hold a gateway order reference.
	ListStaleUnpaid(cutoff time.Time) ([]models.Invoice, error)
}
