package models

import "time"

// Review is attached to an invoice after successful payment. At most one
// review exists per invoice (unique index on invoice_id).
type Review struct {
	ID        string `bson:"id" json:"id"`
	InvoiceID string `bson:"invoice_id" json:"invoice_id"`

	// references copied from the invoice
	CustomerID string `bson:"customer_id" json:"customer_id"`
	MerchantID string `bson:"merchant_id" json:"merchant_id"`
	ProductID  string `bson:"product_id" json:"product_id"`

	// review
	Rating      int       `bson:"rating" json:"rating"`
	Comment     string    `bson:"comment" json:"comment"`
	IsRecommend bool      `bson:"is_recommend" json:"is_recommend"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
