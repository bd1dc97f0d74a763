package models

import "time"

// Invoice lifecycle statuses. An invoice is created as pending, becomes
// unpaid once a gateway order exists, and ends as paid or expired.
// Deletion removes the document outright and is not a stored status.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusUnpaid  = "unpaid"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusExpired = "expired"
)

// Invoice represents one purchase attempt for a travel product.
//
// AmountUSD, AmountMYR and Rate are fixed at creation time and never
// recomputed. ResponseCode holds the payment gateway's order id and stays
// nil until payment has been initiated; re-initiating payment overwrites
// it, there is no order history.
type Invoice struct {
	ID            string    `bson:"id" json:"id"`
	DateTravel    time.Time `bson:"date_travel" json:"date_travel"`
	NumberOfGuest int       `bson:"number_of_guest" json:"number_of_guest"`
	Note          string    `bson:"note" json:"note"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`

	// amount
	AmountUSD float64 `bson:"amount_usd" json:"amount_usd"`
	AmountMYR float64 `bson:"amount_myr" json:"amount_myr"`
	Rate      float64 `bson:"rate" json:"rate"`

	// status
	Status            string  `bson:"status" json:"status"`
	ResponseCode      *string `bson:"response_code" json:"response_code"`
	ResponseStringify *string `bson:"response_stringify" json:"response_stringify"`

	// references
	CustomerID string `bson:"customer_id" json:"customer_id"`
	MerchantID string `bson:"merchant_id" json:"merchant_id"`
	ProductID  string `bson:"product_id" json:"product_id"`
}

// InvoiceOrder is the customer-facing order listing view: an invoice with
// its product (and, for reviewable listings, any attached review) joined in.
type InvoiceOrder struct {
	Invoice    `bson:",inline"`
	Product    []Product `bson:"product" json:"product"`
	Review     []Review  `bson:"review,omitempty" json:"review,omitempty"`
	PaymentURL string    `bson:"-" json:"payment_url,omitempty"`
}
