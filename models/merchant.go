package models

import "time"

// Merchant owns products and receives the merchant side of every invoice.
// The payment core only ever reads merchants; the approval workflow that
// fills in Status is handled by the ministry-facing service.
type Merchant struct {
	ID                 string    `bson:"id" json:"id"`
	CompanyName        string    `bson:"company_name" json:"company_name"`
	CompanyUsername    string    `bson:"company_username" json:"company_username"`
	ContactNumber      string    `bson:"contact_number" json:"contact_number"`
	Email              string    `bson:"email" json:"email"`
	CompanyDescription string    `bson:"company_description" json:"company_description"`
	Address            string    `bson:"address" json:"address"`
	City               string    `bson:"city" json:"city"`
	State              string    `bson:"state" json:"state"`
	Country            string    `bson:"country" json:"country"`
	Status             string    `bson:"status" json:"status"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}
