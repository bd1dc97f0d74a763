package models

import "time"

// Product is a travel product listed by a merchant. The payment core reads
// products but never writes them; catalog management lives elsewhere.
type Product struct {
	ID             string   `bson:"id" json:"id"`
	MerchantID     string   `bson:"merchant_id" json:"merchant_id"`
	Name           string   `bson:"name" json:"name"`
	Price          float64  `bson:"price" json:"price"` // local currency (MYR)
	NumberOfGuests int      `bson:"number_of_guests" json:"number_of_guests"`
	LimitOrder     int      `bson:"limit_order" json:"limit_order"`
	HotelGrade     int      `bson:"hotel_grade" json:"hotel_grade"`
	Categories     []string `bson:"categories" json:"categories"`

	// facilities
	IncludeWifi           bool `bson:"include_wifi" json:"include_wifi"`
	IncludeFoods          bool `bson:"include_foods" json:"include_foods"`
	IncludeHotel          bool `bson:"include_hotel" json:"include_hotel"`
	IncludeTransportation bool `bson:"include_transportation" json:"include_transportation"`

	// destination address
	Address  string `bson:"address" json:"address"`
	City     string `bson:"city" json:"city"`
	State    string `bson:"state" json:"state"`
	PostCode string `bson:"post_code" json:"post_code"`
	Country  string `bson:"country" json:"country"`

	Description string    `bson:"description" json:"description"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
