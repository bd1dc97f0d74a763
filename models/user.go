package models

import "time"

// Role tags an authenticated principal. Exactly one role applies per user,
// replacing independent is_customer/is_merchant/is_ministry flags that could
// drift out of sync.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleMerchant Role = "merchant"
	RoleMinistry Role = "ministry"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleMerchant, RoleMinistry:
		return true
	}
	return false
}

// User is an authenticated account: a customer, a merchant operator or a
// ministry official.
type User struct {
	ID           string     `bson:"id" json:"id"`
	Username     string     `bson:"username" json:"username"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"password_hash" json:"-"`
	Fullname     string     `bson:"fullname" json:"fullname"`
	PhoneNumber  string     `bson:"phone_number" json:"phone_number"`
	Role         Role       `bson:"role" json:"role"`
	DateOfBirth  *time.Time `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	MerchantID   string     `bson:"merchant_id,omitempty" json:"merchant_id,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
}
