package entity

import "github.com/shopspring/decimal"

// Coupon is a discount code managed through the backend coupon API.
type Coupon struct {
	ID             int64           `json:"id"`
	CouponCode     string          `json:"couponCode"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Active         bool            `json:"active"`
	CreatedAt      string          `json:"createdAt"`
}

// UserLocation is a delivery address record.
type UserLocation struct {
	ID              int64   `json:"id"`
	UID             string  `json:"uid"`
	Name            string  `json:"name"`
	PhoneNumber     string  `json:"phone_number"`
	AlternateNumber string  `json:"alternate_number"`
	State           string  `json:"state"`
	City            string  `json:"city"`
	PinCode         string  `json:"pinCode"`
	Street          string  `json:"street"`
	Landmark        string  `json:"landmark"`
	Verified        bool    `json:"verify"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
}
