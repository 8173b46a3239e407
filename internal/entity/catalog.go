package entity

import "github.com/shopspring/decimal"

// Shop is a seller profile as served by the commerce backend.
type Shop struct {
	ID          int64   `json:"id"`
	UID         string  `json:"uid"`
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phone_number"`
	ShopName    string  `json:"shop_name"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	LikesCount  int     `json:"likes_count"`
	IsOpen      bool    `json:"is_open"`
	Verified    bool    `json:"verify"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ImageURL    string  `json:"image_url"`
	State       string  `json:"state"`
	City        string  `json:"city"`
}

// ProductListing is a catalog entry, also used for recommendations.
type ProductListing struct {
	ID          int64           `json:"id"`
	UID         string          `json:"uid"`
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category"`
	ItemName    string          `json:"item_name"`
	Units       string          `json:"units"`
	ActualPrice decimal.Decimal `json:"actual_price"`
	Discount    string          `json:"discount"`
	FinalPrice  decimal.Decimal `json:"final_price"`
	ShopName    string          `json:"shop_name"`
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`
	URLs        []string        `json:"urls"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
}
