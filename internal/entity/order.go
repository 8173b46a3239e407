package entity

import (
	"github.com/shopspring/decimal"
)

// OrderSummary is one row of the primary order feed served by the commerce
// backend. The six progress flags are independent booleans maintained by the
// backend's order-processing system; this service only reads them. Wire names
// (including the backend's "confirmedd" spelling) are fixed by the backend
// contract.
type OrderSummary struct {
	ID            int64           `json:"id"`
	OrderID       string          `json:"orderId"`
	OwnerUID      string          `json:"ownerUid"`
	CustomerUID   string          `json:"customerUid"`
	DriverUID     string          `json:"driverUid,omitempty"`
	PaymentStatus string          `json:"payment_status"`
	Placed        bool            `json:"placed"`
	Confirmed     bool            `json:"confirmedd"`
	Processed     bool            `json:"processed"`
	Shipped       bool            `json:"shipped"`
	Delivered     bool            `json:"delivered"`
	Cancelled     bool            `json:"cancelOrder"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
	DriverPayment string          `json:"driver_payment,omitempty"`
	OTP           string          `json:"otp"`
	CreatedAt     string          `json:"createdAt"`
}

// OrderDetail is the secondary per-order record fetched on demand. Zero or
// one detail exists per summary; a failed fetch leaves the enriched order
// without one, which is a valid state rather than an error.
type OrderDetail struct {
	ID           int64           `json:"id"`
	SubOrderID   string          `json:"subOrderId"`
	AddressID    int64           `json:"addressId"`
	OwnerUID     string          `json:"ownerUid"`
	SubOrderCost decimal.Decimal `json:"subOrderCost"`
	OTP          string          `json:"otp"`
	TotalItems   int             `json:"totalItems"`
	Items        []OrderLineItem `json:"items"`
}

// OrderLineItem is a single purchased item inside an order detail.
type OrderLineItem struct {
	ID         int64           `json:"id"`
	OwnerUID   string          `json:"ownerUid"`
	Category   string          `json:"category"`
	ItemName   string          `json:"itemName"`
	ShopName   string          `json:"shopName"`
	Price      string          `json:"price"`
	Discount   string          `json:"discount"`
	Count      int             `json:"count"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
	ItemID     string          `json:"itemId"`
	Image      string          `json:"image,omitempty"`
}

// EnrichedOrder merges a summary with its optionally-fetched detail plus the
// derived amount and status pair. Built once per enrichment pass and treated
// as immutable afterwards.
type EnrichedOrder struct {
	OrderSummary

	Detail       *OrderDetail    `json:"subOrderDetails,omitempty"`
	ActualAmount decimal.Decimal `json:"actualAmount"`
	Status       string          `json:"status"`
	StatusText   string          `json:"statusText"`
}
