package transport

import "github.com/google/uuid"

// CartLine is a cart item joined with current product data. The join is a
// read-time convenience; only product_id and quantity are persisted.
type CartLine struct {
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      uint      `json:"quantity"`
	NameEn        string    `json:"name_en"`
	NameAr        string    `json:"name_ar"`
	Price         float64   `json:"price"`
	Stock         uint      `json:"stock"`
	Slug          string    `json:"slug"`
	Images        []string  `json:"images"`
	AverageRating float64   `json:"average_rating"`
}

type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  uint      `json:"quantity"`
}

type ShippingAddressInput struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	State      string `json:"state"`
	Phone      string `json:"phone"`
}

// ItemsPrice and TotalPrice are pointers so a missing field can be told
// apart from an explicit zero.
type CreateOrderRequest struct {
	Items           []OrderItemInput     `json:"order_items"`
	ShippingAddress ShippingAddressInput `json:"shipping_address"`
	PaymentMethod   string               `json:"payment_method"`
	ItemsPrice      *float64             `json:"items_price"`
	TaxPrice        float64              `json:"tax_price"`
	ShippingPrice   float64              `json:"shipping_price"`
	TotalPrice      *float64             `json:"total_price"`
}
