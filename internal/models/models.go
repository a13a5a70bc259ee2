package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID     uuid.UUID `gorm:"primaryKey"       json:"id"`
	NameEn string    `gorm:"not null"         json:"name_en"`
	NameAr string    `gorm:"not null"         json:"name_ar"`
	Slug   string    `gorm:"uniqueIndex"      json:"slug"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID            uuid.UUID `gorm:"primaryKey"                json:"id"`
	NameEn        string    `gorm:"not null"                  json:"name_en"`
	NameAr        string    `gorm:"not null"                  json:"name_ar"`
	DescriptionEn string    `json:"description_en"`
	DescriptionAr string    `json:"description_ar"`
	Slug          string    `gorm:"index"                     json:"slug"`
	Price         float64   `gorm:"not null;check:price>=0"   json:"price"`
	Stock         uint      `gorm:"not null;default:0"        json:"stock"`
	IsActive      bool      `gorm:"not null;default:true"     json:"is_active"`
	Images        []string  `gorm:"serializer:json"           json:"images"`
	AverageRating float64   `gorm:"not null;default:0"        json:"average_rating"`
	NumReviews    int64     `gorm:"not null;default:0"        json:"num_reviews"`
	CategoryID    uuid.UUID `gorm:"index"                     json:"category_id"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FirstImage is what order snapshots carry; an order keeps rendering
// even if the product gallery changes later.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                              json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"   json:"user_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"   json:"product_id"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"              json:"quantity"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

type ShippingAddress struct {
	Address    string `gorm:"not null" json:"address"`
	City       string `gorm:"not null" json:"city"`
	PostalCode string `gorm:"not null" json:"postal_code"`
	Country    string `gorm:"not null" json:"country"`
	State      string `json:"state,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type PaymentResult struct {
	TransactionID string     `json:"transaction_id,omitempty"`
	Status        string     `json:"status,omitempty"`
	Time          *time.Time `json:"time,omitempty"`
	PayerEmail    string     `json:"payer_email,omitempty"`
}

type Order struct {
	ID              uuid.UUID       `gorm:"primaryKey"                       json:"id"`
	UserID          uuid.UUID       `gorm:"index;not null"                   json:"user_id"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"               json:"items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_"    json:"shipping_address"`
	PaymentMethod   string          `gorm:"not null"                         json:"payment_method"`
	ItemsPrice      float64         `gorm:"not null;check:items_price>=0"    json:"items_price"`
	TaxPrice        float64         `gorm:"not null;default:0"               json:"tax_price"`
	ShippingPrice   float64         `gorm:"not null;default:0"               json:"shipping_price"`
	TotalPrice      float64         `gorm:"not null;check:total_price>=0"    json:"total_price"`
	Status          OrderStatus     `gorm:"not null"                         json:"status"`
	IsPaid          bool            `gorm:"not null;default:false"           json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `gorm:"not null;default:false"           json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	PaymentResult   PaymentResult   `gorm:"embedded;embeddedPrefix:payment_" json:"payment_result"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is an immutable snapshot: name, price and image are copied
// from the product at order time and never updated afterwards.
type OrderItem struct {
	ID        uuid.UUID `gorm:"primaryKey"     json:"id"`
	OrderID   uuid.UUID `gorm:"index;not null" json:"order_id"`
	ProductID uuid.UUID `gorm:"not null"       json:"product_id"`
	NameEn    string    `gorm:"not null"       json:"name_en"`
	NameAr    string    `gorm:"not null"       json:"name_ar"`
	Quantity  uint      `gorm:"not null;check:quantity>0" json:"quantity"`
	UnitPrice float64   `gorm:"not null"       json:"unit_price"`
	Image     string    `json:"image"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Review struct {
	ID        uuid.UUID `gorm:"primaryKey"                                json:"id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_product_user;not null"     json:"product_id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_product_user;not null"     json:"user_id"`
	Username  string    `gorm:"not null"                                  json:"username"`
	Rating    int       `gorm:"not null;check:rating>=1 AND rating<=5"    json:"rating"`
	Comment   string    `gorm:"size:1000"                                 json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
