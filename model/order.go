package model

import "time"

type Order struct {
	DTO
	OrderNumber   string      `gorm:"uniqueIndex;size:20;not null" json:"orderNumber"`
	UserID        uint        `gorm:"not null;index" json:"userId"`
	User          *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StaffID       *uint       `json:"staffId,omitempty"`
	Staff         *User       `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	ServiceType   string      `gorm:"not null;default:Standard" json:"serviceType"`
	TotalAmount   float64     `gorm:"not null;default:0" json:"totalAmount"`
	Status        string      `gorm:"not null;default:Received" json:"status"`
	PaymentStatus string      `gorm:"not null;default:Pending" json:"paymentStatus"`
	QRCode        string      `gorm:"type:text" json:"qrCode"`
	PhotoURL      string      `json:"photoUrl,omitempty"`
}

type Orders []Order

type OrderItem struct {
	DTO
	OrderID     uint    `gorm:"not null;index" json:"orderId"`
	GarmentType string  `gorm:"not null" json:"garmentType"`
	Garment     string  `json:"garment,omitempty"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"not null;default:0" json:"unitPrice"`
}

// OrderSequence holds the last issued order number. A single row is locked
// FOR UPDATE on create so numbers stay unique under concurrent creates and
// never collide after deletions.
type OrderSequence struct {
	ID         uint `gorm:"primaryKey"`
	LastNumber uint `gorm:"not null;default:0"`
}

type OrderItemInput struct {
	GarmentType string  `json:"garmentType" validate:"required"`
	Garment     string  `json:"garment"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

type CreateOrderInput struct {
	// Owning customer, by user id or customer code. One of the two is required.
	UserID        *uint            `json:"userId"`
	CustomerCode  string           `json:"customerCode"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	ServiceType   string           `json:"serviceType"`
	TotalOverride *float64         `json:"totalOverride" validate:"omitempty,gte=0"`
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required,oneof=Received 'In Progress' 'Ready for Pickup' Completed 'Picked Up'"`
}

type UpdatePaymentStatusInput struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=Pending Paid"`
}

// OrderTracking is the public projection returned by the tracking gateway.
// It never carries the owning customer's contact details or internal ids.
type OrderTracking struct {
	OrderNumber   string    `json:"orderNumber"`
	GarmentType   string    `json:"garmentType"`
	ServiceType   string    `json:"serviceType"`
	Quantity      int       `json:"quantity"`
	Status        string    `json:"status"`
	Price         float64   `json:"price"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}
