package model

import "time"

type Payment struct {
	DTO
	OrderID     uint       `gorm:"not null;index" json:"orderId"`
	UserID      uint       `gorm:"not null;index" json:"userId"`
	PaymentCode string     `gorm:"uniqueIndex;size:20" json:"paymentCode"`
	Amount      float64    `gorm:"not null" json:"amount"`
	Method      string     `gorm:"not null" json:"method"`
	Status      string     `gorm:"not null;default:Pending" json:"status"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

type Payments []Payment

type CreatePaymentInput struct {
	OrderId uint    `json:"orderId" validate:"required,gt=0"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Method  string  `json:"method" validate:"required"`
}
