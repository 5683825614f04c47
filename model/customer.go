package model

type Customer struct {
	DTO
	UserID       uint    `gorm:"uniqueIndex;not null" json:"userId"`
	CustomerCode string  `gorm:"uniqueIndex;size:20" json:"customerCode"`
	Address      string  `json:"address"`
	Notes        string  `json:"notes"`
	User         *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Aggregate stats, maintained incrementally on order transitions and
	// reconciled nightly from the order table.
	TotalOrders     int     `gorm:"not null;default:0" json:"totalOrders"`
	CompletedOrders int     `gorm:"not null;default:0" json:"completedOrders"`
	ActiveOrders    int     `gorm:"not null;default:0" json:"activeOrders"`
	TotalSpent      float64 `gorm:"not null;default:0" json:"totalSpent"`
}

type Customers []Customer

type UpdateProfileInput struct {
	FullName *string `json:"fullname,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	// Required when Email is set; validated against an email_change OTP.
	Code    *string `json:"code,omitempty"`
	Address *string `json:"address,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}
