package model

type User struct {
	DTO
	FullName   string `gorm:"not null" validate:"required" json:"fullname"`
	Email      string `gorm:"uniqueIndex;not null" validate:"required,email" json:"email"`
	Phone      string `gorm:"uniqueIndex;not null" validate:"required" json:"phone"`
	Password   string `gorm:"not null" json:"-"`
	Role       string `gorm:"not null;default:Customer" json:"role"`
	Status     string `gorm:"not null;default:Active" json:"status"`
	IsVerified bool   `gorm:"not null;default:false" json:"isVerified"`
}

type Users []User

type SignupInput struct {
	FullName string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=Admin Staff Customer"`
}

type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type InitiateLoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
}

type VerifyCodeInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Code       string `json:"code" validate:"required"`
}

type ResendOTPInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Purpose    string `json:"purpose" validate:"omitempty,oneof=login verify"`
}

type ResetPasswordInput struct {
	Identifier  string `json:"identifier" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type UpdateRoleInput struct {
	Role string `json:"role" validate:"required,oneof=Admin Staff Customer"`
}
