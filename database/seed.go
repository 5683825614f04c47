package database

import (
	"log"

	"laundry_manager/config"
	"laundry_manager/constants"
	"laundry_manager/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedData provisions the bootstrap admin account and the order-number
// sequence row.
func SeedData(db *gorm.DB) {
	adminEmail := config.ConfigOr("ADMIN_EMAIL", "admin@example.com")
	adminPhone := config.ConfigOr("ADMIN_PHONE", "0700000000")
	adminPassword := config.ConfigOr("ADMIN_PASSWORD", "changeme123")

	bytes, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 10)
	if err != nil {
		log.Println("failed to hash seed admin password:", err)
		return
	}

	admin := model.User{
		FullName:   "Administrator",
		Email:      adminEmail,
		Phone:      adminPhone,
		Password:   string(bytes),
		Role:       constants.ROLE_ADMIN,
		Status:     constants.STATUS_ACTIVE,
		IsVerified: true,
	}
	if err := db.Where(model.User{Email: adminEmail}).FirstOrCreate(&admin).Error; err != nil {
		log.Println("failed to seed admin account:", err)
	}

	seq := model.OrderSequence{ID: 1}
	if err := db.FirstOrCreate(&seq).Error; err != nil {
		log.Println("failed to seed order sequence:", err)
	}
}
