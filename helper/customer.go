package helper

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"laundry_manager/constants"
	"laundry_manager/model"

	"gorm.io/gorm"
)

// GenerateCustomerCode returns an unused human-readable code (CUS + 6 digits),
// retrying on the rare collision.
func GenerateCustomerCode(db *gorm.DB) (string, error) {
	for i := 0; i < 10; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return "", err
		}
		code := fmt.Sprintf("CUS%06d", n.Int64()+100000)

		var count int64
		if err := db.Model(&model.Customer{}).Where("customer_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate unique customer code")
}

// EnsureCustomerProfile creates the one-to-one profile for a Customer-role
// user if it does not exist yet.
func EnsureCustomerProfile(db *gorm.DB, userID uint) (*model.Customer, error) {
	var customer model.Customer
	err := db.Where("user_id = ?", userID).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	code, err := GenerateCustomerCode(db)
	if err != nil {
		return nil, err
	}
	customer = model.Customer{UserID: userID, CustomerCode: code}
	if err := db.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// IsCompletedStatus reports whether a status counts toward completedOrders.
// Picked Up is a terminal state after Completed, so both sit in the completed
// bucket and moving between them leaves the counters untouched.
func IsCompletedStatus(status string) bool {
	return status == constants.ORDER_COMPLETED || status == constants.ORDER_PICKED_UP
}

// AdjustStatsOnCreate bumps the owning customer's counters for a new order.
// Increments are atomic SQL expressions, not read-modify-write.
func AdjustStatsOnCreate(tx *gorm.DB, userID uint) error {
	return tx.Model(&model.Customer{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_orders":  gorm.Expr("total_orders + 1"),
			"active_orders": gorm.Expr("active_orders + 1"),
		}).Error
}

// AdjustStatsOnStatusChange moves counters when an order crosses the
// completed boundary. Transitions inside the same bucket (including
// resubmitting the current status) are no-ops, so a repeated transition never
// double-counts.
func AdjustStatsOnStatusChange(tx *gorm.DB, userID uint, oldStatus, newStatus string) error {
	wasCompleted := IsCompletedStatus(oldStatus)
	nowCompleted := IsCompletedStatus(newStatus)
	if wasCompleted == nowCompleted {
		return nil
	}

	if nowCompleted {
		return tx.Model(&model.Customer{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"completed_orders": gorm.Expr("completed_orders + 1"),
				"active_orders":    gorm.Expr("active_orders - 1"),
			}).Error
	}
	return tx.Model(&model.Customer{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"completed_orders": gorm.Expr("completed_orders - 1"),
			"active_orders":    gorm.Expr("active_orders + 1"),
		}).Error
}

// AddCustomerSpend records a paid amount on the customer's running total.
func AddCustomerSpend(tx *gorm.DB, userID uint, amount float64) error {
	return tx.Model(&model.Customer{}).
		Where("user_id = ?", userID).
		Update("total_spent", gorm.Expr("total_spent + ?", amount)).Error
}
