package handler

import (
	"errors"
	"time"

	"laundry_manager/constants"
	"laundry_manager/database"
	"laundry_manager/helper"
	"laundry_manager/middleware"
	"laundry_manager/model"
	"laundry_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePayment records a customer payment against their own order. Paying an
// already-paid order is idempotent: the existing payment is returned and no
// second row or spend increment happens.
func CreatePayment(c *fiber.Ctx) error {
	input, ok := c.Locals("createPaymentInput").(model.CreatePaymentInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}
	caller := middleware.CurrentUser(c)

	db := database.DB
	var order model.Order
	if err := db.First(&order, input.OrderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if caller.Role == constants.ROLE_CUSTOMER && order.UserID != caller.ID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN_OWNERSHIP, nil)
	}

	if order.PaymentStatus == constants.PAYMENT_PAID {
		var existing model.Payment
		if err := db.Where("order_id = ? AND status = ?", order.ID, constants.PAYMENT_COMPLETED).
			Order("created_at desc").First(&existing).Error; err == nil {
			return c.JSON(fiber.Map{
				"message": "Order already paid",
				"payment": existing,
			})
		}
		return c.JSON(fiber.Map{"message": "Order already paid"})
	}

	now := time.Now()
	payment := model.Payment{
		OrderID:     order.ID,
		UserID:      order.UserID,
		PaymentCode: "PAY-" + uuid.New().String()[:8],
		Amount:      input.Amount,
		Method:      input.Method,
		Status:      constants.PAYMENT_COMPLETED,
		PaidAt:      &now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).
			Update("payment_status", constants.PAYMENT_PAID).Error; err != nil {
			return err
		}
		return helper.AddCustomerSpend(tx, order.UserID, payment.Amount)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}

	order.PaymentStatus = constants.PAYMENT_PAID
	PublishOrderEvent(OrderEvent{Type: "payment", OrderNumber: order.OrderNumber, Status: order.Status, PaymentStatus: order.PaymentStatus})

	var owner model.User
	if err := db.First(&owner, order.UserID).Error; err == nil {
		utils.SendPaymentReceiptEmail(owner.Email, order.OrderNumber, payment.Amount, payment.Method)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment recorded",
		"payment": payment,
	})
}

// GetMyPayments lists the calling customer's payment history, newest first.
func GetMyPayments(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	var payments model.Payments
	if err := database.DB.Where("user_id = ?", caller.ID).
		Order("created_at desc").Find(&payments).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, payments)
}
