package handler

import (
	"errors"
	"strings"

	"laundry_manager/database"
	"laundry_manager/model"
	"laundry_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TrackOrder is the unauthenticated gateway behind the QR code. It returns a
// status projection only: no customer contact details, no internal ids, and no
// error detail that would let a caller probe the database.
func TrackOrder(c *fiber.Ctx) error {
	orderNumber := strings.TrimSpace(c.Params("orderNumber"))
	if orderNumber == "" {
		return utils.PublicErrorResponse(c, fiber.StatusBadRequest, "Order number is required")
	}

	var order model.Order
	err := database.DB.Preload("Items").
		Where("order_number = ?", strings.ToUpper(orderNumber)).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.PublicErrorResponse(c, fiber.StatusNotFound, "Order not found")
		}
		return utils.PublicErrorResponse(c, fiber.StatusInternalServerError, "Something went wrong")
	}

	tracking := model.OrderTracking{
		OrderNumber:   order.OrderNumber,
		ServiceType:   order.ServiceType,
		Status:        order.Status,
		Price:         order.TotalAmount,
		PaymentStatus: order.PaymentStatus,
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		if tracking.GarmentType == "" {
			tracking.GarmentType = item.GarmentType
		}
		tracking.Quantity += item.Quantity
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   tracking,
	})
}
