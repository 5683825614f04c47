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

// CreateOrder registers garments for a customer. Staff/Admin only. The order
// number comes from the locked sequence row, the QR payload is the public
// tracking URL, and the owning customer's counters move in the same
// transaction.
func CreateOrder(c *fiber.Ctx) error {
	input, ok := c.Locals("createOrderInput").(model.CreateOrderInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}
	caller := middleware.CurrentUser(c)

	db := database.DB
	owner, err := resolveOrderOwner(db, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A customer userId or customerCode is required", err)
	}

	var order model.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		orderNumber, err := helper.NextOrderNumber(tx)
		if err != nil {
			return err
		}

		qr, err := utils.GenerateQRCodeDataURL(helper.TrackingURL(orderNumber), 256)
		if err != nil {
			return err
		}

		serviceType := input.ServiceType
		if serviceType == "" {
			serviceType = "Standard"
		}

		order = model.Order{
			OrderNumber:   orderNumber,
			UserID:        owner.ID,
			StaffID:       utils.Ptr(caller.ID),
			ServiceType:   serviceType,
			TotalAmount:   helper.ComputeOrderTotal(input.Items, input.TotalOverride),
			Status:        constants.ORDER_RECEIVED,
			PaymentStatus: constants.PAYMENT_PENDING,
			QRCode:        qr,
		}
		for _, item := range input.Items {
			qty := item.Quantity
			if qty == 0 {
				qty = 1
			}
			order.Items = append(order.Items, model.OrderItem{
				GarmentType: item.GarmentType,
				Garment:     item.Garment,
				Quantity:    qty,
				UnitPrice:   item.UnitPrice,
			})
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return helper.AdjustStatsOnCreate(tx, owner.ID)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}

	PublishOrderEvent(OrderEvent{Type: "created", OrderNumber: order.OrderNumber, Status: order.Status, PaymentStatus: order.PaymentStatus})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order created successfully",
		"order":   order,
	})
}

// GetOrders lists orders. Staff/Admin see everything; a Customer only ever
// gets their own rows.
func GetOrders(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	query := database.DB.Preload("Items").Order("created_at desc")
	if caller.Role == constants.ROLE_CUSTOMER {
		query = query.Where("user_id = ?", caller.ID)
	}

	limit := c.QueryInt("limit", 0)
	page := c.QueryInt("page", 0)
	if limit > 0 && page > 0 {
		query = utils.ApplyPagination(query, &limit, &page)
	}

	var orders model.Orders
	if err := query.Find(&orders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, orders)
}

// GetOrderById returns one order, with an ownership check for customers.
func GetOrderById(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	orderId := c.Locals("inputId").(int)

	var order model.Order
	if err := database.DB.Preload("Items").First(&order, orderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if caller.Role == constants.ROLE_CUSTOMER && order.UserID != caller.ID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN_OWNERSHIP, nil)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

// UpdateOrderStatus moves an order to any target status. No transition is
// illegal, but the customer's completed/active counters are adjusted exactly
// once per actual change — resubmitting the current status is a no-op.
func UpdateOrderStatus(c *fiber.Ctx) error {
	input, ok := c.Locals("updateOrderStatusInput").(model.UpdateOrderStatusInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}
	orderId := c.Locals("inputId").(int)

	order, err := transitionOrderStatus(uint(orderId), input.Status, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order updated successfully",
		"order":   order,
	})
}

// ApproveOrder assigns the calling staff member as the handler and starts
// work on the order.
func ApproveOrder(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	orderId := c.Locals("inputId").(int)

	order, err := transitionOrderStatus(uint(orderId), constants.ORDER_IN_PROGRESS, utils.Ptr(caller.ID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order approved",
		"order":   order,
	})
}

// FulfillOrder marks the garments ready for pickup.
func FulfillOrder(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(int)

	order, err := transitionOrderStatus(uint(orderId), constants.ORDER_READY, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order ready for pickup",
		"order":   order,
	})
}

// UpdateOrderPaymentStatus sets Paid/Pending on an order. Moving to Paid is
// idempotent and records a payment row the first time (counter payment,
// method Cash, amount = order total).
func UpdateOrderPaymentStatus(c *fiber.Ctx) error {
	input, ok := c.Locals("updatePaymentStatusInput").(model.UpdatePaymentStatusInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}
	orderId := c.Locals("inputId").(int)

	db := database.DB
	var order model.Order
	if err := db.First(&order, orderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if order.PaymentStatus == input.PaymentStatus {
		return c.JSON(fiber.Map{"message": "Order updated successfully", "order": order})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if input.PaymentStatus == constants.PAYMENT_PAID {
			var count int64
			if err := tx.Model(&model.Payment{}).
				Where("order_id = ? AND status = ?", order.ID, constants.PAYMENT_COMPLETED).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				now := time.Now()
				payment := model.Payment{
					OrderID:     order.ID,
					UserID:      order.UserID,
					PaymentCode: "PAY-" + uuid.New().String()[:8],
					Amount:      order.TotalAmount,
					Method:      "Cash",
					Status:      constants.PAYMENT_COMPLETED,
					PaidAt:      &now,
				}
				if err := tx.Create(&payment).Error; err != nil {
					return err
				}
				if err := helper.AddCustomerSpend(tx, order.UserID, payment.Amount); err != nil {
					return err
				}
			}
		}
		order.PaymentStatus = input.PaymentStatus
		return tx.Model(&model.Order{}).Where("id = ?", order.ID).Update("payment_status", input.PaymentStatus).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	PublishOrderEvent(OrderEvent{Type: "payment", OrderNumber: order.OrderNumber, Status: order.Status, PaymentStatus: order.PaymentStatus})

	return c.JSON(fiber.Map{
		"message": "Order updated successfully",
		"order":   order,
	})
}

// DeleteOrder removes an order. The sequence counter is untouched, so the
// number is never reissued.
func DeleteOrder(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(int)

	db := database.DB
	var order model.Order
	if err := db.First(&order, orderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&order).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"total_orders": gorm.Expr("total_orders - 1"),
		}
		if helper.IsCompletedStatus(order.Status) {
			updates["completed_orders"] = gorm.Expr("completed_orders - 1")
		} else {
			updates["active_orders"] = gorm.Expr("active_orders - 1")
		}
		return tx.Model(&model.Customer{}).Where("user_id = ?", order.UserID).Updates(updates).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(fiber.Map{"message": "Order deleted successfully"})
}

// transitionOrderStatus applies the target status (and optional staff
// assignment) inside one transaction, moving the customer's counters when the
// order crosses the completed boundary.
func transitionOrderStatus(orderId uint, target string, staffID *uint) (*model.Order, error) {
	db := database.DB

	var order model.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderId).Error; err != nil {
			return err
		}

		oldStatus := order.Status
		updates := map[string]interface{}{"status": target}
		if staffID != nil {
			updates["staff_id"] = *staffID
			order.StaffID = staffID
		}
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}
		order.Status = target

		return helper.AdjustStatsOnStatusChange(tx, order.UserID, oldStatus, target)
	})
	if err != nil {
		return nil, err
	}

	PublishOrderEvent(OrderEvent{Type: "status", OrderNumber: order.OrderNumber, Status: order.Status, PaymentStatus: order.PaymentStatus})
	return &order, nil
}

func resolveOrderOwner(db *gorm.DB, input model.CreateOrderInput) (*model.User, error) {
	if input.UserID != nil {
		var user model.User
		if err := db.First(&user, *input.UserID).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if input.CustomerCode != "" {
		var customer model.Customer
		if err := db.Where("customer_code = ?", input.CustomerCode).First(&customer).Error; err != nil {
			return nil, err
		}
		var user model.User
		if err := db.First(&user, customer.UserID).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	return nil, errors.New("missing customer reference")
}
