package handler

import (
	"errors"

	"laundry_manager/constants"
	"laundry_manager/database"
	"laundry_manager/helper"
	"laundry_manager/middleware"
	"laundry_manager/model"
	"laundry_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetMyOrders lists the calling customer's orders, newest first.
func GetMyOrders(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	query := database.DB.Preload("Items").
		Where("user_id = ?", caller.ID).
		Order("created_at desc")

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

// GetProfile returns the caller's account plus their customer profile and
// aggregate stats.
func GetProfile(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	profile, err := helper.EnsureCustomerProfile(database.DB, caller.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(fiber.Map{
		"user":    caller,
		"profile": profile,
	})
}

// UpdateProfile applies partial updates to the caller's account and customer
// profile. Changing email is gated behind a fresh email_change code sent to
// the current address; name, phone, address and notes apply directly.
func UpdateProfile(c *fiber.Ctx) error {
	input, ok := c.Locals("updateProfileInput").(model.UpdateProfileInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}
	caller := middleware.CurrentUser(c)
	db := database.DB

	userUpdates := map[string]interface{}{}
	if input.FullName != nil {
		userUpdates["full_name"] = *input.FullName
	}
	if input.Phone != nil {
		phone := helper.NormalizePhone(*input.Phone)
		var count int64
		if err := db.Model(&model.User{}).Where("phone = ? AND id <> ?", phone, caller.ID).Count(&count).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		if count > 0 {
			return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, "Phone already in use", nil, constants.KEY_PHONE)
		}
		userUpdates["phone"] = phone
	}
	if input.Email != nil {
		if input.Code == nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "A verification code is required to change email", nil)
		}
		if err := helper.ValidateOTP(c.Context(), caller.ID, constants.OTP_PURPOSE_EMAIL_CHANGE, *input.Code); err != nil {
			return otpErrorResponse(c, err)
		}
		email := helper.NormalizeEmail(*input.Email)
		var count int64
		if err := db.Model(&model.User{}).Where("email = ? AND id <> ?", email, caller.ID).Count(&count).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		if count > 0 {
			return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, "Email already in use", nil, constants.KEY_EMAIL)
		}
		userUpdates["email"] = email
	}

	profileUpdates := map[string]interface{}{}
	if input.Address != nil {
		profileUpdates["address"] = *input.Address
	}
	if input.Notes != nil {
		profileUpdates["notes"] = *input.Notes
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(userUpdates) > 0 {
			if err := tx.Model(&model.User{}).Where("id = ?", caller.ID).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		if len(profileUpdates) > 0 {
			if _, err := helper.EnsureCustomerProfile(tx, caller.ID); err != nil {
				return err
			}
			if err := tx.Model(&model.Customer{}).Where("user_id = ?", caller.ID).Updates(profileUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var user model.User
	if err := db.First(&user, caller.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// RequestEmailChangeOTP sends a confirmation code to the caller's CURRENT
// address. The code must accompany the subsequent profile update that carries
// the new email.
func RequestEmailChangeOTP(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	if err := helper.IssueOTP(c.Context(), caller.ID, constants.OTP_PURPOSE_EMAIL_CHANGE, caller.Email); err != nil {
		if errors.Is(err, helper.ErrDispatchFailed) {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadGateway, constants.OTP_DISPATCH_FAILED, err, constants.KEY_EMAIL_DISPATCH)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(fiber.Map{"message": "Verification code sent to your current email"})
}

// GetMySummary returns the caller's aggregate order stats plus a per-status
// breakdown for the dashboard cards.
func GetMySummary(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	db := database.DB

	profile, err := helper.EnsureCustomerProfile(db, caller.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	byStatus := map[string]int64{}
	for _, status := range constants.OrderStatuses {
		var count int64
		if err := db.Model(&model.Order{}).
			Where("user_id = ? AND status = ?", caller.ID, status).
			Count(&count).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		byStatus[status] = count
	}

	var pendingPayments int64
	if err := db.Model(&model.Order{}).
		Where("user_id = ? AND payment_status = ?", caller.ID, constants.PAYMENT_PENDING).
		Count(&pendingPayments).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(fiber.Map{
		"customerCode":    profile.CustomerCode,
		"totalOrders":     profile.TotalOrders,
		"completedOrders": profile.CompletedOrders,
		"activeOrders":    profile.ActiveOrders,
		"totalSpent":      profile.TotalSpent,
		"ordersByStatus":  byStatus,
		"pendingPayments": pendingPayments,
	})
}
