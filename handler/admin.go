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
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// AdminUserView is what user listings expose; the password hash never leaves
// the model thanks to json:"-", this keeps the shape explicit anyway.
type AdminUserView struct {
	ID         uint   `json:"id"`
	FullName   string `json:"fullname"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	IsVerified bool   `json:"isVerified"`
}

// GetUsers lists accounts, optionally filtered by role and status.
func GetUsers(c *fiber.Ctx) error {
	query := database.DB.Model(&model.User{}).Order("created_at desc")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	limit := c.QueryInt("limit", 0)
	page := c.QueryInt("page", 0)
	if limit > 0 && page > 0 {
		query = utils.ApplyPagination(query, &limit, &page)
	}

	var users model.Users
	if err := query.Find(&users).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	views := make([]AdminUserView, 0, len(users))
	if err := copier.Copy(&views, &users); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, views)
}

// CreateUser provisions an account with an explicit role. Same normalization
// and conflict rules as signup, but no verification code: admin-provisioned
// accounts start verified.
func CreateUser(c *fiber.Ctx) error {
	input, ok := c.Locals("createUserInput").(model.SignupInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	db := database.DB
	normEmail := helper.NormalizeEmail(input.Email)
	normPhone := helper.NormalizePhone(input.Phone)

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ? OR phone = ?", normEmail, normPhone).
		Count(&count).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if count > 0 {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, constants.USER_EXISTS, nil, constants.KEY_EMAIL)
	}

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_HASH_PASSWORD, err)
	}

	role := input.Role
	if role == "" {
		role = constants.ROLE_STAFF
	}

	user := model.User{
		FullName:   input.FullName,
		Email:      normEmail,
		Phone:      normPhone,
		Password:   hash,
		Role:       role,
		Status:     constants.STATUS_ACTIVE,
		IsVerified: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}

	if role == constants.ROLE_CUSTOMER {
		if _, err := helper.EnsureCustomerProfile(db, user.ID); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created",
		"user":    user,
	})
}

// GetUserById returns one account with its customer profile when present.
func GetUserById(c *fiber.Ctx) error {
	userId := c.Locals("inputId").(int)

	var user model.User
	if err := database.DB.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.USER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var profile *model.Customer
	if user.Role == constants.ROLE_CUSTOMER {
		var customer model.Customer
		if err := database.DB.Where("user_id = ?", user.ID).First(&customer).Error; err == nil {
			profile = &customer
		}
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"profile": profile,
	})
}

// GetCustomers lists customer profiles with their aggregate stats, for the
// staff customer directory.
func GetCustomers(c *fiber.Ctx) error {
	query := database.DB.Preload("User").Order("created_at desc")

	limit := c.QueryInt("limit", 0)
	page := c.QueryInt("page", 0)
	if limit > 0 && page > 0 {
		query = utils.ApplyPagination(query, &limit, &page)
	}

	var customers model.Customers
	if err := query.Find(&customers).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, customers)
}

// UpdateUserRole reassigns an account's role. Promoting to Customer creates
// the profile so orders can attach immediately.
func UpdateUserRole(c *fiber.Ctx) error {
	input, ok := c.Locals("updateRoleInput").(model.UpdateRoleInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}
	userId := c.Locals("inputId").(int)

	db := database.DB
	var user model.User
	if err := db.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.USER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if err := db.Model(&user).Update("role", input.Role).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if input.Role == constants.ROLE_CUSTOMER {
		if _, err := helper.EnsureCustomerProfile(db, user.ID); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}

	user.Role = input.Role
	return c.JSON(fiber.Map{
		"message": "Role updated successfully",
		"user":    user,
	})
}

// RevokeUser blocks an account from authenticating without deleting its
// history. Tokens already issued stop working at the next request because the
// role gate reads the database row.
func RevokeUser(c *fiber.Ctx) error {
	return setUserStatus(c, constants.STATUS_REVOKED, "User access revoked")
}

// RestoreUser re-enables a revoked account.
func RestoreUser(c *fiber.Ctx) error {
	return setUserStatus(c, constants.STATUS_ACTIVE, "User access restored")
}

func setUserStatus(c *fiber.Ctx, status, message string) error {
	caller := middleware.CurrentUser(c)
	userId := c.Locals("inputId").(int)

	if uint(userId) == caller.ID {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "You cannot change your own account status", nil)
	}

	var user model.User
	if err := database.DB.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.USER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if err := database.DB.Model(&user).Update("status", status).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	user.Status = status
	return c.JSON(fiber.Map{
		"message": message,
		"user":    user,
	})
}

// DeleteUser removes an account, its customer profile and its orders.
func DeleteUser(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	userId := c.Locals("inputId").(int)

	if uint(userId) == caller.ID {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "You cannot delete your own account", nil)
	}

	db := database.DB
	var user model.User
	if err := db.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.USER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var orderIDs []uint
		if err := tx.Model(&model.Order{}).Where("user_id = ?", user.ID).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&model.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", orderIDs).Delete(&model.Order{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.Customer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// GetDashboardStats aggregates counts for the admin dashboard.
func GetDashboardStats(c *fiber.Ctx) error {
	db := database.DB

	var totalOrders, activeOrders, totalCustomers int64
	var revenue float64

	if err := db.Model(&model.Order{}).Count(&totalOrders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := db.Model(&model.Order{}).
		Where("status NOT IN ?", []string{constants.ORDER_COMPLETED, constants.ORDER_PICKED_UP}).
		Count(&activeOrders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := db.Model(&model.Customer{}).Count(&totalCustomers).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := db.Model(&model.Payment{}).
		Where("status = ?", constants.PAYMENT_COMPLETED).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	statusCounts := map[string]int64{}
	for _, status := range constants.OrderStatuses {
		var count int64
		if err := db.Model(&model.Order{}).Where("status = ?", status).Count(&count).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		statusCounts[status] = count
	}

	return c.JSON(fiber.Map{
		"totalOrders":    totalOrders,
		"activeOrders":   activeOrders,
		"totalCustomers": totalCustomers,
		"revenue":        revenue,
		"ordersByStatus": statusCounts,
	})
}
