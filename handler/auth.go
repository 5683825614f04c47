package handler

import (
	"errors"
	"log"
	"net/smtp"

	"laundry_manager/config"
	"laundry_manager/constants"
	"laundry_manager/database"
	"laundry_manager/helper"
	"laundry_manager/model"
	"laundry_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jordan-wright/email"
)

// Signup registers a new user. Identifiers are normalized before the
// uniqueness check; Customer-role users get a one-to-one profile with a
// generated customer code. The verification code dispatch must succeed for
// the flow to report success.
func Signup(c *fiber.Ctx) error {
	input, ok := c.Locals("signupInput").(model.SignupInput)
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

	// Public signup only ever creates customers; staff and admin accounts are
	// provisioned through the admin API.
	role := constants.ROLE_CUSTOMER

	user := model.User{
		FullName: input.FullName,
		Email:    normEmail,
		Phone:    normPhone,
		Password: hash,
		Role:     role,
		Status:   constants.STATUS_ACTIVE,
	}
	if err := db.Create(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}

	if role == constants.ROLE_CUSTOMER {
		if _, err := helper.EnsureCustomerProfile(db, user.ID); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
		}
	}

	if err := helper.IssueOTP(c.Context(), user.ID, constants.OTP_PURPOSE_VERIFY, user.Email); err != nil {
		// Account exists but the code never left the building; the caller has
		// to know, and can hit resend-otp once dispatch recovers.
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadGateway, constants.OTP_DISPATCH_FAILED, err, constants.KEY_EMAIL_DISPATCH)
	}

	token, err := helper.GenerateAccessToken(model.TokenClaim{UserId: user.ID, Role: user.Role})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Registered",
		"token":    token,
		"userId":   user.ID,
		"role":     user.Role,
		"fullname": user.FullName,
	})
}

// Login is the password flow, available when AUTH_MODE=password. Identifier
// matching is case-insensitive (normalized email) or digits-only (phone).
func Login(c *fiber.Ctx) error {
	if config.AuthMode() != "password" {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Password login is disabled, use /auth/login/initiate", nil)
	}

	input, ok := c.Locals("loginInput").(model.LoginInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	user, err := helper.FindUserByIdentifier(database.DB, input.Identifier)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if user == nil || !helper.CheckPasswordHash(input.Password, user.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS, nil)
	}
	if user.Status == constants.STATUS_REVOKED {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_REVOKED, nil)
	}

	return respondWithToken(c, user, "Login successful")
}

// InitiateLogin starts the OTP flow: issues a 4-digit code to the user's
// email. The previous code, if any, stops validating the moment the new one
// is stored.
func InitiateLogin(c *fiber.Ctx) error {
	input, ok := c.Locals("initiateLoginInput").(model.InitiateLoginInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	user, err := helper.FindUserByIdentifier(database.DB, input.Identifier)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if user == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.USER_NOT_FOUND, nil)
	}
	if user.Status == constants.STATUS_REVOKED {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_REVOKED, nil)
	}

	if err := helper.IssueOTP(c.Context(), user.ID, constants.OTP_PURPOSE_LOGIN, user.Email); err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadGateway, constants.OTP_DISPATCH_FAILED, err, constants.KEY_EMAIL_DISPATCH)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Verification code sent",
	})
}

// VerifyLogin completes the OTP flow and returns a bearer token.
func VerifyLogin(c *fiber.Ctx) error {
	input, ok := c.Locals("verifyCodeInput").(model.VerifyCodeInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	user, err := helper.FindUserByIdentifier(database.DB, input.Identifier)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if user == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.USER_NOT_FOUND, nil)
	}

	if err := helper.ValidateOTP(c.Context(), user.ID, constants.OTP_PURPOSE_LOGIN, input.Code); err != nil {
		return otpErrorResponse(c, err)
	}

	// A validated login code also proves control of the email address.
	if !user.IsVerified {
		database.DB.Model(user).Update("is_verified", true)
	}

	return respondWithToken(c, user, "Login successful")
}

// VerifyAccount consumes the signup verification code and marks the user
// verified.
func VerifyAccount(c *fiber.Ctx) error {
	input, ok := c.Locals("verifyCodeInput").(model.VerifyCodeInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	user, err := helper.FindUserByIdentifier(database.DB, input.Identifier)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if user == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.USER_NOT_FOUND, nil)
	}

	if err := helper.ValidateOTP(c.Context(), user.ID, constants.OTP_PURPOSE_VERIFY, input.Code); err != nil {
		return otpErrorResponse(c, err)
	}

	if err := database.DB.Model(user).Update("is_verified", true).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Account verified",
	})
}

// ResendOTP re-issues a code, atomically invalidating the previous one and
// resetting the attempt counter.
func ResendOTP(c *fiber.Ctx) error {
	input, ok := c.Locals("resendOTPInput").(model.ResendOTPInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	purpose := input.Purpose
	if purpose == "" {
		purpose = constants.OTP_PURPOSE_LOGIN
	}

	user, err := helper.FindUserByIdentifier(database.DB, input.Identifier)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if user == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.USER_NOT_FOUND, nil)
	}

	if err := helper.IssueOTP(c.Context(), user.ID, purpose, user.Email); err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadGateway, constants.OTP_DISPATCH_FAILED, err, constants.KEY_EMAIL_DISPATCH)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Verification code sent",
	})
}

// ResetPassword rewrites the credential hash for the matching identifier. The
// hashing helper refuses to hash an already-hashed value, so the hash is
// applied exactly once. A plain-text confirmation mail goes out best effort.
func ResetPassword(c *fiber.Ctx) error {
	input, ok := c.Locals("resetPasswordInput").(model.ResetPasswordInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	user, err := helper.FindUserByIdentifier(database.DB, input.Identifier)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if user == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.USER_NOT_FOUND, nil)
	}

	hash, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_HASH_PASSWORD, err)
	}
	if err := database.DB.Model(user).Update("password", hash).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	go sendPasswordResetConfirmation(user.Email, user.FullName)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Password reset successful",
	})
}

func respondWithToken(c *fiber.Ctx, user *model.User, message string) error {
	token, err := helper.GenerateAccessToken(model.TokenClaim{UserId: user.ID, Role: user.Role})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(fiber.Map{
		"message":  message,
		"token":    token,
		"userId":   user.ID,
		"role":     user.Role,
		"fullname": user.FullName,
	})
}

func otpErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, helper.ErrAttemptsExhausted):
		return utils.ErrorResponseHaveKey(c, fiber.StatusTooManyRequests, constants.OTP_EXHAUSTED, nil, constants.KEY_ATTEMPTS_EXHAUSTED)
	case errors.Is(err, helper.ErrExpiredCode):
		return utils.ErrorResponseHaveKey(c, fiber.StatusUnauthorized, constants.OTP_EXPIRED, nil, constants.KEY_EXPIRED_CODE)
	case errors.Is(err, helper.ErrInvalidCode):
		return utils.ErrorResponseHaveKey(c, fiber.StatusUnauthorized, constants.OTP_INVALID, nil, constants.KEY_INVALID_CODE)
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
}

func sendPasswordResetConfirmation(to, name string) {
	e := email.NewEmail()
	e.From = config.Config("SMTP_FROM")
	e.To = []string{to}
	e.Subject = "Your password was reset"
	e.Text = []byte("Hi " + name + ",\n\nYour password was just reset. If this wasn't you, contact support immediately.\n")

	addr := config.Config("SMTP_HOST") + ":" + config.ConfigOr("SMTP_PORT", "587")
	auth := smtp.PlainAuth("", config.Config("SMTP_USERNAME"), config.Config("SMTP_PASSWORD"), config.Config("SMTP_HOST"))
	if err := e.Send(addr, auth); err != nil {
		log.Printf("failed to send reset confirmation to %s: %v", to, err)
	}
}
