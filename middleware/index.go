package middleware

import (
	"errors"
	"strings"

	"laundry_manager/constants"
	"laundry_manager/helper"
	"laundry_manager/model"
	"laundry_manager/utils"

	"github.com/gofiber/fiber/v2"
)

// Protected resolves the bearer token (header or cookie) and stashes the
// parsed JWT in Locals. Rejects with 401 when absent, malformed or expired.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("access_token")

		if token == "" {
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Missing token", errors.New("no token"))
		}

		jwtToken, err := helper.ParseToken(token)
		if err != nil || !jwtToken.Valid {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token", err)
		}

		c.Locals("user", jwtToken)
		return c.Next()
	}
}

// RequireRoles loads the caller from the database, rejects revoked accounts,
// and checks membership in the route's allow-list. The resolved user is
// stashed in Locals("currentUser") for handlers.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := helper.GetUserFromToken(c)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Account not found", err)
		}

		if user.Status == constants.STATUS_REVOKED {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_REVOKED, nil)
		}

		allowed := false
		for _, role := range roles {
			if user.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN_ROLE, nil)
		}

		c.Locals("currentUser", user)
		return c.Next()
	}
}

// CurrentUser returns the caller resolved by RequireRoles.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals("currentUser").(*model.User)
	return user
}
