package validate

import (
	"laundry_manager/model"

	"github.com/gofiber/fiber/v2"
)

func UpdateProfile() fiber.Handler {
	return body[model.UpdateProfileInput]("updateProfileInput")
}

func UpdateRole() fiber.Handler {
	return body[model.UpdateRoleInput]("updateRoleInput")
}
