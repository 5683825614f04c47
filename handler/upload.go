package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundry_manager/constants"
	"laundry_manager/database"
	"laundry_manager/helper"
	"laundry_manager/model"
	"laundry_manager/utils"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UploadOrderPhoto attaches a garment condition photo to an order. The image
// goes to cloudinary and only the secure URL is stored.
func UploadOrderPhoto(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(int)

	var order model.Order
	if err := database.DB.First(&order, orderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A photo file is required", err)
	}

	reader, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not read uploaded file", err)
	}
	defer reader.Close()

	cld, err := helper.NewCloudinary()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not initialize upload client", err)
	}

	result, err := cld.Upload.Upload(context.Background(), reader, uploader.UploadParams{
		Folder:       "orders/photos",
		PublicID:     fmt.Sprintf("order_%d_photo_%d", order.ID, time.Now().Unix()),
		ResourceType: "image",
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Photo upload failed", err)
	}

	if err := database.DB.Model(&order).Update("photo_url", result.SecureURL).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	order.PhotoURL = result.SecureURL
	return c.JSON(fiber.Map{
		"message":  "Photo uploaded successfully",
		"photoUrl": order.PhotoURL,
		"order":    order,
	})
}
