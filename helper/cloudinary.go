package helper

import (
	"laundry_manager/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

// NewCloudinary builds the client used for garment condition photos.
func NewCloudinary() (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromParams(
		config.Config("CLOUDINARY_CLOUD_NAME"),
		config.Config("CLOUDINARY_API_KEY"),
		config.Config("CLOUDINARY_API_SECRET"),
	)
}
