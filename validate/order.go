package validate

import (
	"laundry_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateOrder() fiber.Handler {
	return body[model.CreateOrderInput]("createOrderInput")
}

func UpdateOrderStatus() fiber.Handler {
	return body[model.UpdateOrderStatusInput]("updateOrderStatusInput")
}

func UpdatePaymentStatus() fiber.Handler {
	return body[model.UpdatePaymentStatusInput]("updatePaymentStatusInput")
}

func CreatePayment() fiber.Handler {
	return body[model.CreatePaymentInput]("createPaymentInput")
}
