package router

import (
	"laundry_manager/constants"
	"laundry_manager/handler"
	"laundry_manager/middleware"
	"laundry_manager/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1")

	staffRoles := []string{constants.ROLE_ADMIN, constants.ROLE_STAFF}
	anyRole := []string{constants.ROLE_ADMIN, constants.ROLE_STAFF, constants.ROLE_CUSTOMER}

	auth := v1.Group("/auth")
	auth.Post("/signup", validate.Signup(), handler.Signup)
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/login/initiate", validate.InitiateLogin(), handler.InitiateLogin)
	auth.Post("/login/verify", validate.VerifyCode(), handler.VerifyLogin)
	auth.Post("/verify-account", validate.VerifyCode(), handler.VerifyAccount)
	auth.Post("/otp/resend", validate.ResendOTP(), handler.ResendOTP)
	auth.Post("/reset-password", validate.ResetPassword(), handler.ResetPassword)

	order := v1.Group("/orders", middleware.Protected())
	order.Post("/", middleware.RequireRoles(staffRoles...), validate.CreateOrder(), handler.CreateOrder)
	order.Get("/", middleware.RequireRoles(anyRole...), handler.GetOrders)
	order.Get("/:orderId", middleware.RequireRoles(anyRole...), validate.GetById("orderId"), handler.GetOrderById)
	order.Patch("/:orderId/status", middleware.RequireRoles(staffRoles...), validate.GetById("orderId"), validate.UpdateOrderStatus(), handler.UpdateOrderStatus)
	order.Patch("/:orderId/approve", middleware.RequireRoles(staffRoles...), validate.GetById("orderId"), handler.ApproveOrder)
	order.Patch("/:orderId/fulfill", middleware.RequireRoles(staffRoles...), validate.GetById("orderId"), handler.FulfillOrder)
	order.Patch("/:orderId/payment-status", middleware.RequireRoles(staffRoles...), validate.GetById("orderId"), validate.UpdatePaymentStatus(), handler.UpdateOrderPaymentStatus)
	order.Post("/:orderId/photo", middleware.RequireRoles(staffRoles...), validate.GetById("orderId"), handler.UploadOrderPhoto)
	order.Delete("/:orderId", middleware.RequireRoles(constants.ROLE_ADMIN), validate.GetById("orderId"), handler.DeleteOrder)

	payment := v1.Group("/payments", middleware.Protected())
	payment.Post("/", middleware.RequireRoles(anyRole...), validate.CreatePayment(), handler.CreatePayment)
	payment.Get("/mine", middleware.RequireRoles(constants.ROLE_CUSTOMER), handler.GetMyPayments)

	customer := v1.Group("/customer", middleware.Protected(), middleware.RequireRoles(constants.ROLE_CUSTOMER))
	customer.Get("/orders", handler.GetMyOrders)
	customer.Get("/profile", handler.GetProfile)
	customer.Put("/profile", validate.UpdateProfile(), handler.UpdateProfile)
	customer.Post("/profile/email-change-otp", handler.RequestEmailChangeOTP)
	customer.Get("/summary", handler.GetMySummary)

	admin := v1.Group("/admin", middleware.Protected(), middleware.RequireRoles(constants.ROLE_ADMIN))
	admin.Get("/users", handler.GetUsers)
	admin.Post("/users", validate.CreateUser(), handler.CreateUser)
	admin.Get("/users/:userId", validate.GetById("userId"), handler.GetUserById)
	admin.Patch("/users/:userId/role", validate.GetById("userId"), validate.UpdateRole(), handler.UpdateUserRole)
	admin.Patch("/users/:userId/revoke", validate.GetById("userId"), handler.RevokeUser)
	admin.Patch("/users/:userId/restore", validate.GetById("userId"), handler.RestoreUser)
	admin.Delete("/users/:userId", validate.GetById("userId"), handler.DeleteUser)
	admin.Get("/dashboard", handler.GetDashboardStats)

	staff := v1.Group("/staff", middleware.Protected(), middleware.RequireRoles(staffRoles...))
	staff.Get("/customers", handler.GetCustomers)

	// Public: the QR code on the receipt points here. No auth, no detail leak.
	v1.Get("/track/:orderNumber", handler.TrackOrder)

	v1.Get("/ws/orders", middleware.Protected(), middleware.RequireRoles(staffRoles...), websocket.New(handler.OrderFeed))
}
