package main

import (
	"log"

	"laundry_manager/config"
	"laundry_manager/database"
	"laundry_manager/helper"
	"laundry_manager/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // garment photos
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigOr("CORS_ORIGINS", "http://localhost:5173"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	database.ConnectDB()
	database.ConnectRedis()

	helper.StartStatsScheduler()
	defer helper.StopStatsScheduler()

	router.SetupRoutes(app)

	log.Fatal(app.Listen(":" + config.ConfigOr("APP_PORT", "8002")))
}
