package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"

	"github.com/bluezpowerhouse/autoshop/app/repository"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/cache"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/database"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/env"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	app := fiber.New(fiber.Config{
		// Carrier payloads are small; anything bigger is not a webhook.
		BodyLimit: 2 * 1024 * 1024,
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// Delivery photos saved by the ingestion pipeline. UPLOAD_DIR points one
	// level deeper (the tracking subfolder), the static mount serves its parent.
	app.Static("/uploads/tracking", env.GetEnv("UPLOAD_DIR", "./uploads/tracking"))

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}
