package routes

import (
	"Backend-InspectPortal/src/controllers"
	"Backend-InspectPortal/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// schemaRoutes กำหนด route สำหรับ form schema management
func schemaRoutes(app *fiber.App) {
	schema := app.Group("/schema", middleware.AuthJWT)

	schema.Get("/config", controllers.GetSchemaConfig)
	schema.Get("/blank-pdf", controllers.DownloadBlankPDF)

	// การแก้ schema เปิดให้เฉพาะผู้ดูแลฟอร์ม
	schema.Post("/import", middleware.RequirePermission("schema_manage"), controllers.ImportSchema)
	schema.Get("/backups", middleware.RequirePermission("schema_manage"), controllers.ListSchemaBackups)
}
