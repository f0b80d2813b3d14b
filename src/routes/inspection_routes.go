package routes

import (
	"Backend-InspectPortal/src/controllers"
	"Backend-InspectPortal/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// inspectionRoutes กำหนดเส้นทางสำหรับ Inspection API
func inspectionRoutes(app *fiber.App) {
	inspections := app.Group("/inspections", middleware.AuthJWT)

	inspections.Post("/", controllers.CreateInspection)
	inspections.Get("/", controllers.GetInspections)
	inspections.Get("/export/csv", middleware.RequirePermission("inspect_files_access"), controllers.ExportInspectionsCSV)
	inspections.Get("/:id", controllers.GetInspectionByID)
	inspections.Put("/:id/data", controllers.UpdateInspectionData)
	inspections.Post("/:id/status", controllers.UpdateInspectionStatus)
	inspections.Get("/:id/pdf", controllers.GenerateInspectionPDF)

	files := app.Group("/files", middleware.AuthJWT)
	files.Get("/:project/:filename", controllers.DownloadAttachment)
}
