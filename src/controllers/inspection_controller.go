package controllers

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"time"

	"Backend-InspectPortal/src/middleware"
	"Backend-InspectPortal/src/models"
	"Backend-InspectPortal/src/pdf"
	"Backend-InspectPortal/src/services/inspections"
	"Backend-InspectPortal/src/services/schema"
	"Backend-InspectPortal/src/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// CreateInspection godoc
// @Summary      Create a new inspection
// @Description  Creates the record, freezes the current schema into it and queues the first render
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        body body models.CreateInspectionRequest true "Site, variant, folder and answers"
// @Success      201  {object}  models.Inspection
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /inspections [post]
func CreateInspection(c *fiber.Ctx) error {
	var request models.CreateInspectionRequest
	if err := c.BodyParser(&request); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := validate.Struct(&request); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, _ := c.Locals("userId").(string)
	inspection, err := inspections.Create(ctx, userID, &request)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to create inspection: "+err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Inspection created successfully",
		"data":    inspection,
	})
}

// GetInspections godoc
// @Summary      List inspections with pagination
// @Tags         inspections
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200  {object}  models.PaginatedResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /inspections [get]
func GetInspections(c *fiber.Ctx) error {
	params := models.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid query: "+err.Error())
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userID, _ := c.Locals("userId").(string)
	result, err := inspections.GetAll(ctx, params, userID, middleware.IsManager(c))
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to list inspections: "+err.Error())
	}

	return c.JSON(result)
}

// GetInspectionByID godoc
// @Summary      Get one inspection with its headline facts
// @Tags         inspections
// @Produce      json
// @Param        id path string true "Inspection ID"
// @Success      200  {object}  fiber.Map
// @Failure      404  {object}  models.ErrorResponse
// @Router       /inspections/{id} [get]
func GetInspectionByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid inspection ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inspection, err := inspections.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, "Inspection not found")
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}

	if !middleware.IsManager(c) && inspection.UserID != c.Locals("userId") {
		return utils.HandleError(c, fiber.StatusForbidden, "Not allowed to view this inspection")
	}

	metaFields, err := inspections.MetadataFields(ctx, inspection)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to resolve schema: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"data":        inspection,
		"metaFields":  metaFields,
		"statusLabel": inspection.StatusLabel(),
		"statusColor": inspection.StatusColor(),
	})
}

// UpdateInspectionData godoc
// @Summary      Update an inspection's answers
// @Description  Overwrites the answer map. The frozen schema snapshot is never touched.
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        id   path string true "Inspection ID"
// @Param        body body models.UpdateAnswersRequest true "New answer map"
// @Success      200  {object}  fiber.Map
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /inspections/{id}/data [put]
func UpdateInspectionData(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid inspection ID")
	}

	var request models.UpdateAnswersRequest
	if err := c.BodyParser(&request); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := validate.Struct(&request); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userID, _ := c.Locals("userId").(string)

	inspection, err := inspections.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, "Inspection not found")
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !middleware.IsManager(c) && inspection.UserID != userID {
		return utils.HandleError(c, fiber.StatusForbidden, "Not allowed to edit this inspection")
	}

	if err := inspections.UpdateAnswers(ctx, id, userID, request.Answers); err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to update answers: "+err.Error())
	}

	return c.JSON(fiber.Map{"success": true})
}

// UpdateInspectionStatus godoc
// @Summary      Move an inspection through the status workflow
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        id   path string true "Inspection ID"
// @Param        body body models.UpdateStatusRequest true "New status"
// @Success      200  {object}  fiber.Map
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Router       /inspections/{id}/status [post]
func UpdateInspectionStatus(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid inspection ID")
	}

	var request models.UpdateStatusRequest
	if err := c.BodyParser(&request); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userID, _ := c.Locals("userId").(string)
	inspection, err := inspections.UpdateStatus(ctx, id, userID, request.Status, middleware.IsManager(c))
	if err != nil {
		switch {
		case models.IsValidation(err):
			return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrForbidden):
			return utils.HandleError(c, fiber.StatusForbidden, "Not allowed to change this status")
		case errors.Is(err, models.ErrNotFound):
			return utils.HandleError(c, fiber.StatusNotFound, "Inspection not found")
		default:
			return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"newLabel": inspection.StatusLabel(),
		"newColor": inspection.StatusColor(),
	})
}

// GenerateInspectionPDF godoc
// @Summary      Render and download the filled report
// @Description  Re-renders the document from the effective schema and stored answers, saves the path and streams the file
// @Tags         inspections
// @Produce      application/pdf
// @Param        id path string true "Inspection ID"
// @Failure      404  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /inspections/{id}/pdf [get]
func GenerateInspectionPDF(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid inspection ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inspection, err := inspections.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, "Inspection not found")
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !middleware.IsManager(c) && inspection.UserID != c.Locals("userId") {
		return utils.HandleError(c, fiber.StatusForbidden, "Not allowed to render this inspection")
	}

	sections, err := schema.Resolve(ctx, inspection)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to resolve schema: "+err.Error())
	}

	generator := &pdf.Generator{
		Sections:   sections,
		Inspection: inspection,
		UploadDir:  inspections.UploadDir(),
	}
	relPath, err := generator.Create()
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Render failed: "+err.Error())
	}

	if err := inspections.SetPDFPath(ctx, id, relPath); err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to store render path: "+err.Error())
	}

	return c.Download(filepath.Join(inspections.UploadDir(), relPath), filepath.Base(relPath))
}

// ExportInspectionsCSV godoc
// @Summary      Export every inspection as CSV
// @Tags         inspections
// @Produce      text/csv
// @Failure      500  {object}  models.ErrorResponse
// @Router       /inspections/export/csv [get]
func ExportInspectionsCSV(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var buf bytes.Buffer
	if err := inspections.ExportCSV(ctx, &buf); err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Export failed: "+err.Error())
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=export_`+time.Now().Format("20060102")+`.csv`)
	return c.Send(buf.Bytes())
}

// DownloadAttachment godoc
// @Summary      Download one file from an inspection's folder
// @Tags         inspections
// @Param        project  path string true "Project folder"
// @Param        filename path string true "File name"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /files/{project}/{filename} [get]
func DownloadAttachment(c *fiber.Ctx) error {
	project := pdf.SanitizeName(c.Params("project"))
	filename := pdf.SanitizeName(c.Params("filename"))

	return c.SendFile(filepath.Join(inspections.UploadDir(), project, filename))
}
