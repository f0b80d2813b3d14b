package controllers

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"Backend-InspectPortal/src/models"
	"Backend-InspectPortal/src/pdf"
	"Backend-InspectPortal/src/services/inspections"
	"Backend-InspectPortal/src/services/schema"
	"Backend-InspectPortal/src/utils"

	"github.com/gofiber/fiber/v2"
)

// GetSchemaConfig godoc
// @Summary      Get the live form schema
// @Description  Returns every section with its questions for one category, ordered for display
// @Tags         schema
// @Produce      json
// @Param        category query string false "Schema category" default(main)
// @Success      200  {array}   models.SchemaSection
// @Failure      500  {object}  models.ErrorResponse
// @Router       /schema/config [get]
func GetSchemaConfig(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sections, err := schema.GetConfig(ctx, c.Query("category"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to load schema config: "+err.Error())
	}

	return c.JSON(sections)
}

// ImportSchema godoc
// @Summary      Import a form schema tree
// @Description  Replaces or upserts the schema of a category from a form-builder payload. All-or-nothing: a failure rolls every change back.
// @Tags         schema
// @Accept       json
// @Produce      json
// @Param        policy   query string true  "Import policy (replace or upsert)"
// @Param        category query string false "Schema category" default(main)
// @Param        body     body  []models.SectionInput true "Ordered section tree"
// @Success      200  {object}  fiber.Map
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /schema/import [post]
func ImportSchema(c *fiber.Ctx) error {
	policy := schema.ImportPolicy(c.Query("policy"))
	if policy == "" {
		// The two policies behave differently on missing entities, so the
		// caller has to pick one explicitly.
		return utils.HandleError(c, fiber.StatusBadRequest, "Missing required query parameter: policy (replace or upsert)")
	}

	var tree []models.SectionInput
	if err := json.Unmarshal(c.Body(), &tree); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid import payload: "+err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := schema.Import(ctx, c.Query("category"), tree, policy); err != nil {
		if models.IsValidation(err) {
			return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, "Import failed, all changes rolled back: "+err.Error())
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListSchemaBackups godoc
// @Summary      List import autosaves
// @Tags         schema
// @Produce      json
// @Success      200  {array}   fiber.Map
// @Failure      500  {object}  models.ErrorResponse
// @Router       /schema/backups [get]
func ListSchemaBackups(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	backups, err := schema.ListBackups(ctx, 20)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to list backups: "+err.Error())
	}

	out := make([]fiber.Map, 0, len(backups))
	for _, b := range backups {
		out = append(out, fiber.Map{
			"id":   b.ID,
			"name": b.Name,
			"data": json.RawMessage(b.DataJSON),
		})
	}
	return c.JSON(out)
}

// DownloadBlankPDF godoc
// @Summary      Download a blank fill-by-hand template
// @Description  Renders an empty form for the requested variant from the live schema
// @Tags         schema
// @Produce      application/pdf
// @Param        type query string false "Target variant" default(single-unit)
// @Failure      500  {object}  models.ErrorResponse
// @Router       /schema/blank-pdf [get]
func DownloadBlankPDF(c *fiber.Ctx) error {
	variant := c.Query("type", models.VariantSingleUnit)
	if !models.ValidVariant(variant) {
		return utils.HandleError(c, fiber.StatusBadRequest, "Unknown variant: "+variant)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	sections, err := schema.GetConfig(ctx, c.Query("category"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to load schema: "+err.Error())
	}

	generator := &pdf.Generator{
		Sections:      sections,
		TargetVariant: variant,
		UploadDir:     inspections.UploadDir(),
	}
	relPath, err := generator.Create()
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Blank render failed: "+err.Error())
	}

	return c.Download(filepath.Join(inspections.UploadDir(), relPath), filepath.Base(relPath))
}
