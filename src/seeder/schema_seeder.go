package seeder

import (
	"Backend-InspectPortal/src/models"
	"Backend-InspectPortal/src/services/schema"
	"context"
	"log"
)

func flag(v bool) *models.FlexBool {
	b := models.FlexBool(v)
	return &b
}

// SeedSampleSchema creates a small inspection form for testing.
// It goes through the regular importer so order, ids and flags are
// normalized exactly like a form-builder upload.
func SeedSampleSchema() error {
	ctx := context.Background()

	tree := []models.SectionInput{
		{
			Title: "General",
			Content: []models.QuestionInput{
				{
					Label:      "Site address",
					Type:       models.FieldText,
					Width:      "full",
					IsRequired: flag(true),
					IsMetadata: flag(true),
				},
				{
					Label:      "Inspector",
					Type:       models.FieldText,
					IsRequired: flag(true),
					IsMetadata: flag(true),
				},
				{
					Label:   "Inspection date",
					Type:    models.FieldText,
					Tooltip: "Date the site was visited, not the report date",
				},
				{
					Label: "Read the safety briefing before entering the site.",
					Type:  models.FieldAlert,
				},
			},
		},
		{
			Title: "Connection",
			Content: []models.QuestionInput{
				{
					Label:   "Connection type",
					Type:    models.FieldSelect,
					Options: models.StringList{"Underground", "Overhead", "Mixed"},
				},
				{
					Label: "Meter cabinet accessible",
					Type:  models.FieldCheckbox,
					Types: models.StringList{models.VariantSingleUnit, models.VariantCluster},
				},
				{
					Label: "Distribution cabinet condition",
					Type:  models.FieldTextarea,
					Width: "full",
					Types: models.StringList{models.VariantDistribution},
				},
				{
					Label:   "Cable cross-section (mm²)",
					Type:    models.FieldNumber,
					IsPrint: flag(true),
				},
			},
		},
		{
			Title: "Findings",
			Content: []models.QuestionInput{
				{
					Label: "Defects and remarks",
					Type:  models.FieldTextarea,
					Width: "full",
				},
				{
					Label: "Photos",
					Type:  models.FieldFile,
					Width: "full",
				},
				{
					Label:   "Internal reference",
					Type:    models.FieldText,
					IsPrint: flag(false),
				},
			},
		},
	}

	if err := schema.Import(ctx, models.CategoryMain, tree, schema.PolicyReplace); err != nil {
		log.Printf("Error seeding schema: %v", err)
		return err
	}

	log.Printf("✅ Seeded sample schema: %d sections", len(tree))
	return nil
}
