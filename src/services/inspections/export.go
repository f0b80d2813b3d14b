package inspections

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"Backend-InspectPortal/src/models"
	"Backend-InspectPortal/src/services/schema"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExportCSV streams every inspection as one CSV row, with one column per
// question of the live main schema.
func ExportCSV(ctx context.Context, w io.Writer) error {
	// BOM เพื่อให้ Excel อ่าน charset ถูก
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	sections, err := schema.GetConfig(ctx, models.CategoryMain)
	if err != nil {
		return err
	}

	var questions []models.SchemaQuestion
	for _, sec := range sections {
		questions = append(questions, sec.Questions...)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := []string{"ID", "Site", "Variant", "Status", "Creator", "Date", "PDF Path"}
	for _, q := range questions {
		header = append(header, q.Label)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	cursor, err := inspectionsCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var all []models.Inspection
	if err = cursor.All(ctx, &all); err != nil {
		return err
	}

	for _, insp := range all {
		row := []string{
			insp.ID.Hex(),
			insp.SiteName,
			insp.VariantType,
			insp.StatusLabel(),
			insp.UserID,
			insp.CreatedAt.Format("02.01.2006"),
			insp.PDFPath,
		}
		for _, q := range questions {
			val := models.FormatAnswer(insp.Answers[q.ID])
			if val == models.EmptyAnswer {
				val = ""
			}
			// Strip line breaks so one record stays one row.
			val = strings.ReplaceAll(strings.ReplaceAll(val, "\n", " "), "\r", "")
			row = append(row, val)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
