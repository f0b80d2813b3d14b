package pdf

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"Backend-InspectPortal/src/models"

	gofpdf "github.com/lvillar/gofpdf"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleSections() []models.SchemaSection {
	return []models.SchemaSection{
		{
			ID:    "s1",
			Title: "General",
			Questions: []models.SchemaQuestion{
				{ID: "q1", Label: "Site address", Type: models.FieldText, IsRequired: true, IsPrint: true},
				{ID: "q2", Label: "Connection type", Type: models.FieldSelect, IsPrint: true,
					Options: []string{"Underground", "Overhead"}},
				{ID: "q3", Label: "Meter accessible", Type: models.FieldCheckbox, IsPrint: true,
					Variants: []string{models.VariantCluster}},
				{ID: "q4", Label: "Internal reference", Type: models.FieldText, IsPrint: false},
			},
		},
		{
			ID:    "s2",
			Title: "Findings",
			Questions: []models.SchemaQuestion{
				{ID: "q5", Label: "Defects and remarks", Type: models.FieldTextarea, IsPrint: true},
				{ID: "q6", Label: "Photos", Type: models.FieldFile, IsPrint: true},
			},
		},
		{
			ID:    "s3",
			Title: "Cluster only",
			Questions: []models.SchemaQuestion{
				{ID: "q7", Label: "Shared cabinet", Type: models.FieldCheckbox, IsPrint: true,
					Variants: []string{models.VariantCluster}},
			},
		},
	}
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Main_Street_12", SanitizeName("Main Street 12"))
	assert.Equal(t, "report.pdf", SanitizeName("report.pdf"))
	assert.Equal(t, "ab", SanitizeName("a/../b"))
	assert.Equal(t, "unnamed", SanitizeName(""))
	assert.Equal(t, "unnamed", SanitizeName("///"))
	assert.Equal(t, "x", SanitizeName("  x  "))
}

func TestVisibleQuestions(t *testing.T) {
	sections := sampleSections()

	t.Run("TestPrintFlagAndVariantFilter", func(t *testing.T) {
		visible := visibleQuestions(sections[0], models.VariantSingleUnit)
		ids := make([]string, 0)
		for _, q := range visible {
			ids = append(ids, q.ID)
		}
		// q3 belongs to cluster, q4 is not printable
		assert.Equal(t, []string{"q1", "q2"}, ids)
	})

	t.Run("TestVariantSpecificQuestionAppears", func(t *testing.T) {
		visible := visibleQuestions(sections[0], models.VariantCluster)
		assert.Len(t, visible, 3)
	})

	t.Run("TestFullyFilteredSection", func(t *testing.T) {
		visible := visibleQuestions(sections[2], models.VariantSingleUnit)
		assert.Empty(t, visible)
	})
}

func TestAnswerFor(t *testing.T) {
	t.Run("TestBlankModeIsAlwaysEmpty", func(t *testing.T) {
		g := &Generator{}
		assert.Equal(t, "", g.answerFor(models.SchemaQuestion{ID: "q1", Type: models.FieldText}))
	})

	t.Run("TestCheckboxRendersAsTickMarker", func(t *testing.T) {
		g := &Generator{Inspection: &models.Inspection{
			Answers: map[string]interface{}{"q1": true, "q2": "on", "q3": false},
		}}
		q := models.SchemaQuestion{ID: "q1", Type: models.FieldCheckbox}
		assert.Equal(t, "[x] Yes", g.answerFor(q))
		q.ID = "q2"
		assert.Equal(t, "[x] Yes", g.answerFor(q))
		q.ID = "q3"
		assert.Equal(t, "[ ] No", g.answerFor(q))
		q.ID = "missing"
		assert.Equal(t, "[ ] No", g.answerFor(q))
	})

	t.Run("TestMissingAnswerBecomesPlaceholder", func(t *testing.T) {
		g := &Generator{Inspection: &models.Inspection{Answers: map[string]interface{}{}}}
		q := models.SchemaQuestion{ID: "q1", Type: models.FieldText}
		assert.Equal(t, models.EmptyAnswer, g.answerFor(q))
	})
}

func TestAttachmentFolder(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("TestDerivedFromStoredPath", func(t *testing.T) {
		g := &Generator{Inspection: &models.Inspection{PDFPath: "Main_Street_12/Report.pdf"}}
		assert.Equal(t, "Main_Street_12", g.attachmentFolder())
	})

	t.Run("TestFallbackFromSiteAndDate", func(t *testing.T) {
		g := &Generator{Inspection: &models.Inspection{SiteName: "Main Street 12", CreatedAt: created}}
		assert.Equal(t, "Main_Street_12_20260314", g.attachmentFolder())
	})
}

func TestBlankRender(t *testing.T) {
	dir := t.TempDir()
	g := &Generator{
		Sections:      sampleSections(),
		TargetVariant: models.VariantSingleUnit,
		UploadDir:     dir,
	}

	relPath, err := g.Create()
	assert.NoError(t, err)

	assert.Equal(t, "Blank_Form_single-unit.pdf", filepath.Base(relPath))
	assert.True(t, strings.HasPrefix(filepath.Dir(relPath), "Blank_single-unit_"))

	info, err := os.Stat(filepath.Join(dir, relPath))
	assert.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// No temp file may survive the atomic write.
	entries, err := os.ReadDir(filepath.Join(dir, filepath.Dir(relPath)))
	assert.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}
}

func TestFilledRender(t *testing.T) {
	dir := t.TempDir()
	inspection := &models.Inspection{
		ID:          primitive.NewObjectID(),
		SiteName:    "Main Street 12",
		VariantType: models.VariantCluster,
		CreatedAt:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		PDFPath:     "Main_Street_12/",
		Answers: map[string]interface{}{
			"q1": "Main Street 12, 54321 Springfield",
			"q2": "Underground",
			"q3": true,
			"q5": strings.Repeat("Long remark line. ", 40),
			"q6": "missing.jpg, notes.txt",
		},
	}

	g := &Generator{
		Sections:   sampleSections(),
		Inspection: inspection,
		UploadDir:  dir,
	}

	relPath, err := g.Create()
	assert.NoError(t, err)

	expected := "Report_Main_Street_12_" + inspection.ID.Hex() + ".pdf"
	assert.Equal(t, expected, filepath.Base(relPath))
	assert.Equal(t, "Main_Street_12", filepath.Dir(relPath))

	info, err := os.Stat(filepath.Join(dir, relPath))
	assert.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestManySectionsPaginate(t *testing.T) {
	// Enough textareas to force several page breaks.
	sections := make([]models.SchemaSection, 0, 10)
	for i := 0; i < 10; i++ {
		sections = append(sections, models.SchemaSection{
			ID:    "s" + string(rune('a'+i)),
			Title: "Section",
			Questions: []models.SchemaQuestion{
				{ID: "a", Label: "Remarks", Type: models.FieldTextarea, IsPrint: true},
				{ID: "b", Label: "More remarks", Type: models.FieldTextarea, IsPrint: true},
			},
		})
	}

	dir := t.TempDir()
	g := &Generator{Sections: sections, TargetVariant: models.VariantSingleUnit, UploadDir: dir}

	relPath, err := g.Create()
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, relPath))
	assert.NoError(t, err)
}

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: 39, G: 174, B: 96, A: 255})
		}
	}
	f, err := os.Create(path)
	assert.NoError(t, err)
	defer f.Close()
	assert.NoError(t, png.Encode(f, img))
}

func renderWithAttachments(t *testing.T, dir, fileAnswer string) int64 {
	t.Helper()
	inspection := &models.Inspection{
		ID:          primitive.NewObjectID(),
		SiteName:    "Site A",
		VariantType: models.VariantSingleUnit,
		CreatedAt:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		PDFPath:     "Site_A/",
		Answers:     map[string]interface{}{"q6": fileAnswer},
	}
	g := &Generator{
		Sections: []models.SchemaSection{{
			ID:    "s1",
			Title: "Findings",
			Questions: []models.SchemaQuestion{
				{ID: "q6", Label: "Photos", Type: models.FieldFile, IsPrint: true},
			},
		}},
		Inspection: inspection,
		UploadDir:  dir,
	}

	relPath, err := g.Create()
	assert.NoError(t, err)
	info, err := os.Stat(filepath.Join(dir, relPath))
	assert.NoError(t, err)
	return info.Size()
}

func TestAttachmentEmbedding(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "Site_A")
	assert.NoError(t, os.MkdirAll(folder, 0o755))

	writeTestPNG(t, filepath.Join(folder, "photo.png"))
	assert.NoError(t, os.WriteFile(filepath.Join(folder, "broken.jpg"), []byte("definitely not a jpeg"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(folder, "notes.txt"), []byte("hello"), 0o644))

	// One existing image, one corrupt image, one plain file, one missing file:
	// the render must finish and carry the embedded image bytes.
	baseSize := renderWithAttachments(t, dir, "")
	fullSize := renderWithAttachments(t, dir, "photo.png, broken.jpg, notes.txt, missing.jpg")
	assert.Greater(t, fullSize, baseSize)
}

func TestBrokenImageDoesNotAbortRender(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "Site_A")
	assert.NoError(t, os.MkdirAll(folder, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(folder, "broken.jpg"), []byte{0xFF, 0xD8, 0x00}, 0o644))

	size := renderWithAttachments(t, dir, "broken.jpg")
	assert.Greater(t, size, int64(0))
}

func TestImageBreakKeepsContinuedMarker(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "Site_A")
	assert.NoError(t, os.MkdirAll(folder, 0o755))
	writeTestPNG(t, filepath.Join(folder, "photo.png"))

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(10, 10, 10)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	g := &Generator{
		Inspection: &models.Inspection{PDFPath: "Site_A/"},
		UploadDir:  dir,
		pdf:        doc,
		measure:    measureWith(doc),
		mode:       ModeFilled,
		section:    "Findings",
	}

	// Not enough room left for the image, so it must move to a fresh page
	// and announce which section it continues.
	doc.SetY(pageBottom - 20)
	g.drawAttachment("photo.png")

	assert.False(t, doc.Err())
	assert.Equal(t, 2, doc.PageNo())
	// marker line + gap, then the image and its caption
	expected := contentTop + lineHeight + 1 + imageHeight + 1 + lineHeight
	assert.InDelta(t, expected, doc.GetY(), 0.5)
}

// Estimates must never be smaller than what drawing actually consumes,
// otherwise fields get cut at the page bottom.
func TestEstimateCoversDrawnHeight(t *testing.T) {
	questions := []models.SchemaQuestion{
		{ID: "q1", Label: "Plain text question", Type: models.FieldText},
		{ID: "q2", Label: strings.Repeat("A very long wrapping label ", 10), Type: models.FieldText},
		{ID: "q3", Label: "Remarks", Type: models.FieldTextarea},
		{ID: "q4", Label: "Accessible", Type: models.FieldCheckbox},
		{ID: "q5", Label: "Connection", Type: models.FieldSelect, Options: []string{"A", "B", "C"}},
		{ID: "q6", Label: "Photos", Type: models.FieldFile},
		{ID: "q7", Label: "General", Type: models.FieldHeader},
		{ID: "q8", Label: "Mind the gap", Type: models.FieldInfo},
	}

	for _, mode := range []Mode{ModeBlank, ModeFilled} {
		var inspection *models.Inspection
		if mode == ModeFilled {
			inspection = &models.Inspection{
				Answers: map[string]interface{}{
					"q1": "short",
					"q2": strings.Repeat("wrapping answer text ", 15),
					"q3": "line one\nline two",
					"q4": true,
					"q5": "B",
					"q6": "x.txt, y.txt",
				},
			}
		}

		doc := gofpdf.New("P", "mm", "A4", "")
		doc.SetMargins(10, 10, 10)
		doc.SetAutoPageBreak(false, 0)
		doc.AddPage()

		g := &Generator{
			Inspection: inspection,
			pdf:        doc,
			measure:    measureWith(doc),
			mode:       mode,
		}

		for _, q := range questions {
			label := q.Label
			value := g.answerFor(q)
			estimate := EstimateHeight(q, label, value, mode, g.measure)

			doc.SetY(contentTop)
			before := doc.GetY()
			g.drawField(q, label, value)
			consumed := doc.GetY() - before

			assert.False(t, doc.Err(), q.ID)
			assert.GreaterOrEqual(t, estimate+0.01, consumed,
				"field %s mode %d: estimate %.2f < consumed %.2f", q.ID, mode, estimate, consumed)
		}
	}
}
