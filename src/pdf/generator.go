package pdf

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"Backend-InspectPortal/src/models"

	gofpdf "github.com/lvillar/gofpdf"
)

// Generator วาดเอกสารหนึ่งฉบับจาก effective schema + คำตอบของ inspection
// ถ้า Inspection เป็น nil จะได้ blank template สำหรับ TargetVariant แทน
//
// Generator หนึ่งตัวถือ cursor/page state ของตัวเองทั้งหมด สร้างใหม่ทุกครั้งที่ render
type Generator struct {
	Sections   []models.SchemaSection
	Inspection *models.Inspection
	// TargetVariant บังคับ variant ของเอกสาร; ค่าว่างใช้ variant ของ inspection
	TargetVariant string
	UploadDir     string

	pdf     *gofpdf.Fpdf
	measure Measure
	variant string
	mode    Mode
	section string // title of the section currently being drawn
}

// Create renders the document and writes it next to the record's other files
// (or into a dated template folder for blank renders). Returns the relative
// output path. No partial file is ever left visible on failure.
func (g *Generator) Create() (string, error) {
	g.variant = g.TargetVariant
	if g.variant == "" && g.Inspection != nil {
		g.variant = g.Inspection.VariantType
	}
	if g.variant == "" {
		g.variant = models.VariantSingleUnit
	}

	g.mode = ModeFilled
	if g.Inspection == nil {
		g.mode = ModeBlank
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	g.pdf = pdf
	g.measure = measureWith(pdf)

	pdf.SetMargins(10, 10, 10)
	// Page breaks are decided by cursor arithmetic, never by the backend.
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")

	title := "INSPECTION REPORT: " + strings.ToUpper(g.variant)
	if g.mode == ModeBlank {
		title = "BLANK TEMPLATE: " + strings.ToUpper(g.variant)
	}
	pdf.SetTitle(title, false)

	pdf.SetHeaderFunc(func() {
		pdf.SetFillColor(39, 174, 96)
		pdf.Rect(0, 0, 210, 20, "F")
		pdf.SetY(6)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, title, "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	g.drawSubheader()

	for _, section := range g.Sections {
		visible := visibleQuestions(section, g.variant)
		if len(visible) == 0 {
			// No heading for sections that contribute nothing to this variant.
			continue
		}

		g.section = section.Title
		if pdf.GetY() > pageBottom-sectionMinSpace {
			g.newPage()
		}
		g.drawSectionHeading(section.Title)

		for _, q := range visible {
			label := q.Label
			if q.IsRequired {
				label += " *"
			}
			value := g.answerFor(q)

			needed := EstimateHeight(q, label, value, g.mode, g.measure)
			if pdf.GetY()+needed > pageBottom {
				g.newPage()
				g.drawContinuedMarker(section.Title)
			}

			g.drawField(q, label, value)
			pdf.SetY(pdf.GetY() + fieldGutter)
		}

		pdf.Ln(2)
	}

	if pdf.Err() {
		return "", fmt.Errorf("render failed: %w", pdf.Error())
	}

	return g.writeOutput()
}

// measureWith wraps the backend's own line splitting so estimate and draw can
// never diverge on how text wraps.
func measureWith(pdf *gofpdf.Fpdf) Measure {
	return func(text, style string, size, width float64) int {
		pdf.SetFont("Helvetica", style, size)
		lines := pdf.SplitLines([]byte(text), width)
		if len(lines) == 0 {
			return 1
		}
		return len(lines)
	}
}

func visibleQuestions(section models.SchemaSection, variant string) []models.SchemaQuestion {
	visible := make([]models.SchemaQuestion, 0, len(section.Questions))
	for _, q := range section.Questions {
		if !q.IsPrint {
			continue
		}
		if !q.AppliesTo(variant) {
			continue
		}
		visible = append(visible, q)
	}
	return visible
}

func (g *Generator) newPage() {
	g.pdf.AddPage()
	g.pdf.SetY(contentTop)
}

func (g *Generator) drawSubheader() {
	pdf := g.pdf
	pdf.SetY(contentTop)
	pdf.SetFont("Helvetica", "", 10)

	var line string
	if g.Inspection != nil {
		line = fmt.Sprintf("Site: %s | Date: %s | ID: %s",
			g.Inspection.SiteName,
			g.Inspection.CreatedAt.Format("02.01.2006"),
			g.Inspection.ID.Hex())
	} else {
		line = fmt.Sprintf("Fill-by-hand template | Variant: %s | Date: %s",
			g.variant, time.Now().Format("02.01.2006"))
	}

	pdf.CellFormat(0, 10, line, "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

func (g *Generator) drawSectionHeading(title string) {
	pdf := g.pdf
	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, sectionHeadH, title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func (g *Generator) drawContinuedMarker(title string) {
	pdf := g.pdf
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, lineHeight, "(continued: "+title+")", "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

// answerFor formats the stored answer for q, or "" in blank mode.
func (g *Generator) answerFor(q models.SchemaQuestion) string {
	if g.Inspection == nil {
		return ""
	}
	raw := g.Inspection.Answers[q.ID]
	if q.Type == models.FieldCheckbox {
		if models.Truthy(raw) {
			return "[x] Yes"
		}
		return "[ ] No"
	}
	return models.FormatAnswer(raw)
}

// drawField dispatches on the field type. The space consumed here must never
// exceed what EstimateHeight reported for the same inputs.
func (g *Generator) drawField(q models.SchemaQuestion, label, value string) {
	pdf := g.pdf

	switch q.Type {
	case models.FieldHeader:
		pdf.Ln(headerGap)
		pdf.SetFont("Helvetica", "B", valueFontSize)
		pdf.MultiCell(contentWidth, lineHeight, strings.ToUpper(label), "", "L", false)
		return
	case models.FieldInfo, models.FieldAlert:
		pdf.SetFont("Helvetica", "I", labelFontSize)
		pdf.MultiCell(contentWidth, lineHeight, "Hint: "+label, "", "L", false)
		return
	}

	// Label line(s), bold.
	pdf.SetFont("Helvetica", "B", labelFontSize)
	pdf.MultiCell(contentWidth, lineHeight, label, "", "L", false)

	if g.mode == ModeBlank {
		g.drawBlankInput(q)
		return
	}
	g.drawFilledValue(q, value)
}

func (g *Generator) drawBlankInput(q models.SchemaQuestion) {
	pdf := g.pdf
	pdf.SetFont("Helvetica", "", valueFontSize)

	switch q.Type {
	case models.FieldTextarea:
		y := pdf.GetY()
		pdf.Rect(10, y, contentWidth, textareaBoxH, "D")
		pdf.SetY(y + textareaBoxH)
	case models.FieldCheckbox:
		pdf.CellFormat(0, lineHeight, "[ ] Yes / Confirmed", "", 1, "L", false, 0, "")
	case models.FieldSelect:
		for _, opt := range q.Options {
			pdf.MultiCell(contentWidth, lineHeight, "[ ] "+opt, "", "L", false)
		}
	case models.FieldFile:
		y := pdf.GetY()
		pdf.SetDashPattern([]float64{2, 2}, 0)
		pdf.Rect(10, y, contentWidth, filePlaceholderH, "D")
		pdf.SetDashPattern([]float64{}, 0)
		pdf.SetXY(10, y+filePlaceholderH/2-lineHeight/2)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(contentWidth, lineHeight, "[space for photos/sketches]", "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetY(y + filePlaceholderH)
	default:
		// Single blank underline for hand-written answers.
		pdf.CellFormat(0, lineHeight, "", "B", 1, "L", false, 0, "")
	}
}

func (g *Generator) drawFilledValue(q models.SchemaQuestion, value string) {
	pdf := g.pdf
	pdf.SetFont("Helvetica", "", valueFontSize)

	if q.Type == models.FieldFile {
		names := models.SplitFileList(value)
		if len(names) == 0 {
			pdf.CellFormat(0, lineHeight, models.EmptyAnswer, "", 1, "L", false, 0, "")
			return
		}
		for _, name := range names {
			g.drawAttachment(name)
		}
		return
	}

	if value == "" {
		value = models.EmptyAnswer
	}
	pdf.MultiCell(contentWidth, lineHeight, value, "", "L", false)
}

// drawAttachment embeds one attached file: images inline with a caption,
// everything else as a one-line marker. A broken file degrades to a red
// caption and never aborts the rest of the document.
func (g *Generator) drawAttachment(name string) {
	pdf := g.pdf

	folder := g.attachmentFolder()
	fullPath := filepath.Join(g.UploadDir, folder, name)
	ext := strings.ToLower(filepath.Ext(name))
	isImage := ext == ".png" || ext == ".jpg" || ext == ".jpeg"

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		pdf.CellFormat(0, lineHeight, "[missing] "+name, "", 1, "L", false, 0, "")
		return
	}
	if !isImage {
		pdf.CellFormat(0, lineHeight, "[file] "+name, "", 1, "L", false, 0, "")
		return
	}

	if err := probeImage(fullPath); err != nil {
		log.Println("⚠️ Skipping broken attachment:", name, err)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(0, lineHeight, "[error] "+name+": could not embed image", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		return
	}

	captionH := lineHeight
	if pdf.GetY()+imageHeight+captionH > pageBottom {
		g.newPage()
		g.drawContinuedMarker(g.section)
	}

	y := pdf.GetY()
	pdf.ImageOptions(fullPath, 10, y, 0, imageHeight, false, gofpdf.ImageOptions{}, 0, "")
	pdf.SetY(y + imageHeight + 1)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, captionH, name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", valueFontSize)
}

// probeImage verifies the file decodes as an image before handing it to the
// backend, so one corrupt upload cannot poison the whole document.
func probeImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, _, err = image.DecodeConfig(f)
	return err
}

// attachmentFolder derives the record's folder from its stored output path,
// falling back to a name built from site and creation date.
func (g *Generator) attachmentFolder() string {
	if g.Inspection == nil {
		return ""
	}
	if g.Inspection.PDFPath != "" {
		if dir := filepath.Dir(g.Inspection.PDFPath); dir != "." && dir != string(filepath.Separator) {
			return dir
		}
	}
	return SanitizeName(g.Inspection.SiteName) + "_" + g.Inspection.CreatedAt.Format("20060102")
}

// writeOutput saves the document atomically: temp file first, rename last.
func (g *Generator) writeOutput() (string, error) {
	var folder, filename string
	if g.Inspection != nil {
		folder = g.attachmentFolder()
		filename = SanitizeName(fmt.Sprintf("Report_%s_%s", g.Inspection.SiteName, g.Inspection.ID.Hex())) + ".pdf"
	} else {
		folder = "Blank_" + SanitizeName(g.variant) + "_" + time.Now().Format("20060102")
		filename = "Blank_Form_" + SanitizeName(g.variant) + ".pdf"
	}

	dir := filepath.Join(g.UploadDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output folder: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".render-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp output: %w", err)
	}
	tmpName := tmp.Name()

	if err := g.pdf.Output(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing temp output: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, filename)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("moving document into place: %w", err)
	}

	return filepath.Join(folder, filename), nil
}

// SanitizeName makes a string safe to use as a file or folder name.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}
