package pdf

import (
	"strings"

	"Backend-InspectPortal/src/models"
)

// Mode เลือกว่าจะ render ฟอร์มเปล่าไว้กรอกมือ หรือฟอร์มที่เติมคำตอบแล้ว
type Mode int

const (
	ModeBlank Mode = iota
	ModeFilled
)

// Layout constants, in mm on an A4 page (210x297, 10mm margins).
const (
	contentWidth     = 190.0
	contentTop       = 25.0 // below the header band
	pageBottom       = 270.0
	lineHeight       = 5.0
	fieldGutter      = 3.0
	sectionMinSpace  = 30.0 // never start a section heading with less room than this
	sectionHeadH     = 8.0
	headerGap        = 3.0
	textareaBoxH     = 30.0
	filePlaceholderH = 30.0
	imageHeight      = 60.0
	labelFontSize    = 9.0
	valueFontSize    = 10.0
)

// Measure นับจำนวนบรรทัดหลังตัดคำของข้อความหนึ่งก้อน ด้วย font/ความกว้างที่กำหนด
// Estimator กับ renderer ต้องใช้ Measure ตัวเดียวกันเสมอ ไม่งั้น estimate จะเพี้ยน
// จากการวาดจริงแล้วทำให้ field โดนตัดกลางหน้า
type Measure func(text string, style string, size float64, width float64) int

// EstimateHeight คำนวณพื้นที่แนวตั้งที่ field จะกินก่อนวาดจริง (pure, no I/O)
//
// Blank mode: header/info กินแค่บรรทัดของ label, textarea จองกล่องคงที่,
// select จองบรรทัดละ option, file จองกล่อง placeholder, ที่เหลือหนึ่งบรรทัด
// Filled mode: label + ความสูงของคำตอบจริงหลังตัดคำ
//
// ค่าที่คืนต้องไม่น้อยกว่าที่ renderer ใช้จริง ไม่งั้น field โดนตัดท้ายหน้า
func EstimateHeight(q models.SchemaQuestion, label, value string, mode Mode, m Measure) float64 {
	switch q.Type {
	case models.FieldHeader:
		return headerGap + float64(m(strings.ToUpper(label), "B", valueFontSize, contentWidth))*lineHeight
	case models.FieldInfo, models.FieldAlert:
		return float64(m("Hint: "+label, "I", labelFontSize, contentWidth)) * lineHeight
	}

	labelH := float64(m(label, "B", labelFontSize, contentWidth)) * lineHeight

	if mode == ModeBlank {
		switch q.Type {
		case models.FieldTextarea:
			return labelH + textareaBoxH
		case models.FieldCheckbox:
			return labelH + lineHeight
		case models.FieldSelect:
			h := labelH
			for _, opt := range q.Options {
				h += float64(m("[ ] "+opt, "", valueFontSize, contentWidth)) * lineHeight
			}
			return h
		case models.FieldFile:
			return labelH + filePlaceholderH
		default:
			return labelH + lineHeight
		}
	}

	// Filled mode shows label-then-value instead of label-then-input-box.
	switch q.Type {
	case models.FieldFile:
		// One marker line per attached filename. Embedded images paginate
		// themselves inside the renderer and are not part of this estimate.
		n := len(models.SplitFileList(value))
		if n == 0 {
			n = 1
		}
		return labelH + float64(n)*lineHeight
	default:
		if value == "" {
			value = models.EmptyAnswer
		}
		return labelH + float64(m(value, "", valueFontSize, contentWidth))*lineHeight
	}
}
