package models

import "encoding/json"

// FieldType คือชนิดของคำถามในฟอร์ม (closed set)
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldNumber   FieldType = "number"
	FieldHeader   FieldType = "header"
	FieldInfo     FieldType = "info"
	FieldAlert    FieldType = "alert"
	FieldFile     FieldType = "file"
)

// Schema categories. Sections in different categories never render together.
const (
	CategoryMain       = "main"
	CategoryOnboarding = "onboarding"
)

// ValidFieldType reports whether t is one of the supported field types.
func ValidFieldType(t FieldType) bool {
	switch t {
	case FieldText, FieldTextarea, FieldSelect, FieldCheckbox, FieldNumber,
		FieldHeader, FieldInfo, FieldAlert, FieldFile:
		return true
	}
	return false
}

// --- Section ---
// Section คือกลุ่มคำถามหนึ่งชุดในฟอร์ม
type Section struct {
	ID         string `bson:"_id" json:"id"`
	Title      string `bson:"title" json:"title"`
	Category   string `bson:"category" json:"category"`
	Order      int    `bson:"order" json:"order"`
	IsExpanded bool   `bson:"isExpanded" json:"is_expanded"`
}

// --- Question ---
// Question row ตามที่เก็บใน DB: ลิสต์ options/variants ถูกเก็บเป็น JSON string
// และจะถูก decode ที่ boundary เดียวคือ Parse()
type Question struct {
	ID           string    `bson:"_id" json:"id"`
	SectionID    string    `bson:"sectionId" json:"sectionId"`
	Label        string    `bson:"label" json:"label"`
	Type         FieldType `bson:"type" json:"type"`
	Width        string    `bson:"width" json:"width"`
	WidthTablet  string    `bson:"widthTablet,omitempty" json:"width_tablet,omitempty"`
	WidthMobile  string    `bson:"widthMobile,omitempty" json:"width_mobile,omitempty"`
	Tooltip      string    `bson:"tooltip" json:"tooltip"`
	IsRequired   bool      `bson:"isRequired" json:"is_required"`
	IsMetadata   bool      `bson:"isMetadata" json:"is_metadata"`
	IsPrint      bool      `bson:"isPrint" json:"is_print"`
	Order        int       `bson:"order" json:"order"`
	OptionsJSON  string    `bson:"optionsJson" json:"-"`
	VariantsJSON string    `bson:"variantsJson" json:"-"`
}

// SectionWithQuestions รวม Section กับ Questions ของมัน
// ใช้ทั้งตอนอ่าน config และเป็นโครงของ schema snapshot ที่ฝังใน Inspection
type SectionWithQuestions struct {
	Section   `bson:",inline"`
	Questions []Question `bson:"questions" json:"content"`
}

// --- Parsed schema (value types) ---
// SchemaQuestion คือ Question ที่ decode ลิสต์เรียบร้อยแล้ว ใช้โดย renderer และ config API
type SchemaQuestion struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Type       FieldType `json:"type"`
	Width      string    `json:"width"`
	Tooltip    string    `json:"tooltip"`
	IsRequired bool      `json:"is_required"`
	IsMetadata bool      `json:"is_metadata"`
	IsPrint    bool      `json:"is_print"`
	Options    []string  `json:"options"`
	Variants   []string  `json:"types"`
}

type SchemaSection struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Category   string           `json:"category"`
	IsExpanded bool             `json:"is_expanded"`
	Questions  []SchemaQuestion `json:"content"`
}

// EncodeList serializes a string list for storage. nil becomes "[]".
func EncodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeList reverses EncodeList. Anything unreadable becomes an empty list.
func DecodeList(s string) []string {
	if s == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// Parse decodes the stored row into its value form.
func (q Question) Parse() SchemaQuestion {
	return SchemaQuestion{
		ID:         q.ID,
		Label:      q.Label,
		Type:       q.Type,
		Width:      q.Width,
		Tooltip:    q.Tooltip,
		IsRequired: q.IsRequired,
		IsMetadata: q.IsMetadata,
		IsPrint:    q.IsPrint,
		Options:    DecodeList(q.OptionsJSON),
		Variants:   DecodeList(q.VariantsJSON),
	}
}

// Parse decodes a section and all its questions into the value form.
func (s SectionWithQuestions) Parse() SchemaSection {
	questions := make([]SchemaQuestion, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, q.Parse())
	}
	return SchemaSection{
		ID:         s.ID,
		Title:      s.Title,
		Category:   s.Category,
		IsExpanded: s.IsExpanded,
		Questions:  questions,
	}
}

// ParseSnapshot decodes an embedded snapshot into the renderer's value form.
func ParseSnapshot(snapshot []SectionWithQuestions) []SchemaSection {
	sections := make([]SchemaSection, 0, len(snapshot))
	for _, s := range snapshot {
		sections = append(sections, s.Parse())
	}
	return sections
}

// AppliesTo reports whether the question is part of the given form variant.
// An empty variant list means the question applies to every variant.
func (q SchemaQuestion) AppliesTo(variant string) bool {
	if len(q.Variants) == 0 {
		return true
	}
	for _, v := range q.Variants {
		if v == variant {
			return true
		}
	}
	return false
}
