package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FlexBool ยอมรับ bool / string / number จาก payload เก่า ๆ ("true", "on", 1, ...)
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = FlexBool(Truthy(v))
	return nil
}

// Truthy interprets loosely typed flag values the way the form frontend sends them.
func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "on" || s == "1" || s == "yes"
	case float64:
		return t != 0
	case int:
		return t != 0
	case json.Number:
		return t.String() != "0"
	}
	return false
}

// StringList ยอมรับเฉพาะ JSON array; อย่างอื่นกลายเป็นลิสต์ว่าง ไม่ใช่ error
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = StringList{}
		return nil
	}
	out := make(StringList, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(v))
		}
	}
	*l = out
	return nil
}

// QuestionInput คือ question หนึ่งข้อจาก form builder
// Flag keys มีชื่อเก่ากับชื่อใหม่ปนกัน (required / is_required) เลยต้อง probe ทั้งคู่
type QuestionInput struct {
	ID      string     `json:"id"`
	Label   string     `json:"label"`
	Type    FieldType  `json:"type"`
	Width   string     `json:"width"`
	Tooltip string     `json:"tooltip"`
	Options StringList `json:"options"`
	Types   StringList `json:"types"`

	Required   *FlexBool `json:"required"`
	IsRequired *FlexBool `json:"is_required"`
	Metadata   *FlexBool `json:"metadata"`
	IsMetadata *FlexBool `json:"is_metadata"`
	Print      *FlexBool `json:"print"`
	IsPrint    *FlexBool `json:"is_print"`
}

// SectionInput คือ section หนึ่งชุดจาก form builder
type SectionInput struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	IsExpanded *FlexBool       `json:"is_expanded"`
	Content    []QuestionInput `json:"content"`
}

func flagOr(values ...*FlexBool) bool {
	for _, v := range values {
		if v != nil && bool(*v) {
			return true
		}
	}
	return false
}

// RequiredFlag probes both accepted key spellings, defaulting to false.
func (q QuestionInput) RequiredFlag() bool { return flagOr(q.IsRequired, q.Required) }

// MetadataFlag probes both accepted key spellings, defaulting to false.
func (q QuestionInput) MetadataFlag() bool { return flagOr(q.IsMetadata, q.Metadata) }

// PrintFlag prefers is_print, falls back to print, and defaults to true
// so legacy payloads keep printing everything.
func (q QuestionInput) PrintFlag() bool {
	if q.IsPrint != nil {
		return bool(*q.IsPrint)
	}
	if q.Print != nil {
		return bool(*q.Print)
	}
	return true
}

// NormalizeQuestion converts importer input into a persistable row.
// Missing ids get a generated one; unknown field types fall back to text.
func NormalizeQuestion(in QuestionInput, sectionID string, order int) Question {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	fieldType := in.Type
	if !ValidFieldType(fieldType) {
		fieldType = FieldText
	}

	width := in.Width
	if width == "" {
		width = "half"
	}

	return Question{
		ID:           id,
		SectionID:    sectionID,
		Label:        in.Label,
		Type:         fieldType,
		Width:        width,
		Tooltip:      in.Tooltip,
		IsRequired:   in.RequiredFlag(),
		IsMetadata:   in.MetadataFlag(),
		IsPrint:      in.PrintFlag(),
		Order:        order,
		OptionsJSON:  EncodeList(in.Options),
		VariantsJSON: EncodeList(in.Types),
	}
}

// NormalizeSection converts a section input (without its questions) into a row.
func NormalizeSection(in SectionInput, category string, order int) Section {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	title := in.Title
	if title == "" {
		title = "Untitled"
	}

	expanded := true
	if in.IsExpanded != nil {
		expanded = bool(*in.IsExpanded)
	}

	return Section{
		ID:         id,
		Title:      title,
		Category:   category,
		Order:      order,
		IsExpanded: expanded,
	}
}

// NormalizeTree converts a whole import payload into persistable rows.
// Order is assigned from array position, 0-based and contiguous.
func NormalizeTree(category string, inputs []SectionInput) []SectionWithQuestions {
	out := make([]SectionWithQuestions, 0, len(inputs))
	for secIdx, secIn := range inputs {
		section := NormalizeSection(secIn, category, secIdx)

		questions := make([]Question, 0, len(secIn.Content))
		for qIdx, qIn := range secIn.Content {
			questions = append(questions, NormalizeQuestion(qIn, section.ID, qIdx))
		}

		out = append(out, SectionWithQuestions{Section: section, Questions: questions})
	}
	return out
}
