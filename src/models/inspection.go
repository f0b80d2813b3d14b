package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inspection statuses (workflow: draft -> submitted -> review -> done / rejected)
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusReview    = "review"
	StatusDone      = "done"
	StatusRejected  = "rejected"
)

// Form variants. A question's variant list decides which of these it belongs to.
const (
	VariantSingleUnit   = "single-unit"
	VariantCluster      = "cluster"
	VariantDistribution = "distribution-point"
)

// ValidStatus reports whether s is one of the workflow statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusReview, StatusDone, StatusRejected:
		return true
	}
	return false
}

// ValidVariant reports whether v is a known form variant.
func ValidVariant(v string) bool {
	switch v {
	case VariantSingleUnit, VariantCluster, VariantDistribution:
		return true
	}
	return false
}

// --- Inspection ---
// Inspection คือ record หนึ่งรายการ: คำตอบของฟอร์ม + ไฟล์แนบ + snapshot ของ schema
// Snapshot ถูก freeze ตอนสร้างครั้งเดียวและไม่ถูกแก้อีกเลย
type Inspection struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      string                 `bson:"userId" json:"userId"`
	SiteName    string                 `bson:"siteName" json:"siteName"`
	VariantType string                 `bson:"variantType" json:"variantType"`
	Category    string                 `bson:"category" json:"category"`
	Status      string                 `bson:"status" json:"status"`
	PDFPath     string                 `bson:"pdfPath" json:"pdfPath"`
	Answers     map[string]interface{} `bson:"answers" json:"answers"`
	Attachments []string               `bson:"attachments" json:"attachments"`
	Snapshot    []SectionWithQuestions `bson:"schemaSnapshot,omitempty" json:"schemaSnapshot,omitempty"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// StatusLabel คืนข้อความสถานะสำหรับแสดงผล
func (i *Inspection) StatusLabel() string {
	switch i.Status {
	case StatusSubmitted:
		return "Submitted"
	case StatusReview:
		return "In Review"
	case StatusDone:
		return "Done"
	case StatusRejected:
		return "Rejected"
	default:
		return "Draft"
	}
}

// StatusColor คืนสีของป้ายสถานะ (ใช้โดย frontend)
func (i *Inspection) StatusColor() string {
	switch i.Status {
	case StatusSubmitted:
		return "primary"
	case StatusReview:
		return "warning"
	case StatusDone:
		return "success"
	case StatusRejected:
		return "danger"
	default:
		return "secondary"
	}
}

// --- InspectionLog ---
// บันทึกการเปลี่ยนสถานะ/แก้ไขข้อมูลของ Inspection
type InspectionLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	InspectionID primitive.ObjectID `bson:"inspectionId" json:"inspectionId"`
	UserID       string             `bson:"userId" json:"userId"`
	Action       string             `bson:"action" json:"action"`
	Details      string             `bson:"details" json:"details"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// MetadataField is a headline fact for the detail view: a metadata-flagged
// question's label joined with the inspection's formatted answer.
type MetadataField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// --- Requests ---

type CreateInspectionRequest struct {
	SiteName    string                 `json:"siteName" validate:"required"`
	VariantType string                 `json:"variantType"`
	Category    string                 `json:"category"`
	Folder      string                 `json:"folder"`
	Answers     map[string]interface{} `json:"formData"`
}

type UpdateAnswersRequest struct {
	Answers map[string]interface{} `json:"formData" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
