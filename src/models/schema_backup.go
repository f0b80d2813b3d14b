package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SchemaBackup เก็บ autosave ของ payload ที่ import เข้ามาแต่ละครั้ง
// เอาไว้ restore config ของฟอร์มย้อนหลังได้จาก form builder
type SchemaBackup struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Category  string             `bson:"category" json:"category"`
	DataJSON  string             `bson:"dataJson" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
