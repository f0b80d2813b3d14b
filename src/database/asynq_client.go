package database

import (
	"log"

	"github.com/hibiken/asynq"
)

// AsynqClient ใช้ enqueue งาน render เอกสาร; เป็น nil เมื่อไม่มี Redis
var AsynqClient *asynq.Client

// InitAsynq เปิด render queue ต่อจาก InitRedis ถ้าเชื่อม Redis ไม่ได้
// ก็ข้ามไป เอกสารจะถูกสร้างตอนผู้ใช้กดดาวน์โหลดแทน
func InitAsynq() {
	if RedisClient == nil || RedisURI == "" {
		log.Println("⚠️ Redis not available. Documents render on demand only.")
		return
	}

	AsynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: RedisURI})
	log.Println("✅ Render queue ready")
}
