package database

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var (
	RedisClient *redis.Client
	RedisURI    string
	RedisCtx    = context.Background()
)

// InitRedis เชื่อมต่อ Redis (ใช้ cache schema config และเป็น broker ของ Asynq)
// Redis เป็น optional: ถ้าไม่ได้ตั้ง REDIS_URI ระบบยังทำงานได้ แค่ไม่มี cache/jobs
func InitRedis() {
	RedisURI = os.Getenv("REDIS_URI")
	if RedisURI == "" {
		log.Println("⚠️ REDIS_URI not set. Schema cache and background rendering disabled.")
		return
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     RedisURI,
		Password: "",
		DB:       0,
	})
	if _, err := RedisClient.Ping(RedisCtx).Result(); err != nil {
		log.Println("⚠️ Failed to connect Redis:", err)
		RedisClient = nil
		RedisURI = ""
		return
	}

	log.Println("✅ Redis connected successfully")
}
