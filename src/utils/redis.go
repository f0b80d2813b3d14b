package utils

import (
	"context"
	"encoding/json"
	"time"

	DB "Backend-InspectPortal/src/database"
	"Backend-InspectPortal/src/models"
)

var Ctx = context.Background()

const schemaCacheTTL = time.Hour

func schemaConfigKey(category string) string {
	return "schema:config:" + category
}

// CacheSchemaConfig เก็บ live schema config ของ category ไว้ใน Redis
// ไม่มี Redis ก็ข้ามไปเฉย ๆ (dev mode)
func CacheSchemaConfig(category string, sections []models.SchemaSection) {
	client := DB.RedisClient
	if client == nil {
		return
	}

	data, err := json.Marshal(sections)
	if err != nil {
		return
	}
	client.Set(Ctx, schemaConfigKey(category), data, schemaCacheTTL)
}

// GetCachedSchemaConfig อ่าน config จาก cache; คืน false เมื่อไม่มีหรืออ่านไม่ได้
func GetCachedSchemaConfig(category string) ([]models.SchemaSection, bool) {
	client := DB.RedisClient
	if client == nil {
		return nil, false
	}

	data, err := client.Get(Ctx, schemaConfigKey(category)).Bytes()
	if err != nil {
		return nil, false
	}

	var sections []models.SchemaSection
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, false
	}
	return sections, true
}

// InvalidateSchemaCache ลบ cache ของ category หลัง import สำเร็จ
func InvalidateSchemaCache(category string) {
	client := DB.RedisClient
	if client == nil {
		return
	}
	client.Del(Ctx, schemaConfigKey(category))
}
