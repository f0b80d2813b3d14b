package models

import (
	"fmt"
	"strconv"
	"strings"
)

// EmptyAnswer คือ placeholder เวลา record ไม่มีคำตอบของ question นั้น
const EmptyAnswer = "-"

// FormatAnswer แปลงค่าคำตอบดิบจาก answer map เป็นข้อความสำหรับแสดงผล
// bool -> Yes/No, ลิสต์ -> join ด้วย comma, ค่าว่าง -> "-"
func FormatAnswer(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return EmptyAnswer
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case string:
		if strings.TrimSpace(t) == "" {
			return EmptyAnswer
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		if len(t) == 0 {
			return EmptyAnswer
		}
		return strings.Join(t, ", ")
	case []interface{}:
		if len(t) == 0 {
			return EmptyAnswer
		}
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

// SplitFileList แยกค่าของ question ชนิด file (เก็บเป็นชื่อไฟล์คั่นด้วย comma)
func SplitFileList(value string) []string {
	if strings.TrimSpace(value) == "" || value == EmptyAnswer {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			out = append(out, name)
		}
	}
	return out
}
