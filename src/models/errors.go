package models

import "errors"

// ErrNotFound ใช้เมื่อหา record/schema ที่ขอไม่เจอ
var ErrNotFound = errors.New("not found")

// ErrForbidden ใช้เมื่อ caller ไม่มีสิทธิ์ทำ action นั้น (เช่น ข้าม status workflow)
var ErrForbidden = errors.New("forbidden")

// ValidationError ใช้กับ import input ที่พังเกินกว่า normalization จะช่วยได้
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError สร้าง ValidationError พร้อมข้อความ
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
