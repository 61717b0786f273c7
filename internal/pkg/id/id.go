package id

import (
	"github.com/google/uuid"
)

// New 生成新的会话ID（UUID v4 字符串）
func New() string {
	return uuid.NewString()
}

// IsValid 校验会话ID格式，避免拿任意字符串去查存储
func IsValid(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}
