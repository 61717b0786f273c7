package caption

import (
	"encoding/json"
	"unicode/utf8"
)

// MaxDescriptionLength 用户描述最大长度（字符数）
const MaxDescriptionLength = 200

// DefaultFallbackMessage 请求失败时展示给用户的固定文案
const DefaultFallbackMessage = "Oops! Something went wrong. Please try again! 😅"

// TruncateDescription 将描述截断到 MaxDescriptionLength 个字符
func TruncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= MaxDescriptionLength {
		return s
	}
	return string([]rune(s)[:MaxDescriptionLength])
}

// DescriptionLength 描述长度（字符数）
func DescriptionLength(s string) int {
	return utf8.RuneCountInString(s)
}

// ImageFile 用户选择的本地图片
// 内容归会话所有，创建后不再修改
type ImageFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Size 文件大小
func (f *ImageFile) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

// SessionToken 服务端返回的 base_caption
// 客户端只负责原样回传，不解析也不修改
type SessionToken struct {
	raw string
}

// NewSessionToken 包装服务端返回的 base_caption
func NewSessionToken(raw string) SessionToken {
	return SessionToken{raw: raw}
}

// IsZero 是否为空
func (t SessionToken) IsZero() bool {
	return t.raw == ""
}

// Value 返回需要回传给服务端的原始值
func (t SessionToken) Value() string {
	return t.raw
}

// MarshalJSON 会话存储序列化
func (t SessionToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.raw)
}

// UnmarshalJSON 会话存储反序列化
func (t *SessionToken) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.raw)
}

// Result 一次成功生成的结果
type Result struct {
	Caption string
	Token   SessionToken
}
