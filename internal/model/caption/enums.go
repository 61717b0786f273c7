package caption

import (
	"errors"
	"strings"
)

var (
	ErrInvalidVibe         = errors.New("无效的 vibe")
	ErrInvalidUploadMethod = errors.New("无效的上传方式")
)

// Vibe 文案风格（情绪标签）
type Vibe string

const (
	VibeHappy       Vibe = "happy"       // 开心
	VibeSad         Vibe = "sad"         // 伤感
	VibeAdventurous Vibe = "adventurous" // 冒险
	VibeRomantic    Vibe = "romantic"    // 浪漫
	VibeMysterious  Vibe = "mysterious"  // 神秘
	VibeEnergetic   Vibe = "energetic"   // 活力
)

// DefaultVibe 默认风格
const DefaultVibe = VibeHappy

var allVibes = []Vibe{
	VibeHappy,
	VibeSad,
	VibeAdventurous,
	VibeRomantic,
	VibeMysterious,
	VibeEnergetic,
}

// AllVibes 返回全部可选风格（按界面展示顺序）
func AllVibes() []Vibe {
	out := make([]Vibe, len(allVibes))
	copy(out, allVibes)
	return out
}

// String 返回风格的字符串表示
func (v Vibe) String() string {
	return string(v)
}

// IsValid 是否为已知风格
func (v Vibe) IsValid() bool {
	for _, known := range allVibes {
		if v == known {
			return true
		}
	}
	return false
}

// ParseVibe 解析风格，忽略大小写与首尾空白
func ParseVibe(s string) (Vibe, error) {
	v := Vibe(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", ErrInvalidVibe
	}
	return v, nil
}

// UploadMethod 图片来源方式
type UploadMethod string

const (
	UploadMethodFile UploadMethod = "file" // 本地文件
	UploadMethodURL  UploadMethod = "url"  // 图片链接
)

// String 返回上传方式的字符串表示
func (m UploadMethod) String() string {
	return string(m)
}

// IsValid 是否为已知上传方式
func (m UploadMethod) IsValid() bool {
	return m == UploadMethodFile || m == UploadMethodURL
}

// ParseUploadMethod 解析上传方式
func ParseUploadMethod(s string) (UploadMethod, error) {
	m := UploadMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", ErrInvalidUploadMethod
	}
	return m, nil
}
