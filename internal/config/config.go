package config

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Caption CaptionConfig `mapstructure:"caption"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// CaptionConfig 文案服务配置
type CaptionConfig struct {
	BaseURL         string        `mapstructure:"base_url"`         // 文案服务根地址
	FallbackMessage string        `mapstructure:"fallback_message"` // 失败时展示的固定文案
	CopyAckDelay    time.Duration `mapstructure:"copy_ack_delay"`   // "已复制"提示持续时间
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"` // 单个图片上限
}

// SessionConfig 会话配置
type SessionConfig struct {
	TTL         time.Duration `mapstructure:"ttl"`          // 会话有效期
	MaxSessions int           `mapstructure:"max_sessions"` // 进程内最多保留的会话数
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// RedisConfig Redis 配置，Addr 为空时使用进程内会话存储
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Validate 验证客户端配置
func (c *Config) Validate() error {
	base := strings.TrimSpace(c.Caption.BaseURL)
	if base == "" {
		return errors.New("caption.base_url is required")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("invalid caption.base_url, must be an http(s) url")
	}

	if c.Caption.CopyAckDelay <= 0 {
		return errors.New("caption.copy_ack_delay must be positive")
	}
	if c.Caption.MaxUploadBytes <= 0 {
		return errors.New("caption.max_upload_bytes must be positive")
	}
	if c.Session.MaxSessions < 0 {
		return errors.New("session.max_sessions must not be negative")
	}

	return nil
}

// ValidateServer 验证 serve 命令额外需要的配置
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	return nil
}
