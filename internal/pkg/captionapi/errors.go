package captionapi

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport 网络不可达或非 2xx 响应
	ErrTransport = errors.New("caption api transport error")
	// ErrProtocol 响应体缺少字段、无法解析或 success=false
	ErrProtocol = errors.New("caption api protocol error")
)

// StatusError 非 2xx 响应
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("caption api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("caption api returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap 非 2xx 归入传输错误
func (e *StatusError) Unwrap() error {
	return ErrTransport
}
