package caption

import (
	"vibecap/internal/service"
)

// Handler 文案会话处理器
// 页面的每个操作对应一个接口，状态保存在服务端会话中
type Handler struct {
	captionService service.CaptionService
	maxUploadBytes int64
}

// NewHandler 创建文案会话处理器
func NewHandler(captionService service.CaptionService, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{
		captionService: captionService,
		maxUploadBytes: maxUploadBytes,
	}
}
