package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	sessionStore string
}

// NewHealthHandler 创建健康检查处理器，sessionStore 为当前会话存储类型（memory/redis）
func NewHealthHandler(sessionStore string) *HealthHandler {
	return &HealthHandler{sessionStore: sessionStore}
}

// Health 健康检查
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready 就绪检查
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ready",
		"session_store": h.sessionStore,
	})
}
