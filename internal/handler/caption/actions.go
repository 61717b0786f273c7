package caption

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibecap/internal/session"
)

// Generate 生成文案
// 请求失败时仍返回 200，data.caption 为固定提示文案，data.outcome 为 failed
// @Summary      生成文案
// @Tags         文案
// @Produce      json
// @Param        id   path      string  true  "会话ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      400  {object}  ErrorResponse  "没有可用的图片"
// @Failure      409  {object}  ErrorResponse  "已有请求在进行中"
// @Router       /api/v1/sessions/{id}/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	st, err := h.captionService.Generate(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondState(c, http.StatusOK, "ok", sid, st)
}

// Refresh 刷新文案，没有 base_caption 时等同生成
// @Summary      刷新文案
// @Tags         文案
// @Produce      json
// @Param        id   path      string  true  "会话ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      409  {object}  ErrorResponse  "已有请求在进行中"
// @Router       /api/v1/sessions/{id}/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	st, err := h.captionService.Refresh(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondState(c, http.StatusOK, "ok", sid, st)
}

// Copy 记录"已复制"提示，真正写剪贴板由页面完成
// @Summary      复制文案
// @Description  data.copied 在 copy_ack_delay 后自动恢复为 false；没有文案时不做任何改变
// @Tags         文案
// @Produce      json
// @Param        id   path      string  true  "会话ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      404  {object}  ErrorResponse  "会话不存在"
// @Router       /api/v1/sessions/{id}/copy [post]
func (h *Handler) Copy(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	st, err := h.captionService.Copy(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondState(c, http.StatusOK, "ok", sid, st)
}

// Reset 清空图片、描述与文案，回到初始状态
// @Summary      重置会话
// @Tags         文案
// @Produce      json
// @Param        id   path      string  true  "会话ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      409  {object}  ErrorResponse  "已有请求在进行中"
// @Router       /api/v1/sessions/{id}/reset [post]
func (h *Handler) Reset(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	h.dispatch(c, sid, session.Reset{})
}
