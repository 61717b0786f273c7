package caption

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibecap/internal/model/caption"
	httputil "vibecap/internal/pkg/http"
)

// ListVibes 风格列表
// @Summary      风格列表
// @Description  返回全部可选风格及其展示信息（名称、emoji、配色）
// @Tags         文案
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/vibes [get]
func (h *Handler) ListVibes(c *gin.Context) {
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("ok", caption.Catalog()))
}

// CreateSession 创建会话
// @Summary      创建会话
// @Tags         文案
// @Produce      json
// @Success      201  {object}  map[string]interface{}  "成功响应"
// @Failure      500  {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	sid, st, err := h.captionService.NewSession(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondState(c, http.StatusCreated, "会话创建成功", sid, st)
}

// GetSession 查询会话状态
// @Summary      查询会话状态
// @Tags         文案
// @Produce      json
// @Param        id   path      string  true  "会话ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      404  {object}  ErrorResponse  "会话不存在"
// @Router       /api/v1/sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	st, err := h.captionService.State(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondState(c, http.StatusOK, "ok", sid, st)
}

// DeleteSession 删除会话
// @Summary      删除会话
// @Tags         文案
// @Param        id   path      string  true  "会话ID"
// @Success      204
// @Router       /api/v1/sessions/{id} [delete]
func (h *Handler) DeleteSession(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.captionService.Delete(c.Request.Context(), sid); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
