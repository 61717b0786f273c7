package caption

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vibecap/internal/model/caption"
	httputil "vibecap/internal/pkg/http"
	"vibecap/internal/session"
)

// multipart 表单除文件外的额外开销
const multipartOverhead = 1 << 20

// SelectMethodRequest 切换上传方式请求
type SelectMethodRequest struct {
	Method string `json:"method" binding:"required"` // file/url
}

// SelectVibeRequest 选择风格请求
type SelectVibeRequest struct {
	Vibe string `json:"vibe" binding:"required"`
}

// SetDescriptionRequest 填写描述请求，超过 200 字符会被截断
type SetDescriptionRequest struct {
	Description string `json:"description"`
}

// SetImageURLRequest 填写图片链接请求
type SetImageURLRequest struct {
	ImageURL string `json:"image_url"`
}

// dispatch 应用输入事件并返回最新状态
func (h *Handler) dispatch(c *gin.Context, sid string, ev session.InputEvent) {
	st, err := h.captionService.Dispatch(c.Request.Context(), sid, ev)
	if err != nil {
		respondError(c, err)
		return
	}
	respondState(c, http.StatusOK, "ok", sid, st)
}

func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidBody, "Invalid request body", err.Error()))
		return false
	}
	return true
}

// SelectMethod 切换上传方式
// @Summary      切换上传方式
// @Tags         文案
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "会话ID"
// @Param        request  body  SelectMethodRequest  true  "上传方式"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      400  {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/sessions/{id}/method [put]
func (h *Handler) SelectMethod(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req SelectMethodRequest
	if !bindJSON(c, &req) {
		return
	}
	method, err := caption.ParseUploadMethod(req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	h.dispatch(c, sid, session.SelectUploadMethod{Method: method})
}

// SelectVibe 选择风格
// @Summary      选择风格
// @Tags         文案
// @Accept       json
// @Produce      json
// @Param        id       path  string             true  "会话ID"
// @Param        request  body  SelectVibeRequest  true  "风格"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      400  {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/sessions/{id}/vibe [put]
func (h *Handler) SelectVibe(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req SelectVibeRequest
	if !bindJSON(c, &req) {
		return
	}
	vibe, err := caption.ParseVibe(req.Vibe)
	if err != nil {
		respondError(c, err)
		return
	}
	h.dispatch(c, sid, session.SelectVibe{Vibe: vibe})
}

// SetDescription 填写描述
// @Summary      填写描述
// @Description  超过 200 字符的部分会被截断
// @Tags         文案
// @Accept       json
// @Produce      json
// @Param        id       path  string                 true  "会话ID"
// @Param        request  body  SetDescriptionRequest  true  "描述"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      400  {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/sessions/{id}/description [put]
func (h *Handler) SetDescription(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req SetDescriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	h.dispatch(c, sid, session.SetDescription{Text: req.Description})
}

// SetImageURL 填写图片链接
// @Summary      填写图片链接
// @Tags         文案
// @Accept       json
// @Produce      json
// @Param        id       path  string              true  "会话ID"
// @Param        request  body  SetImageURLRequest  true  "图片链接"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      400  {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/sessions/{id}/url [put]
func (h *Handler) SetImageURL(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req SetImageURLRequest
	if !bindJSON(c, &req) {
		return
	}
	h.dispatch(c, sid, session.SetImageURL{URL: req.ImageURL})
}

// UploadFile 选择本地图片（multipart/form-data）
// @Summary      上传图片
// @Description  图片内容只保存在会话中，会话过期即丢弃
// @Tags         文案
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "会话ID"
// @Param        file  formData  file    true  "图片文件"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      400  {object}  ErrorResponse  "文件无效"
// @Failure      413  {object}  ErrorResponse  "文件过大"
// @Router       /api/v1/sessions/{id}/file [post]
func (h *Handler) UploadFile(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, httputil.NewErrorResponse(httputil.CodeFileTooLarge, "File too large"))
			return
		}
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidFile, "Invalid file", err.Error()))
		return
	}
	if fh.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, httputil.NewErrorResponse(httputil.CodeFileTooLarge, "File too large"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidFile, "Failed to open file", err.Error()))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidFile, "Failed to read file", err.Error()))
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidFile, "Empty file"))
		return
	}

	// 与页面 accept="image/*" 一致，只接受图片
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidFile, "File is not an image", contentType))
		return
	}

	h.dispatch(c, sid, session.SelectFile{File: &caption.ImageFile{
		Name:        fh.Filename,
		ContentType: contentType,
		Data:        data,
	}})
}
