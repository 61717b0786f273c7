package caption

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vibecap/internal/model/caption"
	httputil "vibecap/internal/pkg/http"
	"vibecap/internal/pkg/id"
	"vibecap/internal/service"
	"vibecap/internal/session"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// FileView 已选择的文件（不返回文件内容）
type FileView struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// SessionView 会话状态 DTO
type SessionView struct {
	ID                string           `json:"id"`                  // 会话ID
	Method            string           `json:"method"`              // 上传方式 file/url
	Vibe              caption.VibeInfo `json:"vibe"`                // 当前风格
	Description       string           `json:"description"`         // 用户描述
	DescriptionLength int              `json:"description_length"`  // 描述字符数
	DescriptionMax    int              `json:"description_max"`     // 描述上限
	ImageURL          string           `json:"image_url,omitempty"` // 图片链接
	File              *FileView        `json:"file,omitempty"`      // 已选文件
	Caption           string           `json:"caption"`             // 当前展示的文案
	CanRefresh        bool             `json:"can_refresh"`         // 是否持有 base_caption
	Phase             string           `json:"phase"`               // idle/in_flight
	InFlight          bool             `json:"in_flight"`           // 是否请求中
	Outcome           string           `json:"outcome,omitempty"`   // 最近一次请求结果
	Copied            bool             `json:"copied"`              // "已复制"提示
}

func toSessionView(sessionID string, st session.State) SessionView {
	view := SessionView{
		ID:                sessionID,
		Method:            st.Method.String(),
		Vibe:              caption.Info(st.Vibe),
		Description:       st.Description,
		DescriptionLength: caption.DescriptionLength(st.Description),
		DescriptionMax:    caption.MaxDescriptionLength,
		ImageURL:          st.ImageURL,
		Caption:           st.Caption,
		CanRefresh:        st.HasToken(),
		Phase:             string(st.Phase),
		InFlight:          st.InFlight(),
		Outcome:           string(st.Outcome),
		Copied:            st.Copied,
	}
	if st.File != nil {
		view.File = &FileView{
			Name:        st.File.Name,
			ContentType: st.File.ContentType,
			Size:        st.File.Size(),
		}
	}
	return view
}

// sessionID 读取并校验路径中的会话ID
func sessionID(c *gin.Context) (string, bool) {
	sid := c.Param("id")
	if !id.IsValid(sid) {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidSession, "Invalid session id"))
		return "", false
	}
	return sid, true
}

func respondState(c *gin.Context, status int, message, sessionID string, st session.State) {
	c.JSON(status, httputil.NewSuccessResponse(message, toSessionView(sessionID, st)))
}

// respondError 将服务层错误映射为 HTTP 响应
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, httputil.NewErrorResponse(httputil.CodeNotFound, err.Error()))
	case errors.Is(err, service.ErrBusy):
		c.JSON(http.StatusConflict, httputil.NewErrorResponse(httputil.CodeBusy, err.Error()))
	case errors.Is(err, session.ErrMissingImage):
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeMissingImage, err.Error()))
	case errors.Is(err, caption.ErrInvalidVibe):
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidVibe, err.Error()))
	case errors.Is(err, caption.ErrInvalidUploadMethod):
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(httputil.CodeInvalidMethod, err.Error()))
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("caption handler failed")
		c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(httputil.CodeInternal, "Internal Server Error", err.Error()))
	}
}
