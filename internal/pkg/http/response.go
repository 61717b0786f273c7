package http

// 业务错误码（非0表示错误）
const (
	CodeOK             = 0
	CodeInvalidBody    = 40001 // 请求体无效
	CodeInvalidVibe    = 40002 // 未知风格
	CodeInvalidMethod  = 40003 // 未知上传方式
	CodeMissingImage   = 40004 // 没有可用的图片来源
	CodeInvalidFile    = 40005 // 上传文件无效
	CodeInvalidSession = 40006 // 会话ID格式错误
	CodeNotFound       = 40401 // 会话不存在或已过期
	CodeFileTooLarge   = 41301 // 文件超过大小限制
	CodeBusy           = 40901 // 已有请求在进行中
	CodeInternal       = 50001 // 服务器内部错误
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`             // 错误码（非0表示错误）
	Message string `json:"message"`          // 错误消息
	Detail  string `json:"detail,omitempty"` // 错误详情（可选）
}

// SuccessResponse 成功响应（所有API共用）
type SuccessResponse struct {
	Code    int         `json:"code"`           // 状态码（0表示成功）
	Message string      `json:"message"`        // 响应消息
	Data    interface{} `json:"data,omitempty"` // 响应数据（可选）
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(message string, data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Code:    CodeOK,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string, detail ...string) *ErrorResponse {
	resp := &ErrorResponse{
		Code:    code,
		Message: message,
	}
	if len(detail) > 0 && detail[0] != "" {
		resp.Detail = detail[0]
	}
	return resp
}
