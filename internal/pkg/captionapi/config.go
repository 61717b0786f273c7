package captionapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// 远端服务端点
const (
	PathGenerateUpload = "/generate-caption-upload"
	PathGenerateURL    = "/generate-caption-url"
	PathRefresh        = "/refresh-caption"
)

// Config 文案服务客户端配置
type Config struct {
	BaseURL    string       // 服务根地址（如 https://xxxx.ngrok-free.app）
	HTTPClient *http.Client // 可选，默认不设置超时
}

// normalizeBaseURL 校验并规范化服务根地址
//   - 去掉首尾空白与末尾的 /
//   - 只接受 http/https
func normalizeBaseURL(raw string) (string, error) {
	base := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if base == "" {
		return "", fmt.Errorf("caption api base url is required")
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse caption api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("caption api base url must be http or https: %s", base)
	}
	if u.Host == "" {
		return "", fmt.Errorf("caption api base url has no host: %s", base)
	}

	return base, nil
}
