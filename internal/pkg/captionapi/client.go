package captionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"vibecap/internal/model/caption"
	"vibecap/internal/pkg/ctxutil"
)

// 错误响应体最多保留的长度
const maxErrorBodyLen = 512

// 响应体读取上限
const maxResponseBytes = 1 << 20

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Client 文案生成服务客户端
// 不做重试，任何失败都直接返回给调用方
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建文案服务客户端
func NewClient(config *Config) (*Client, error) {
	baseURL, err := normalizeBaseURL(config.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// BaseURL 返回规范化后的服务根地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

type urlRequest struct {
	ImageURL        string `json:"image_url"`
	Vibe            string `json:"vibe"`
	UserDescription string `json:"user_description"`
}

type refreshRequest struct {
	BaseCaption     string `json:"base_caption"`
	Vibe            string `json:"vibe"`
	UserDescription string `json:"user_description"`
}

// captionResponse 三个端点共用的响应结构，指针用于区分字段缺失
type captionResponse struct {
	Success     bool    `json:"success"`
	Caption     *string `json:"caption"`
	BaseCaption *string `json:"base_caption"`
}

// GenerateFromFile 上传本地图片生成文案（multipart/form-data）
func (c *Client) GenerateFromFile(ctx context.Context, file *caption.ImageFile, vibe caption.Vibe, description string) (*caption.Result, error) {
	if file == nil {
		return nil, fmt.Errorf("image file is required")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	name := file.Name
	if name == "" {
		name = "image"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}
	if err := writer.WriteField("vibe", vibe.String()); err != nil {
		return nil, fmt.Errorf("write vibe field: %w", err)
	}
	if err := writer.WriteField("user_description", description); err != nil {
		return nil, fmt.Errorf("write description field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	resp, err := c.post(ctx, PathGenerateUpload, writer.FormDataContentType(), body)
	if err != nil {
		return nil, err
	}
	return toResult(resp)
}

// GenerateFromURL 通过图片链接生成文案（JSON）
func (c *Client) GenerateFromURL(ctx context.Context, imageURL string, vibe caption.Vibe, description string) (*caption.Result, error) {
	payload, err := json.Marshal(urlRequest{
		ImageURL:        imageURL,
		Vibe:            vibe.String(),
		UserDescription: description,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal url request: %w", err)
	}

	resp, err := c.post(ctx, PathGenerateURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return toResult(resp)
}

// Refresh 基于 base_caption 重新生成文案
// 服务端不会返回新的 base_caption，只返回新文案
func (c *Client) Refresh(ctx context.Context, token caption.SessionToken, vibe caption.Vibe, description string) (string, error) {
	if token.IsZero() {
		return "", fmt.Errorf("base caption is required")
	}

	payload, err := json.Marshal(refreshRequest{
		BaseCaption:     token.Value(),
		Vibe:            vibe.String(),
		UserDescription: description,
	})
	if err != nil {
		return "", fmt.Errorf("marshal refresh request: %w", err)
	}

	resp, err := c.post(ctx, PathRefresh, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	if resp.Caption == nil {
		return "", fmt.Errorf("%w: response has no caption", ErrProtocol)
	}
	return *resp.Caption, nil
}

func toResult(resp *captionResponse) (*caption.Result, error) {
	if resp.Caption == nil {
		return nil, fmt.Errorf("%w: response has no caption", ErrProtocol)
	}
	if resp.BaseCaption == nil {
		return nil, fmt.Errorf("%w: response has no base_caption", ErrProtocol)
	}
	return &caption.Result{
		Caption: *resp.Caption,
		Token:   caption.NewSessionToken(*resp.BaseCaption),
	}, nil
}

// post 发送请求并解析通用响应
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*captionResponse, error) {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if rid, ok := ctxutil.GetRequestID(ctx); ok {
		req.Header.Set("X-Request-ID", rid)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	log.Debug().
		Str("endpoint", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Int("body_size", len(data)).
		Msg("caption api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(data))
		if len(snippet) > maxErrorBodyLen {
			snippet = snippet[:maxErrorBodyLen]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	var parsed captionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrProtocol, err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("%w: success=false", ErrProtocol)
	}

	return &parsed, nil
}
