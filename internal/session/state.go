package session

import (
	"errors"
	"strings"

	"vibecap/internal/model/caption"
)

// ErrMissingImage 当前上传方式下没有可用的图片来源
var ErrMissingImage = errors.New("请先选择图片或填写图片链接")

// Phase 请求阶段
type Phase string

const (
	PhaseIdle     Phase = "idle"      // 空闲
	PhaseInFlight Phase = "in_flight" // 请求中
)

// Outcome 最近一次请求的结果
type Outcome string

const (
	OutcomeNone    Outcome = ""        // 尚未请求
	OutcomeSuccess Outcome = "success" // 成功
	OutcomeFailed  Outcome = "failed"  // 失败
)

// RequestKind 请求类型
type RequestKind string

const (
	RequestGenerate RequestKind = "generate" // 生成
	RequestRefresh  RequestKind = "refresh"  // 刷新
)

// State 一个会话的完整界面状态
// 值类型，只能通过 Reduce 产生新的状态
type State struct {
	Method      caption.UploadMethod `json:"method"`
	File        *caption.ImageFile   `json:"file,omitempty"`
	ImageURL    string               `json:"image_url,omitempty"`
	Vibe        caption.Vibe         `json:"vibe"`
	Description string               `json:"description"`
	Caption     string               `json:"caption"`
	Token       caption.SessionToken `json:"token"`
	Phase       Phase                `json:"phase"`
	Pending     RequestKind          `json:"pending,omitempty"`
	RequestSeq  uint64               `json:"request_seq"`
	Outcome     Outcome              `json:"outcome,omitempty"`
	Copied      bool                 `json:"copied"`
	CopySeq     uint64               `json:"copy_seq"`
}

// Initial 新会话的初始状态
func Initial() State {
	return State{
		Method: caption.UploadMethodFile,
		Vibe:   caption.DefaultVibe,
		Phase:  PhaseIdle,
	}
}

// InFlight 是否有请求正在进行
func (s State) InFlight() bool {
	return s.Phase == PhaseInFlight
}

// HasToken 是否持有可用于刷新的 base_caption
func (s State) HasToken() bool {
	return !s.Token.IsZero()
}

// Request 根据当前状态构造的出站请求
// 生成请求中 File 与 ImageURL 只会有一个非空
type Request struct {
	Kind        RequestKind
	File        *caption.ImageFile
	ImageURL    string
	Token       caption.SessionToken
	Vibe        caption.Vibe
	Description string
}

// Plan 构造出站请求
// 没有 base_caption 时刷新退化为生成；只读取当前上传方式对应的输入
func (s State) Plan(kind RequestKind) (Request, error) {
	if !s.Vibe.IsValid() {
		return Request{}, caption.ErrInvalidVibe
	}

	req := Request{
		Kind:        kind,
		Vibe:        s.Vibe,
		Description: s.Description,
	}

	if kind == RequestRefresh && s.HasToken() {
		req.Token = s.Token
		return req, nil
	}

	req.Kind = RequestGenerate
	switch s.Method {
	case caption.UploadMethodFile:
		if s.File == nil {
			return Request{}, ErrMissingImage
		}
		req.File = s.File
	case caption.UploadMethodURL:
		url := strings.TrimSpace(s.ImageURL)
		if url == "" {
			return Request{}, ErrMissingImage
		}
		req.ImageURL = url
	default:
		return Request{}, caption.ErrInvalidUploadMethod
	}

	return req, nil
}
