package session

import (
	"strings"

	"vibecap/internal/model/caption"
)

// Event 状态迁移事件
type Event interface {
	isEvent()
}

// InputEvent 由用户操作直接触发的事件
// 请求相关事件只能由服务层在执行请求时产生
type InputEvent interface {
	Event
	isInput()
}

// SelectUploadMethod 切换上传方式
type SelectUploadMethod struct{ Method caption.UploadMethod }

// SelectFile 选择本地图片
type SelectFile struct{ File *caption.ImageFile }

// SetImageURL 填写图片链接
type SetImageURL struct{ URL string }

// SelectVibe 选择风格
type SelectVibe struct{ Vibe caption.Vibe }

// SetDescription 填写描述
type SetDescription struct{ Text string }

// ResumeToken 恢复之前拿到的 base_caption（命令行跨进程刷新使用）
type ResumeToken struct{ Token caption.SessionToken }

// Reset 恢复初始状态
type Reset struct{}

// Submit 请求开始，RequestSeq 加一
type Submit struct{ Kind RequestKind }

// GenerateSucceeded 生成成功，Seq 为发起请求时的 RequestSeq
type GenerateSucceeded struct {
	Seq    uint64
	Result caption.Result
}

// RefreshSucceeded 刷新成功，只带回新文案
type RefreshSucceeded struct {
	Seq     uint64
	Caption string
}

// RequestFailed 请求失败，展示固定文案
type RequestFailed struct {
	Seq      uint64
	Fallback string
}

// Copied 已复制到剪贴板
type Copied struct{}

// CopyExpired 复制提示到期，Seq 不匹配时忽略
type CopyExpired struct{ Seq uint64 }

func (SelectUploadMethod) isEvent() {}
func (SelectFile) isEvent()         {}
func (SetImageURL) isEvent()        {}
func (SelectVibe) isEvent()         {}
func (SetDescription) isEvent()     {}
func (ResumeToken) isEvent()        {}
func (Reset) isEvent()              {}
func (Submit) isEvent()             {}
func (GenerateSucceeded) isEvent()  {}
func (RefreshSucceeded) isEvent()   {}
func (RequestFailed) isEvent()      {}
func (Copied) isEvent()             {}
func (CopyExpired) isEvent()        {}

func (SelectUploadMethod) isInput() {}
func (SelectFile) isInput()         {}
func (SetImageURL) isInput()        {}
func (SelectVibe) isInput()         {}
func (SetDescription) isInput()     {}
func (ResumeToken) isInput()        {}
func (Reset) isInput()              {}

// Reduce 状态迁移函数，不修改入参
// 请求结果只在对应的请求进行中时生效，其余（重置后或更早请求的）响应会被丢弃
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case SelectUploadMethod:
		if e.Method.IsValid() {
			s.Method = e.Method
		}
	case SelectFile:
		s.File = e.File
	case SetImageURL:
		s.ImageURL = strings.TrimSpace(e.URL)
	case SelectVibe:
		if e.Vibe.IsValid() {
			s.Vibe = e.Vibe
		}
	case SetDescription:
		s.Description = caption.TruncateDescription(e.Text)
	case ResumeToken:
		s.Token = e.Token
	case Reset:
		copySeq, requestSeq := s.CopySeq, s.RequestSeq
		s = Initial()
		s.CopySeq = copySeq
		s.RequestSeq = requestSeq

	case Submit:
		if s.InFlight() {
			return s
		}
		s.Phase = PhaseInFlight
		s.Pending = e.Kind
		s.RequestSeq++
		s.Outcome = OutcomeNone
		if e.Kind == RequestGenerate {
			s.Caption = ""
		}
	case GenerateSucceeded:
		if !s.awaiting(e.Seq) {
			return s
		}
		s.Caption = e.Result.Caption
		s.Token = e.Result.Token
		s = settle(s, OutcomeSuccess)
	case RefreshSucceeded:
		if !s.awaiting(e.Seq) {
			return s
		}
		s.Caption = e.Caption
		s = settle(s, OutcomeSuccess)
	case RequestFailed:
		if !s.awaiting(e.Seq) {
			return s
		}
		s.Caption = e.Fallback
		s = settle(s, OutcomeFailed)

	case Copied:
		if s.Caption == "" {
			return s
		}
		s.CopySeq++
		s.Copied = true
	case CopyExpired:
		if e.Seq == s.CopySeq {
			s.Copied = false
		}
	}
	return s
}

// awaiting 是否正在等待序号为 seq 的请求结果
func (s State) awaiting(seq uint64) bool {
	return s.InFlight() && s.RequestSeq == seq
}

func settle(s State, outcome Outcome) State {
	s.Phase = PhaseIdle
	s.Pending = ""
	s.Outcome = outcome
	return s
}
