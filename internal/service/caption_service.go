package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"vibecap/internal/model/caption"
	"vibecap/internal/pkg/ctxutil"
	"vibecap/internal/pkg/id"
	"vibecap/internal/session"
)

var (
	ErrBusy             = errors.New("已有请求在进行中，请稍候")
	ErrUnsupportedEvent = errors.New("不支持的会话事件")
)

// 默认"已复制"提示持续时间
const DefaultCopyAckDelay = 2 * time.Second

// CaptionAPI 远端文案服务
type CaptionAPI interface {
	GenerateFromFile(ctx context.Context, file *caption.ImageFile, vibe caption.Vibe, description string) (*caption.Result, error)
	GenerateFromURL(ctx context.Context, imageURL string, vibe caption.Vibe, description string) (*caption.Result, error)
	Refresh(ctx context.Context, token caption.SessionToken, vibe caption.Vibe, description string) (string, error)
}

// Clipboard 剪贴板
type Clipboard interface {
	WriteAll(text string) error
}

// CaptionService 文案服务接口
// 每个会话同一时间只允许一个请求
type CaptionService interface {
	// NewSession 创建会话
	NewSession(ctx context.Context) (string, session.State, error)

	// State 读取会话状态
	State(ctx context.Context, sessionID string) (session.State, error)

	// Dispatch 应用用户输入事件（选择图片、风格、描述等）
	Dispatch(ctx context.Context, sessionID string, ev session.InputEvent) (session.State, error)

	// Generate 生成文案
	// 校验失败返回 session.ErrMissingImage，请求失败不返回错误，状态中展示固定文案
	Generate(ctx context.Context, sessionID string) (session.State, error)

	// Refresh 基于 base_caption 刷新文案，没有 base_caption 时等同 Generate
	Refresh(ctx context.Context, sessionID string) (session.State, error)

	// Copy 复制当前文案，"已复制"提示在 CopyAckDelay 后自动消失
	Copy(ctx context.Context, sessionID string) (session.State, error)

	// Delete 删除会话
	Delete(ctx context.Context, sessionID string) error

	// Close 停止所有待触发的提示计时器
	Close()
}

// Options 文案服务依赖
type Options struct {
	API             CaptionAPI
	Store           session.Store
	Clipboard       Clipboard // 可选，为空时只记录"已复制"状态（由浏览器负责真正复制）
	FallbackMessage string
	CopyAckDelay    time.Duration
}

// captionService 文案服务实现
type captionService struct {
	api       CaptionAPI
	store     session.Store
	clipboard Clipboard
	fallback  string
	copyDelay time.Duration

	timerMu sync.Mutex
	timers  map[*time.Timer]struct{}
	closed  bool
}

// NewCaptionService 创建文案服务
func NewCaptionService(opts Options) CaptionService {
	fallback := opts.FallbackMessage
	if fallback == "" {
		fallback = caption.DefaultFallbackMessage
	}
	delay := opts.CopyAckDelay
	if delay <= 0 {
		delay = DefaultCopyAckDelay
	}

	return &captionService{
		api:       opts.API,
		store:     opts.Store,
		clipboard: opts.Clipboard,
		fallback:  fallback,
		copyDelay: delay,
		timers:    make(map[*time.Timer]struct{}),
	}
}

// NewSession 创建会话
func (s *captionService) NewSession(ctx context.Context) (string, session.State, error) {
	sessionID := id.New()
	st := session.Initial()
	if err := s.store.Save(ctx, sessionID, st); err != nil {
		return "", session.State{}, fmt.Errorf("create session: %w", err)
	}
	return sessionID, st, nil
}

// State 读取会话状态
func (s *captionService) State(ctx context.Context, sessionID string) (session.State, error) {
	return s.store.Load(ctx, sessionID)
}

// Dispatch 应用用户输入事件
func (s *captionService) Dispatch(ctx context.Context, sessionID string, ev session.InputEvent) (session.State, error) {
	if ev == nil {
		return session.State{}, ErrUnsupportedEvent
	}
	return s.update(ctx, sessionID, func(st session.State) (session.State, error) {
		// 请求中重置会让同一会话同时存在两个请求
		if _, ok := ev.(session.Reset); ok && st.InFlight() {
			return st, ErrBusy
		}
		return session.Reduce(st, ev), nil
	})
}

// update 由存储原子地读取-迁移-保存，多实例共享 Redis 时同样成立
func (s *captionService) update(ctx context.Context, sessionID string, fn session.UpdateFunc) (session.State, error) {
	return s.store.Update(ctx, sessionID, fn)
}

// Generate 生成文案
func (s *captionService) Generate(ctx context.Context, sessionID string) (session.State, error) {
	return s.request(ctx, sessionID, session.RequestGenerate)
}

// Refresh 刷新文案
func (s *captionService) Refresh(ctx context.Context, sessionID string) (session.State, error) {
	return s.request(ctx, sessionID, session.RequestRefresh)
}

func (s *captionService) request(ctx context.Context, sessionID string, kind session.RequestKind) (session.State, error) {
	var req session.Request

	// 1. 校验并进入请求中状态
	st, err := s.update(ctx, sessionID, func(st session.State) (session.State, error) {
		if st.InFlight() {
			return st, ErrBusy
		}
		planned, err := st.Plan(kind)
		if err != nil {
			return st, err
		}
		req = planned
		return session.Reduce(st, session.Submit{Kind: planned.Kind}), nil
	})
	if err != nil {
		return st, err
	}
	seq := st.RequestSeq

	// 2. 锁外发起网络请求
	ev := s.perform(ctx, sessionID, seq, req)

	// 3. 写回结果；调用方取消后仍要把会话从请求中状态恢复
	return s.update(context.WithoutCancel(ctx), sessionID, func(st session.State) (session.State, error) {
		return session.Reduce(st, ev), nil
	})
}

func (s *captionService) perform(ctx context.Context, sessionID string, seq uint64, req session.Request) session.Event {
	start := time.Now()

	switch req.Kind {
	case session.RequestRefresh:
		text, err := s.api.Refresh(ctx, req.Token, req.Vibe, req.Description)
		if err != nil {
			return s.failed(ctx, sessionID, seq, req, err)
		}
		log.Debug().Str("session_id", sessionID).Dur("latency", time.Since(start)).Msg("caption refreshed")
		return session.RefreshSucceeded{Seq: seq, Caption: text}

	default:
		var (
			result *caption.Result
			err    error
		)
		if req.File != nil {
			result, err = s.api.GenerateFromFile(ctx, req.File, req.Vibe, req.Description)
		} else {
			result, err = s.api.GenerateFromURL(ctx, req.ImageURL, req.Vibe, req.Description)
		}
		if err != nil {
			return s.failed(ctx, sessionID, seq, req, err)
		}
		log.Debug().Str("session_id", sessionID).Dur("latency", time.Since(start)).Msg("caption generated")
		return session.GenerateSucceeded{Seq: seq, Result: *result}
	}
}

func (s *captionService) failed(ctx context.Context, sessionID string, seq uint64, req session.Request, err error) session.Event {
	event := log.Warn()
	if rid, ok := ctxutil.GetRequestID(ctx); ok {
		event = event.Str("request_id", rid)
	}
	event.
		Err(err).
		Str("session_id", sessionID).
		Str("kind", string(req.Kind)).
		Str("vibe", req.Vibe.String()).
		Msg("caption request failed")
	return session.RequestFailed{Seq: seq, Fallback: s.fallback}
}

// Copy 复制当前文案
func (s *captionService) Copy(ctx context.Context, sessionID string) (session.State, error) {
	var seq uint64
	st, err := s.update(ctx, sessionID, func(st session.State) (session.State, error) {
		if st.Caption == "" {
			return st, nil
		}
		if s.clipboard != nil {
			if err := s.clipboard.WriteAll(st.Caption); err != nil {
				return st, fmt.Errorf("写入剪贴板失败: %w", err)
			}
		}
		next := session.Reduce(st, session.Copied{})
		seq = next.CopySeq
		return next, nil
	})
	if err != nil || seq == 0 {
		return st, err
	}

	s.scheduleCopyExpiry(sessionID, seq)
	return st, nil
}

func (s *captionService) scheduleCopyExpiry(sessionID string, seq uint64) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.closed {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(s.copyDelay, func() {
		s.timerMu.Lock()
		delete(s.timers, timer)
		s.timerMu.Unlock()

		_, err := s.update(context.Background(), sessionID, func(st session.State) (session.State, error) {
			return session.Reduce(st, session.CopyExpired{Seq: seq}), nil
		})
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear copy acknowledgment")
		}
	})
	s.timers[timer] = struct{}{}
}

// Delete 删除会话
func (s *captionService) Delete(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// Close 停止所有计时器
func (s *captionService) Close() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	s.closed = true
	for t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[*time.Timer]struct{})
}
