package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"vibecap/internal/config"
	"vibecap/internal/model/caption"
	"vibecap/internal/pkg/captionapi"
	"vibecap/internal/pkg/clipboard"
	"vibecap/internal/service"
	"vibecap/internal/session"
)

// errCaptionFailed 请求失败，已输出固定提示文案
var errCaptionFailed = errors.New("caption request failed")

// captionFlags generate/refresh 共用参数
type captionFlags struct {
	vibe        string
	description string
	copy        bool
	json        bool
}

func (f *captionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.vibe, "vibe", string(caption.DefaultVibe), "caption vibe (happy/sad/adventurous/romantic/mysterious/energetic)")
	flags.StringVarP(&f.description, "desc", "d", "", "optional description, at most 200 characters")
	flags.BoolVar(&f.copy, "copy", false, "copy the caption to the system clipboard")
	flags.BoolVar(&f.json, "json", false, "print the result as JSON")
}

// inputs 把通用参数转换为输入事件
func (f *captionFlags) inputs() ([]session.InputEvent, error) {
	vibe, err := caption.ParseVibe(f.vibe)
	if err != nil {
		return nil, err
	}
	if n := caption.DescriptionLength(f.description); n > caption.MaxDescriptionLength {
		log.Warn().Int("length", n).Msg("description truncated to 200 characters")
	}
	return []session.InputEvent{
		session.SelectVibe{Vibe: vibe},
		session.SetDescription{Text: f.description},
	}, nil
}

// localSession 命令行使用的单会话文案服务
type localSession struct {
	svc service.CaptionService
	id  string
}

func newLocalSession(ctx context.Context, cfg *config.Config) (*localSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	api, err := captionapi.NewClient(&captionapi.Config{BaseURL: cfg.Caption.BaseURL})
	if err != nil {
		return nil, err
	}

	svc := service.NewCaptionService(service.Options{
		API:             api,
		Store:           session.NewMemoryStore(1, 0),
		Clipboard:       clipboard.System{},
		FallbackMessage: cfg.Caption.FallbackMessage,
		CopyAckDelay:    cfg.Caption.CopyAckDelay,
	})

	sid, _, err := svc.NewSession(ctx)
	if err != nil {
		svc.Close()
		return nil, err
	}
	return &localSession{svc: svc, id: sid}, nil
}

func (l *localSession) apply(ctx context.Context, events ...session.InputEvent) error {
	for _, ev := range events {
		if _, err := l.svc.Dispatch(ctx, l.id, ev); err != nil {
			return err
		}
	}
	return nil
}

func (l *localSession) Close() {
	l.svc.Close()
}

// readImageFile 读取本地图片
func readImageFile(path string, maxBytes int64) (*caption.ImageFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, fmt.Errorf("%s is larger than %d bytes", path, maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%s is not an image (%s)", path, contentType)
	}

	return &caption.ImageFile{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// captionOutput --json 输出
type captionOutput struct {
	Caption     string `json:"caption"`
	BaseCaption string `json:"base_caption,omitempty"`
	Vibe        string `json:"vibe"`
	Outcome     string `json:"outcome"`
	Copied      bool   `json:"copied"`
}

// finish 复制（可选）并输出结果
// 文案写 stdout，base_caption 写 stderr 供 refresh 使用
func (l *localSession) finish(ctx context.Context, st session.State, f *captionFlags, stdout, stderr io.Writer) error {
	if f.copy && st.Outcome == session.OutcomeSuccess {
		copied, err := l.svc.Copy(ctx, l.id)
		if err != nil {
			log.Warn().Err(err).Msg("failed to copy caption to clipboard")
		} else {
			st = copied
		}
	}

	if f.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(captionOutput{
			Caption:     st.Caption,
			BaseCaption: st.Token.Value(),
			Vibe:        st.Vibe.String(),
			Outcome:     string(st.Outcome),
			Copied:      st.Copied,
		}); err != nil {
			return err
		}
	} else {
		info := caption.Info(st.Vibe)
		fmt.Fprintln(stdout, st.Caption)
		fmt.Fprintf(stderr, "%s %s\n", info.Emoji, info.Name)
		if st.HasToken() {
			fmt.Fprintf(stderr, "base_caption: %s\n", st.Token.Value())
		}
		if st.Copied {
			fmt.Fprintln(stderr, "Copied! ✓")
		}
	}

	if st.Outcome == session.OutcomeFailed {
		return errCaptionFailed
	}
	return nil
}

// commandContext 命令行请求不设超时，Ctrl+C 取消
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
