package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported 当前环境没有可用的剪贴板（如无 xclip/xsel 的 Linux 服务器）
var ErrUnsupported = errors.New("clipboard is not supported on this system")

// System 系统剪贴板
type System struct{}

// WriteAll 写入文本
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}
