package session

import (
	"context"
	"errors"
)

var (
	// ErrNotFound 会话不存在或已过期
	ErrNotFound = errors.New("会话不存在或已过期")
	// ErrConflict 并发修改重试次数用尽
	ErrConflict = errors.New("会话正被并发修改，请稍后重试")
)

// UpdateFunc 基于当前状态计算新状态，返回错误时不写入
// 可能因并发冲突被重复调用
type UpdateFunc func(State) (State, error)

// Store 会话状态存储
// 状态只在会话有效期内保留，过期即丢弃
type Store interface {
	// Load 读取会话状态，不存在时返回 ErrNotFound
	Load(ctx context.Context, id string) (State, error)

	// Save 保存会话状态并刷新有效期
	Save(ctx context.Context, id string, s State) error

	// Update 原子地读取-迁移-保存
	// fn 返回错误时返回当前状态和该错误，会话不存在时返回 ErrNotFound
	Update(ctx context.Context, id string, fn UpdateFunc) (State, error)

	// Delete 删除会话，不存在时不报错
	Delete(ctx context.Context, id string) error
}
