package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore 进程内会话存储（带容量上限与过期时间的 LRU）
type MemoryStore struct {
	mu  sync.Mutex // 串行化 Update，保证读取-迁移-保存不被打断
	lru *expirable.LRU[string, State]
}

// NewMemoryStore 创建进程内会话存储
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 1024
	}
	return &MemoryStore{
		lru: expirable.NewLRU[string, State](size, nil, ttl),
	}
}

// Load 读取会话状态
func (m *MemoryStore) Load(_ context.Context, id string) (State, error) {
	s, ok := m.lru.Get(id)
	if !ok {
		return State{}, ErrNotFound
	}
	return s, nil
}

// Save 保存会话状态
func (m *MemoryStore) Save(_ context.Context, id string, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Add(id, s)
	return nil
}

// Update 在存储锁内读取-迁移-保存
func (m *MemoryStore) Update(_ context.Context, id string, fn UpdateFunc) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.lru.Get(id)
	if !ok {
		return State{}, ErrNotFound
	}
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	m.lru.Add(id, next)
	return next, nil
}

// Delete 删除会话
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Remove(id)
	return nil
}

// Len 当前会话数
func (m *MemoryStore) Len() int {
	return m.lru.Len()
}
