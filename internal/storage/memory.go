package storage

import (
	"context"
	"sync"
)

// MemoryStore 是进程内后端，测试与 `memory` 模式使用。Put 仅用于播种，
// 网关路径上不会调用。
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemory 构建空的内存后端。
func NewMemory() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

// Put 写入或覆盖一个对象。
func (s *MemoryStore) Put(key string, body []byte, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{
		Key:         key,
		Body:        append([]byte(nil), body...),
		ContentType: contentType,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Object, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	body := append([]byte(nil), obj.Body...)
	return &Object{Key: obj.Key, Body: body, ContentType: obj.ContentType}, nil
}
