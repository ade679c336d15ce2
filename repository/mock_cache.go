package repository

import (
	"context"
	"errors"
	"sync"
	"time"
)

type MockCache struct {
	mu        sync.Mutex
	Data      map[string]string
	SetCalls  int
	FailOnSet bool
}

func NewMockCache() *MockCache {
	return &MockCache{
		Data: make(map[string]string),
	}
}

func (m *MockCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.FailOnSet {
		return errors.New("cache unavailable")
	}
	m.Data[key] = value
	return nil
}
