package mocks

import (
	"context"
	"sync"

	"github.com/dep2p/go-regform/pkg/interfaces"
)

// MockRegistrationStore 模拟 RegistrationStore 接口实现
//
// 默认行为是进程内 map 存储。
type MockRegistrationStore struct {
	mu      sync.Mutex
	records map[string]*interfaces.Registration

	// 可覆盖的方法
	PutFunc   func(ctx context.Context, r *interfaces.Registration) error
	GetFunc   func(ctx context.Context, id string) (*interfaces.Registration, error)
	CountFunc func(ctx context.Context) (int64, error)

	// 调用记录
	PutCalls []*interfaces.Registration
	GetCalls []string
}

var _ interfaces.RegistrationStore = (*MockRegistrationStore)(nil)

// NewMockRegistrationStore 创建空的 MockRegistrationStore
func NewMockRegistrationStore() *MockRegistrationStore {
	return &MockRegistrationStore{
		records: make(map[string]*interfaces.Registration),
	}
}

// Put 保存记录
func (m *MockRegistrationStore) Put(ctx context.Context, r *interfaces.Registration) error {
	m.mu.Lock()
	m.PutCalls = append(m.PutCalls, r)
	m.mu.Unlock()

	if m.PutFunc != nil {
		return m.PutFunc(ctx, r)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = make(map[string]*interfaces.Registration)
	}
	cp := *r
	m.records[r.ID] = &cp
	return nil
}

// Get 读取记录
func (m *MockRegistrationStore) Get(ctx context.Context, id string) (*interfaces.Registration, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, id)
	m.mu.Unlock()

	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, interfaces.ErrRegistrationNotFound
	}
	cp := *r
	return &cp, nil
}

// Count 返回记录数
func (m *MockRegistrationStore) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)), nil
}
