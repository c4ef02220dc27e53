package registration

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-regform/internal/core/storage"
	"github.com/dep2p/go-regform/internal/core/storage/kv"
	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
)

// KeyPrefix 注册记录在存储中的键前缀
var KeyPrefix = []byte("r/")

// KVStore 基于 kv.Store 的注册记录存储，带 LRU 读缓存
type KVStore struct {
	kv    *kv.Store
	cache *lru.Cache[string, pkgif.Registration]
}

var _ pkgif.RegistrationStore = (*KVStore)(nil)

// NewKVStore 创建注册记录存储
func NewKVStore(eng pkgif.Engine, cacheSize int) (*KVStore, error) {
	cache, err := lru.New[string, pkgif.Registration](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("registration: create cache: %w", err)
	}
	return &KVStore{
		kv:    kv.New(eng, KeyPrefix),
		cache: cache,
	}, nil
}

// Put 保存记录
func (s *KVStore) Put(_ context.Context, r *pkgif.Registration) error {
	if r == nil || r.ID == "" {
		return storage.ErrEmptyKey
	}
	if err := s.kv.PutJSON([]byte(r.ID), r); err != nil {
		return fmt.Errorf("registration: save %s: %w", r.ID, err)
	}
	s.cache.Add(r.ID, *r)
	return nil
}

// Get 读取记录
//
// 返回值是副本，调用方修改不会影响缓存。
func (s *KVStore) Get(_ context.Context, id string) (*pkgif.Registration, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	if r, ok := s.cache.Get(id); ok {
		return &r, nil
	}

	var r pkgif.Registration
	if err := s.kv.GetJSON([]byte(id), &r); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("registration: load %s: %w", id, err)
	}
	s.cache.Add(id, r)
	return &r, nil
}

// Count 返回已保存的记录数
func (s *KVStore) Count(_ context.Context) (int64, error) {
	return s.kv.Count(nil)
}

// CacheLen 返回缓存中的记录数
func (s *KVStore) CacheLen() int {
	return s.cache.Len()
}
