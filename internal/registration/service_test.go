package registration

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"golang.org/x/crypto/bcrypt"

	"github.com/dep2p/go-regform/config"
	"github.com/dep2p/go-regform/internal/core/storage"
	"github.com/dep2p/go-regform/internal/core/storage/engine"
	"github.com/dep2p/go-regform/internal/core/storage/engine/badger"
	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
	"github.com/dep2p/go-regform/tests/mocks"
)

// testEngine 创建测试用存储引擎
func testEngine(t *testing.T) *badger.Engine {
	t.Helper()

	eng, err := badger.New(engine.DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

// ============================================================================
// Service 测试
// ============================================================================

// TestService_Validate 测试以第一个提交字段为准
func TestService_Validate(t *testing.T) {
	svc := NewService(mocks.NewMockRegistrationStore())

	res := svc.Validate(Params{{"name", "A"}, {"age", "x"}})
	assert.False(t, res.Valid)
	assert.Equal(t, "name", res.Field)
	assert.Equal(t, []string{MsgTooShort(MinLength)}, res.Errors)
	assert.Equal(t, []string{MsgNotANumber}, res.Fields["age"])
	assert.Equal(t, []string{"name", "age"}, res.Submitted)

	res = svc.Validate(Params{{"age", "36"}, {"name", ""}})
	assert.True(t, res.Valid)
	assert.Equal(t, []string{}, res.Errors)

	// 第一个字段未被允许时没有错误
	res = svc.Validate(Params{{"admin", "1"}, {"name", ""}})
	assert.True(t, res.Valid)
}

// TestService_Create 测试创建记录
func TestService_Create(t *testing.T) {
	store := mocks.NewMockRegistrationStore()
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	svc := NewService(store,
		WithBcryptCost(bcrypt.MinCost),
		WithClock(mock),
		WithIDGenerator(func() string { return "fixed-id" }),
	)

	params := append(validParams(), Param{"admin", "true"})
	rec, errs, err := svc.Create(context.Background(), params)
	require.NoError(t, err)
	assert.Nil(t, errs)

	assert.Equal(t, "fixed-id", rec.ID)
	assert.Equal(t, "Ada", rec.Name)
	assert.Equal(t, 36, rec.Age)
	assert.Equal(t, mock.Now().UTC(), rec.CreatedAt)
	assert.NoError(t, bcrypt.CompareHashAndPassword(rec.PasswordDigest, []byte("analytical")))

	require.Len(t, store.PutCalls, 1)
	got, err := svc.Get(context.Background(), "fixed-id")
	require.NoError(t, err)
	assert.Equal(t, rec.Email, got.Email)
}

// TestService_CreateInvalid 测试校验失败不保存
func TestService_CreateInvalid(t *testing.T) {
	store := mocks.NewMockRegistrationStore()
	svc := NewService(store)

	rec, errs, err := svc.Create(context.Background(), Params{{"name", "A"}})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Nil(t, rec)
	assert.Equal(t, []string{MsgTooShort(MinLength)}, errs.On("name"))
	assert.Empty(t, store.PutCalls)
}

// TestService_CreateStoreError 测试存储失败
func TestService_CreateStoreError(t *testing.T) {
	boom := errors.New("disk full")
	store := &mocks.MockRegistrationStore{
		PutFunc: func(context.Context, *pkgif.Registration) error { return boom },
	}
	svc := NewService(store, WithBcryptCost(bcrypt.MinCost))

	_, _, err := svc.Create(context.Background(), validParams())
	assert.ErrorIs(t, err, boom)
}

// TestService_CreateWithoutPassword 测试无密码时不生成摘要
func TestService_CreateWithoutPassword(t *testing.T) {
	svc := NewService(mocks.NewMockRegistrationStore())

	rec, _, err := svc.Create(context.Background(), validParams()[:5])
	require.NoError(t, err)
	assert.Empty(t, rec.PasswordDigest)
	_, err = uuid.Parse(rec.ID)
	assert.NoError(t, err)
}

// ============================================================================
// KVStore 测试
// ============================================================================

// TestKVStore_PutGet 测试持久化与缓存
func TestKVStore_PutGet(t *testing.T) {
	eng := testEngine(t)
	store, err := NewKVStore(eng, 2)
	require.NoError(t, err)
	ctx := context.Background()

	rec := &pkgif.Registration{ID: "a", Name: "Ada", Age: 36}
	require.NoError(t, store.Put(ctx, rec))

	// 底层键带 r/ 前缀
	ok, err := eng.Has([]byte("r/a"))
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	// 修改返回值不影响缓存
	got.Name = "changed"
	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.Name)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// TestKVStore_CacheEviction 测试缓存淘汰后从存储读取
func TestKVStore_CacheEviction(t *testing.T) {
	eng := testEngine(t)
	store, err := NewKVStore(eng, 1)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &pkgif.Registration{ID: "a", Name: "Ada"}))
	require.NoError(t, store.Put(ctx, &pkgif.Registration{ID: "b", Name: "Bob"}))
	assert.Equal(t, 1, store.CacheLen())

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
}

// TestKVStore_NotFound 测试记录不存在
func TestKVStore_NotFound(t *testing.T) {
	store, err := NewKVStore(testEngine(t), 4)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, store.Put(context.Background(), &pkgif.Registration{}))
}

// TestNewKVStore_InvalidCache 测试非法缓存容量
func TestNewKVStore_InvalidCache(t *testing.T) {
	_, err := NewKVStore(testEngine(t), 0)
	assert.Error(t, err)
}

// ============================================================================
// Fx 模块测试
// ============================================================================

// TestModule_Wiring 测试模块装配
func TestModule_Wiring(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Storage.InMemory = true
	cfg.Registration.BcryptCost = bcrypt.MinCost

	var svc *Service
	app := fxtest.New(t,
		fx.Supply(cfg),
		storage.Module(),
		Module(),
		fx.Populate(&svc),
	)
	app.RequireStart()
	defer app.RequireStop()

	rec, _, err := svc.Create(context.Background(), validParams())
	require.NoError(t, err)

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := svc.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
}
