package kv

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-regform/internal/core/storage/engine"
	"github.com/dep2p/go-regform/internal/core/storage/engine/badger"
)

// testEngine 创建测试用引擎
// 使用 t.TempDir() 创建临时目录，确保测试与生产一致
func testEngine(t *testing.T) *badger.Engine {
	t.Helper()

	eng, err := badger.New(engine.DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	t.Cleanup(func() {
		if err := eng.Close(); err != nil {
			t.Errorf("failed to close engine: %v", err)
		}
	})

	return eng
}

// testStore 创建测试用 KVStore
func testStore(t *testing.T, prefix string) *Store {
	t.Helper()
	return New(testEngine(t), []byte(prefix))
}

// ============= 基础操作测试 =============

func TestStore_PutGet(t *testing.T) {
	s := testStore(t, "test/")

	key := []byte("key1")
	value := []byte("value1")

	if err := s.Put(key, value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if !bytes.Equal(got, value) {
		t.Errorf("Get returned %q, want %q", got, value)
	}
}

func TestStore_DeleteHas(t *testing.T) {
	s := testStore(t, "test/")

	require.NoError(t, s.Put([]byte("k"), []byte("v")))

	ok, err := s.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete([]byte("k")))

	ok, err = s.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Get([]byte("k"))
	assert.True(t, engine.IsNotFound(err))
}

func TestStore_PrefixIsolation(t *testing.T) {
	eng := testEngine(t)

	store1 := New(eng, []byte("prefix1/"))
	store2 := New(eng, []byte("prefix2/"))

	key := []byte("shared-key")
	require.NoError(t, store1.Put(key, []byte("one")))
	require.NoError(t, store2.Put(key, []byte("two")))

	got1, err := store1.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got1)

	got2, err := store2.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got2)

	// 底层键带有前缀
	raw, err := eng.Get([]byte("prefix1/shared-key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), raw)
}

func TestStore_PrefixCopied(t *testing.T) {
	prefix := []byte("a/")
	s := New(testEngine(t), prefix)
	prefix[0] = 'z'

	assert.Equal(t, []byte("a/"), s.Prefix())
}

// ============= JSON 便捷方法测试 =============

type testData struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestStore_JSON(t *testing.T) {
	s := testStore(t, "json/")

	in := testData{Name: "ada", Value: 36}
	require.NoError(t, s.PutJSON([]byte("k"), in))

	var out testData
	require.NoError(t, s.GetJSON([]byte("k"), &out))
	assert.Equal(t, in, out)
}

func TestStore_JSONDecodeError(t *testing.T) {
	s := testStore(t, "json/")

	require.NoError(t, s.Put([]byte("bad"), []byte("{not json")))

	var out testData
	assert.Error(t, s.GetJSON([]byte("bad"), &out))
}

func TestStore_GetJSONNotFound(t *testing.T) {
	s := testStore(t, "json/")

	var out testData
	err := s.GetJSON([]byte("missing"), &out)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

// ============= 前缀迭代测试 =============

func TestStore_PrefixScan(t *testing.T) {
	eng := testEngine(t)
	s := New(eng, []byte("r/"))

	require.NoError(t, s.Put([]byte("b"), []byte("2")))
	require.NoError(t, s.Put([]byte("a"), []byte("1")))
	require.NoError(t, eng.Put([]byte("x/a"), []byte("other")))

	var keys []string
	require.NoError(t, s.PrefixScan(nil, func(key, _ []byte) bool {
		keys = append(keys, string(key))
		return true
	}))
	assert.Equal(t, []string{"a", "b"}, keys)

	// 回调返回 false 时停止
	keys = nil
	require.NoError(t, s.PrefixScan(nil, func(key, _ []byte) bool {
		keys = append(keys, string(key))
		return false
	}))
	assert.Equal(t, []string{"a"}, keys)
}

func TestStore_KeysCount(t *testing.T) {
	s := testStore(t, "r/")

	for _, k := range []string{"u/1", "u/2", "v/1"} {
		require.NoError(t, s.Put([]byte(k), []byte("x")))
	}

	keys, err := s.Keys([]byte("u/"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("u/1"), []byte("u/2")}, keys)

	n, err := s.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStore_DeletePrefix(t *testing.T) {
	s := testStore(t, "r/")

	for _, k := range []string{"u/1", "u/2", "v/1"} {
		require.NoError(t, s.Put([]byte(k), []byte("x")))
	}

	require.NoError(t, s.DeletePrefix([]byte("u/")))

	n, err := s.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStore_Sub(t *testing.T) {
	s := testStore(t, "r/")
	sub := s.Sub([]byte("u/"))

	require.NoError(t, sub.Put([]byte("1"), []byte("x")))

	got, err := s.Get([]byte("u/1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
	assert.Equal(t, []byte("r/u/"), sub.Prefix())
}
