package lstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ValentinKolb/mredis/lib/db/keyspace"
	"github.com/ValentinKolb/mredis/lib/snapshot"
	"github.com/ValentinKolb/mredis/lib/store"
)

func factory() *keyspace.KeySpace {
	return keyspace.New(nil)
}

func newStore(t *testing.T, keysLimit int) (store.IStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.mrdb")
	return NewLocalStore(factory, Options{
		Snapshots: snapshot.NewFileStore(path),
		KeysLimit: keysLimit,
	}), path
}

func retCode(err error) store.RetCode {
	var serr *store.Error
	if errors.As(err, &serr) {
		return serr.Code
	}
	return store.RetCSuccess
}

func TestSetGet(t *testing.T) {
	s, _ := newStore(t, 0)

	if err := s.Set("foo", "bar"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok, err := s.Get("foo"); err != nil || !ok || v != "bar" {
		t.Errorf("Get(foo) = %q, %v, %v", v, ok, err)
	}
	if _, ok, _ := s.Get("ghost"); ok {
		t.Errorf("Get(ghost) should not be found")
	}
}

func TestExpireTTL(t *testing.T) {
	s, _ := newStore(t, 0)
	_ = s.Set("foo", "bar")

	if err := s.Expire("foo", "100"); err != nil {
		t.Fatalf("Expire failed: %v", err)
	}
	if m, ok, _ := s.TTL("foo"); !ok || m != "100" {
		t.Errorf("TTL(foo) = %q, %v", m, ok)
	}

	err := s.Expire("ghost", "100")
	if retCode(err) != store.RetCNotFound {
		t.Fatalf("Expire(ghost) error = %v, want RetCNotFound", err)
	}
	if err.(*store.Error).Msg != "key not exists" {
		t.Errorf("unexpected message %q", err.(*store.Error).Msg)
	}
	if _, ok, _ := s.Get("ghost"); ok {
		t.Errorf("Expire must not create the key")
	}
}

func TestSelect(t *testing.T) {
	s, _ := newStore(t, 0)
	_ = s.Set("k", "db0")

	if err := s.Select(1); err != nil {
		t.Fatalf("Select(1) failed: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Errorf("key of db 0 visible in db 1")
	}

	for _, idx := range []int{-1, keyspace.DefaultDatabases} {
		if err := s.Select(idx); retCode(err) != store.RetCInvalidOperation {
			t.Errorf("Select(%d) error = %v, want RetCInvalidOperation", idx, err)
		}
	}

	info, _ := s.GetInfo()
	if info.Selected != 1 {
		t.Errorf("failed Select changed the current database to %d", info.Selected)
	}
}

func TestKeys(t *testing.T) {
	s, _ := newStore(t, 0)
	for _, k := range []string{"a", "ab", "b"} {
		_ = s.Set(k, "v")
	}

	keys, truncated, err := s.Keys("a*")
	if err != nil || truncated {
		t.Fatalf("Keys(a*) = %v, %v", truncated, err)
	}
	// "a" lives in bucket 1, "ab" in bucket 7
	if !reflect.DeepEqual(keys, []string{"a", "ab"}) {
		t.Errorf("Keys(a*) = %q", keys)
	}

	keys, _, _ = s.Keys("zzz")
	if keys == nil || len(keys) != 0 {
		t.Errorf("Keys without match should be an empty, non-nil slice, got %#v", keys)
	}

	if _, _, err := s.Keys("a("); retCode(err) != store.RetCInvalidOperation {
		t.Errorf("Keys(a() error = %v, want RetCInvalidOperation", err)
	}
}

func TestKeysLimit(t *testing.T) {
	s, _ := newStore(t, 2)
	for _, k := range []string{"a", "b", "c"} {
		_ = s.Set(k, "v")
	}

	keys, truncated, err := s.Keys("*")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || !truncated {
		t.Errorf("Keys(*) = %q, truncated %v; want two keys and truncation", keys, truncated)
	}

	unlimited, _ := newStore(t, -1)
	for i := 0; i < DefaultKeysLimit+10; i++ {
		_ = unlimited.Set(string(rune('A'+i)), "v")
	}
	keys, truncated, _ = unlimited.Keys("*")
	if len(keys) != DefaultKeysLimit+10 || truncated {
		t.Errorf("unlimited Keys returned %d keys, truncated %v", len(keys), truncated)
	}
}

func TestSaveRecover(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t, 0)

	if err := s.Recover(ctx); retCode(err) != store.RetCNotFound {
		t.Fatalf("Recover without snapshot error = %v, want RetCNotFound", err)
	}

	_ = s.Set("foo", "bar")
	_ = s.Select(3)
	_ = s.Set("three", "3")
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	restarted := NewLocalStore(factory, Options{Snapshots: snapshot.NewFileStore(path)})
	if err := restarted.Recover(ctx); err != nil {
		t.Fatalf("Recover failed: %v", err)
	}
	if v, _, _ := restarted.Get("foo"); v != "bar" {
		t.Errorf("Get(foo) = %q after recovery", v)
	}
	_ = restarted.Select(3)
	if v, _, _ := restarted.Get("three"); v != "3" {
		t.Errorf("Get(three) in db 3 = %q after recovery", v)
	}

	info, _ := restarted.GetInfo()
	if info.TotalKeys() != 2 || info.Keys[0] != 1 || info.Keys[3] != 1 {
		t.Errorf("unexpected key counts %v", info.Keys)
	}
}

func TestRecoverCorrupt(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t, 0)
	_ = s.Set("live", "value")

	if err := os.WriteFile(path, []byte("MREDIS0001@0;5:ab"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Recover(ctx); retCode(err) != store.RetCIOError {
		t.Fatalf("Recover of corrupt snapshot error = %v, want RetCIOError", err)
	}
	if v, _, _ := s.Get("live"); v != "value" {
		t.Errorf("failed recovery modified the live keyspace")
	}
}

func TestSnapshotsDisabled(t *testing.T) {
	s := NewLocalStore(factory, Options{})
	if err := s.Save(context.Background()); retCode(err) != store.RetCUnsupportedOperation {
		t.Errorf("Save error = %v, want RetCUnsupportedOperation", err)
	}
	if err := s.Recover(context.Background()); retCode(err) != store.RetCUnsupportedOperation {
		t.Errorf("Recover error = %v, want RetCUnsupportedOperation", err)
	}
}

func TestGetInfo(t *testing.T) {
	s, _ := newStore(t, 0)
	_ = s.Set("foo", "bar")

	info, err := s.GetInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Databases != keyspace.DefaultDatabases || len(info.Tables) != info.Databases {
		t.Errorf("unexpected info %+v", info)
	}
	if info.Tables[0].Entries != 1 || info.Tables[0].Chains.Buckets == 0 {
		t.Errorf("unexpected table info %+v", info.Tables[0])
	}
}
