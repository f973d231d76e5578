package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/mredis/lib/db/keyspace"
)

func TestFileStoreNoSnapshot(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "dump.mrdb"))
	if _, err := store.Open(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Open on a missing file returned %v, want ErrNoSnapshot", err)
	}
	if err := Load(context.Background(), store, keyspace.New(nil)); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load on a missing file returned %v, want ErrNoSnapshot", err)
	}
}

func TestFileStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dump.mrdb")
	store := NewFileStore(path)

	src := keyspace.New(nil)
	src.Set("foo", "bar")
	if err := Save(ctx, store, src); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	dst := keyspace.New(nil)
	if err := Load(ctx, store, dst); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := dst.Get("foo"); v != "bar" {
		t.Errorf("Get(foo) = %q after Load, want bar", v)
	}

	// a second save replaces the file wholesale
	src.Clear()
	src.Set("only", "this")
	if err := Save(ctx, store, src); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if string(data) != "MREDIS0001@0;4:only4:this" {
		t.Errorf("snapshot file = %q", data)
	}

	// no temp files are left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the snapshot file, found %d entries", len(entries))
	}
}

func TestFileStoreCreateFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// the parent of the snapshot is a regular file
	store := NewFileStore(filepath.Join(blocker, "dump.mrdb"))
	if err := Save(context.Background(), store, keyspace.New(nil)); err == nil {
		t.Errorf("Save below a regular file should fail")
	}
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	s, err := NewStore(ctx, "data/dump.mrdb")
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, ok := s.(*FileStore); !ok || s.String() != "data/dump.mrdb" {
		t.Errorf("NewStore(path) = %T %s", s, s)
	}

	if _, err := NewStore(ctx, ""); err == nil {
		t.Errorf("empty location should fail")
	}

	for _, bad := range []string{"gs://", "gs://bucket", "gs://bucket/", "gs:///object"} {
		if _, err := NewGCSStore(ctx, bad); err == nil || !strings.Contains(err.Error(), "invalid gcs location") {
			t.Errorf("NewGCSStore(%q) error = %v, want invalid location", bad, err)
		}
	}
}
