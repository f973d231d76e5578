package lstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ValentinKolb/mredis/lib/db"
	"github.com/ValentinKolb/mredis/lib/db/keyspace"
	"github.com/ValentinKolb/mredis/lib/db/util"
	"github.com/ValentinKolb/mredis/lib/snapshot"
	"github.com/ValentinKolb/mredis/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

const (
	// DefaultKeysLimit caps the result of Keys
	DefaultKeysLimit = 50
)

// Options configures a local store
type Options struct {
	Snapshots snapshot.Store // Snapshot location (nil = Save and Recover are unsupported)
	KeysLimit int            // Maximum number of keys returned by Keys (0 = DefaultKeysLimit, <0 = unlimited)
}

type storeImpl struct {
	mu        *xsync.RBMutex
	ks        *keyspace.KeySpace
	factory   store.KeySpaceFactory
	snapshots snapshot.Store
	keysLimit int
}

// NewLocalStore creates a new local store instance.
// The keyspace is created by the factory and lives entirely in memory. It is only
// persisted when Save is called.
func NewLocalStore(factory store.KeySpaceFactory, opts Options) store.IStore {
	limit := opts.KeysLimit
	if limit == 0 {
		limit = DefaultKeysLimit
	}
	return &storeImpl{
		mu:        xsync.NewRBMutex(),
		ks:        factory(),
		factory:   factory,
		snapshots: opts.Snapshots,
		keysLimit: limit,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ks.Set(key, value)
	return nil
}

// Get and TTL take the write lock since the expiry hook may evict keys on lookup.

func (s *storeImpl) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.ks.Get(key)
	return val, ok, nil
}

func (s *storeImpl) Expire(key, marker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ks.Expire(key, marker) {
		return store.NewError(store.RetCNotFound, "key not exists")
	}
	return nil
}

func (s *storeImpl) TTL(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	marker, ok := s.ks.TTL(key)
	return marker, ok, nil
}

func (s *storeImpl) Keys(pattern string) ([]string, bool, error) {
	re, err := util.CompileGlob(pattern)
	if err != nil {
		return nil, false, store.NewError(store.RetCInvalidOperation, err.Error())
	}

	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	keys, truncated := s.ks.Current().Keys(re.MatchString, s.keysLimit)
	return keys, truncated, nil
}

func (s *storeImpl) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ks.Select(index); err != nil {
		return store.NewError(store.RetCInvalidOperation, err.Error())
	}
	return nil
}

func (s *storeImpl) Save(ctx context.Context) error {
	if s.snapshots == nil {
		return store.NewError(store.RetCUnsupportedOperation, "snapshots are disabled")
	}

	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	if err := snapshot.Save(ctx, s.snapshots, s.ks); err != nil {
		return store.NewError(store.RetCIOError, err.Error())
	}
	return nil
}

func (s *storeImpl) Recover(ctx context.Context) error {
	if s.snapshots == nil {
		return store.NewError(store.RetCUnsupportedOperation, "snapshots are disabled")
	}

	// decode outside the lock, the live keyspace stays untouched on failure
	fresh := s.factory()
	err := snapshot.Load(ctx, s.snapshots, fresh)
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshot):
		return store.NewError(store.RetCNotFound, fmt.Sprintf("no snapshot at %s", s.snapshots))
	case err != nil:
		return store.NewError(store.RetCIOError, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ks.Replace(fresh); err != nil {
		return store.NewError(store.RetCInternalError, err.Error())
	}
	return nil
}

func (s *storeImpl) ExpireCycle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ks.Hook().ActiveExpireCycle(s.ks)
	return nil
}

func (s *storeImpl) GetInfo() (store.Info, error) {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)

	info := store.Info{
		Databases: s.ks.Len(),
		Selected:  s.ks.CurrentIndex(),
		Keys:      s.ks.Size(),
		Tables:    make([]db.TableInfo, s.ks.Len()),
	}
	for i := range info.Tables {
		d, _ := s.ks.DB(i)
		info.Tables[i] = d.Primary.Info()
	}
	return info, nil
}
