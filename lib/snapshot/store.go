package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/ValentinKolb/mredis/lib/db/keyspace"
)

// ErrNoSnapshot is returned by Store.Open when no snapshot has been written yet
var ErrNoSnapshot = errors.New("snapshot: no snapshot found")

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Store is a location a snapshot is written to and recovered from.
type Store interface {
	// Open returns a reader for the latest snapshot or ErrNoSnapshot.
	Open(ctx context.Context) (io.ReadCloser, error)
	// Create returns a writer replacing the snapshot wholesale once it is closed
	// without error. The previous snapshot stays intact if writing fails.
	Create(ctx context.Context) (io.WriteCloser, error)
	// String describes the location for logs
	String() string
}

// NewStore picks the backend from the location: gs://bucket/object selects
// Google Cloud Storage, everything else is a local file path.
func NewStore(ctx context.Context, location string) (Store, error) {
	if strings.HasPrefix(location, gcsScheme) {
		return NewGCSStore(ctx, location)
	}
	if location == "" {
		return nil, errors.New("snapshot: empty location")
	}
	return NewFileStore(location), nil
}

// Save encodes ks into store, replacing the previous snapshot
func Save(ctx context.Context, store Store, ks *keyspace.KeySpace) error {
	w, err := store.Create(ctx)
	if err != nil {
		return err
	}
	if err := Encode(w, ks); err != nil {
		_ = abort(w)
		return err
	}
	return w.Close()
}

// Load decodes the latest snapshot of store into ks.
// ErrNoSnapshot is returned unchanged if nothing was saved yet.
func Load(ctx context.Context, store Store, ks *keyspace.KeySpace) error {
	r, err := store.Open(ctx)
	if err != nil {
		return err
	}
	defer r.Close()
	return Decode(r, ks)
}

// abort discards a pending write if the writer supports it
func abort(w io.WriteCloser) error {
	if a, ok := w.(interface{ Abort() error }); ok {
		return a.Abort()
	}
	return w.Close()
}

// --------------------------------------------------------------------------
// File Store
// --------------------------------------------------------------------------

// FileStore keeps the snapshot in a single local file
type FileStore struct {
	path string
}

// NewFileStore creates a store for the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	return f, err
}

func (s *FileStore) Create(_ context.Context) (io.WriteCloser, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &fileWriter{File: tmp, target: s.path}, nil
}

func (s *FileStore) String() string {
	return s.path
}

// fileWriter writes to a temp file that is renamed over the target on Close
type fileWriter struct {
	*os.File
	target string
}

func (w *fileWriter) Close() error {
	if err := w.File.Sync(); err != nil {
		_ = w.Abort()
		return err
	}
	if err := w.File.Close(); err != nil {
		_ = os.Remove(w.File.Name())
		return err
	}
	return os.Rename(w.File.Name(), w.target)
}

// Abort removes the temp file and leaves the target untouched
func (w *fileWriter) Abort() error {
	_ = w.File.Close()
	return os.Remove(w.File.Name())
}

// --------------------------------------------------------------------------
// Google Cloud Storage Store
// --------------------------------------------------------------------------

const gcsScheme = "gs://"

// GCSStore keeps the snapshot in a Google Cloud Storage object
type GCSStore struct {
	client *storage.Client
	bucket string
	object string
}

// NewGCSStore creates a store for a gs://bucket/object location.
// Credentials are resolved the usual way (GOOGLE_APPLICATION_CREDENTIALS, metadata server, ...).
func NewGCSStore(ctx context.Context, location string) (*GCSStore, error) {
	bucket, object, ok := strings.Cut(strings.TrimPrefix(location, gcsScheme), "/")
	if !ok || bucket == "" || object == "" {
		return nil, fmt.Errorf("snapshot: invalid gcs location %q (expected gs://bucket/object)", location)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: gcs client: %w", err)
	}

	return &GCSStore{
		client: client,
		bucket: bucket,
		object: object,
	}, nil
}

func (s *GCSStore) Open(ctx context.Context) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(s.bucket).Object(s.object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNoSnapshot
	}
	return rc, err
}

func (s *GCSStore) Create(ctx context.Context) (io.WriteCloser, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := s.client.Bucket(s.bucket).Object(s.object).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	return &gcsWriter{Writer: w, cancel: cancel}, nil
}

func (s *GCSStore) String() string {
	return gcsScheme + s.bucket + "/" + s.object
}

// Close releases the underlying client
func (s *GCSStore) Close() error {
	return s.client.Close()
}

// gcsWriter commits the object on Close. Cancelling the context before Close
// discards the upload and keeps the previous object.
type gcsWriter struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *gcsWriter) Close() error {
	defer w.cancel()
	return w.Writer.Close()
}

func (w *gcsWriter) Abort() error {
	w.cancel()
	_ = w.Writer.Close()
	return nil
}
