package store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// FileContext is the local-filesystem Storage Context variant: container is
// a root directory, object is a path under it. Grounded on the reference
// tool's mmap-based cog.Reader file handling, generalized to arbitrary
// range reads of arbitrary named objects rather than one mmap'd GeoTIFF.
type FileContext struct {
	Root string

	mu      sync.RWMutex
	handles map[string]*os.File
}

var _ Context = (*FileContext)(nil)

// NewFileContext creates a FileContext rooted at root.
func NewFileContext(root string) *FileContext {
	return &FileContext{Root: root, handles: map[string]*os.File{}}
}

func (f *FileContext) Open(ctx context.Context) error {
	info, err := os.Stat(f.Root)
	if err != nil {
		return &Error{Kind: KindNotFound, Object: f.Root, Wrapped: err}
	}
	if !info.IsDir() {
		return &Error{Kind: KindMalformed, Object: f.Root, Wrapped: errors.New("root is not a directory")}
	}
	return nil
}

func (f *FileContext) handle(object string) (*os.File, error) {
	f.mu.RLock()
	h, ok := f.handles[object]
	f.mu.RUnlock()
	if ok {
		return h, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if h, ok := f.handles[object]; ok {
		return h, nil
	}

	path := filepath.Join(f.Root, filepath.FromSlash(object))
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Kind: KindNotFound, Object: object, Wrapped: err}
		}
		if os.IsPermission(err) {
			return nil, &Error{Kind: KindAuthorization, Object: object, Wrapped: err}
		}
		return nil, &Error{Kind: KindTransport, Object: object, Wrapped: err}
	}
	f.handles[object] = fh
	return fh, nil
}

// ReadRange reads length bytes at offset from object under Root. Safe for
// concurrent use: os.File.ReadAt does not move a shared file offset, so
// handles may be shared across goroutines without a lock on the read path.
func (f *FileContext) ReadRange(ctx context.Context, object string, offset, length int64) ([]byte, error) {
	h, err := f.handle(object)
	if err != nil {
		return nil, err
	}

	if length < 0 {
		info, err := h.Stat()
		if err != nil {
			return nil, &Error{Kind: KindTransport, Object: object, Wrapped: err}
		}
		length = info.Size() - offset
	}

	buf := make([]byte, length)
	n, err := h.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, &Error{Kind: KindTransport, Object: object, Wrapped: err}
	}
	return buf[:n], nil
}

func (f *FileContext) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var firstErr error
	for name, h := range f.handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(f.handles, name)
	}
	return firstErr
}
