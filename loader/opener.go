// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Opener dereferences a locator into a byte stream. size is the total
// length when known and -1 otherwise.
type Opener interface {
	Open(ctx context.Context, locator string) (rc io.ReadCloser, size int64, err error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, locator string) (io.ReadCloser, int64, error)

func (f OpenerFunc) Open(ctx context.Context, locator string) (io.ReadCloser, int64, error) {
	return f(ctx, locator)
}

// FileOpener reads local files. Relative paths are resolved against Dir,
// and a "file://" prefix is accepted.
type FileOpener struct {
	Dir string
}

func (o FileOpener) Open(ctx context.Context, locator string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, -1, err
	}

	path := strings.TrimPrefix(locator, "file://")
	if !filepath.IsAbs(path) && o.Dir != "" {
		path = filepath.Join(o.Dir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, -1, fmt.Errorf("%w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, -1, fmt.Errorf("%w", err)
	}

	return f, info.Size(), nil
}

// Mux dispatches on the locator scheme ("http", "https", ...). Locators
// without a scheme, and "file" ones, go to the fallback opener.
type Mux struct {
	mu       sync.RWMutex
	schemes  map[string]Opener
	fallback Opener
}

// NewMux returns a Mux whose fallback is fallback. A nil fallback rejects
// locators that have no registered scheme.
func NewMux(fallback Opener) *Mux {
	return &Mux{
		schemes:  make(map[string]Opener),
		fallback: fallback,
	}
}

// Handle registers o for scheme, replacing any previous opener.
func (m *Mux) Handle(scheme string, o Opener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.schemes[strings.ToLower(scheme)] = o
}

func (m *Mux) Open(ctx context.Context, locator string) (io.ReadCloser, int64, error) {
	m.mu.RLock()
	o := m.fallback
	if scheme, _, ok := strings.Cut(locator, "://"); ok && !strings.EqualFold(scheme, "file") {
		o = m.schemes[strings.ToLower(scheme)]
		if o == nil {
			m.mu.RUnlock()
			return nil, -1, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
		}
	}
	m.mu.RUnlock()

	if o == nil {
		return nil, -1, fmt.Errorf("%w: %q", ErrUnsupportedScheme, locator)
	}

	return o.Open(ctx, locator)
}
