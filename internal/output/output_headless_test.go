// SPDX-License-Identifier: EPL-2.0

//go:build headless

package output

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingReader struct {
	bytes atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.bytes.Add(int64(len(p)))
	return len(p), nil
}

func TestHeadless_ConsumesStream(t *testing.T) {
	t.Parallel()

	d, err := Open(8000)
	if err != nil {
		t.Fatal(err)
	}

	var r countingReader
	if err := d.Play(&r); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for r.bytes.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if r.bytes.Load() == 0 {
		t.Fatal("stream was never read")
	}

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	after := r.bytes.Load()
	time.Sleep(3 * tick)
	if r.bytes.Load() != after {
		t.Error("stream read after Close()")
	}

	if err := d.Play(&r); !errors.Is(err, ErrClosed) {
		t.Errorf("Play() after Close() error = %v, want ErrClosed", err)
	}
}
