// SPDX-License-Identifier: EPL-2.0

// Package bank maps pads to their decoded buffers.
//
// Buffers are never modified once stored; Put and Clear only change which
// buffer a pad points to, so a voice that already holds a buffer keeps
// playing it after the pad is reloaded or cleared.
package bank

import (
	"sync"

	"github.com/ik5/padsampler/audio"
	"github.com/ik5/padsampler/pad"
)

// Entry is one occupied pad.
type Entry struct {
	Pad    pad.ID
	Buffer *audio.Buffer
}

// Bank is safe for concurrent use. Concurrent Puts for the same pad leave
// the last one to complete in place.
type Bank struct {
	mu       sync.RWMutex
	bufs     [pad.Count]*audio.Buffer
	onChange func(pad.ID)
}

func New() *Bank {
	return &Bank{}
}

// OnChange registers fn to be called, outside the lock, for every pad whose
// buffer is replaced or removed.
func (b *Bank) OnChange(fn func(pad.ID)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.onChange = fn
}

// Put stores buf for id, replacing any previous buffer. A nil buf removes
// the entry.
func (b *Bank) Put(id pad.ID, buf *audio.Buffer) {
	if !id.Valid() {
		return
	}

	b.mu.Lock()
	b.bufs[id.Index()] = buf
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(id)
	}
}

func (b *Bank) Get(id pad.ID) (*audio.Buffer, bool) {
	if !id.Valid() {
		return nil, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	buf := b.bufs[id.Index()]
	return buf, buf != nil
}

// Clear empties every pad.
func (b *Bank) Clear() {
	b.mu.Lock()
	var cleared []pad.ID
	for i, buf := range b.bufs {
		if buf != nil {
			id, _ := pad.FromIndex(i)
			cleared = append(cleared, id)
		}
	}
	b.bufs = [pad.Count]*audio.Buffer{}
	fn := b.onChange
	b.mu.Unlock()

	if fn == nil {
		return
	}
	for _, id := range cleared {
		fn(id)
	}
}

// Len is the number of occupied pads.
func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, buf := range b.bufs {
		if buf != nil {
			n++
		}
	}
	return n
}

// Snapshot lists the occupied pads in pad order.
func (b *Bank) Snapshot() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Entry
	for i, buf := range b.bufs {
		if buf != nil {
			id, _ := pad.FromIndex(i)
			out = append(out, Entry{Pad: id, Buffer: buf})
		}
	}
	return out
}
