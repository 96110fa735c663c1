// SPDX-License-Identifier: EPL-2.0

package params

import (
	"sync"

	"github.com/ik5/padsampler/pad"
)

// Store holds the parameters of every pad. Reads of an untouched pad return
// Default. It never fails: unknown pads and fields are ignored.
type Store struct {
	mu       sync.RWMutex
	set      [pad.Count]bool
	vals     [pad.Count]Params
	onChange func(pad.ID, Params)
}

func NewStore() *Store {
	return &Store{}
}

// OnChange registers fn to be called after every stored change, outside
// the store lock. Only one callback is kept.
func (s *Store) OnChange(fn func(pad.ID, Params)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onChange = fn
}

func (s *Store) Get(id pad.ID) Params {
	if !id.Valid() {
		return Default()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set[id.Index()] {
		return Default()
	}
	return s.vals[id.Index()]
}

// Set stores field f of pad id and returns the resulting parameters.
func (s *Store) Set(id pad.ID, f Field, v float64) Params {
	if !id.Valid() {
		return Default()
	}

	s.mu.Lock()
	i := id.Index()
	cur := s.vals[i]
	if !s.set[i] {
		cur = Default()
	}
	next := cur.With(f, v)
	s.vals[i] = next
	s.set[i] = true
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil && next != cur {
		fn(id, next)
	}

	return next
}

// Reset returns every pad to Default and notifies for the pads that
// had been changed.
func (s *Store) Reset() {
	s.mu.Lock()
	var changed []pad.ID
	for i, set := range s.set {
		if set && s.vals[i] != Default() {
			id, _ := pad.FromIndex(i)
			changed = append(changed, id)
		}
	}
	s.set = [pad.Count]bool{}
	s.vals = [pad.Count]Params{}
	fn := s.onChange
	s.mu.Unlock()

	if fn == nil {
		return
	}
	for _, id := range changed {
		fn(id, Default())
	}
}
