// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)
	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Sniffer is implemented by decoders that can recognize their format from
// the first bytes of a stream.
type Sniffer interface {
	Sniff(header []byte) bool
}

// SniffLen is the number of leading bytes handed to Sniffer implementations.
const SniffLen = 16

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder
	order  []string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

// Register adds or replaces the decoder for format. Detection tries formats
// in the order they were first registered.
func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.codecs[format]; !ok {
		r.order = append(r.order, format)
	}
	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Formats lists the registered format keys in registration order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return append([]string(nil), r.order...)
}

// Detect returns the first registered format whose decoder recognizes header.
func (r *Registry) Detect(header []byte) (string, Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if len(header) > SniffLen {
		header = header[:SniffLen]
	}

	for _, format := range r.order {
		d := r.codecs[format]
		if s, ok := d.(Sniffer); ok && s.Sniff(header) {
			return format, d, true
		}
	}

	return "", nil, false
}

// DecodeBytes detects the format of data and decodes it completely into a
// Buffer. It fails with ErrUnknownFormat when no registered decoder claims
// the data.
func (r *Registry) DecodeBytes(data []byte) (*Buffer, error) {
	format, d, ok := r.Detect(data)
	if !ok {
		return nil, ErrUnknownFormat
	}

	src, err := d.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}
	defer src.Close()

	buf, err := ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}

	return buf, nil
}
