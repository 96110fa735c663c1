// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/ik5/padsampler/audio"
)

const (
	// ChunkSize is the read size used while fetching a stream.
	ChunkSize = 32 << 10

	// DecodingProgress is reported once every byte has arrived.
	DecodingProgress = 0.95

	// IndeterminateProgress is reported once for streams of unknown length.
	IndeterminateProgress = 0.5
)

// Decoder turns the complete bytes of a sound into a Buffer.
// *audio.Registry implements it.
type Decoder interface {
	DecodeBytes(data []byte) (*audio.Buffer, error)
}

// Update is one event of a load. The last Update of a sequence carries
// either Buffer or Err; every earlier one only carries Progress.
type Update struct {
	Progress float64
	Buffer   *audio.Buffer
	Err      error
}

// Done reports whether u is the final update of its load.
func (u Update) Done() bool {
	return u.Buffer != nil || u.Err != nil
}

// Loader fetches and decodes single sounds.
type Loader struct {
	opener  Opener
	decoder Decoder
}

func New(opener Opener, decoder Decoder) *Loader {
	return &Loader{opener: opener, decoder: decoder}
}

// Load returns the lazy sequence of updates for locator. Nothing is opened
// until the sequence is ranged over, and stopping the range early closes
// the stream. Progress never decreases; a successful load ends with
// Progress 1. Failures are reported in the final Update, wrapping ErrNetwork
// or ErrDecode together with the cause.
func (l *Loader) Load(ctx context.Context, locator string) iter.Seq[Update] {
	return func(yield func(Update) bool) {
		data, last, stopped, err := l.fetch(ctx, locator, yield)
		if stopped {
			return
		}
		if err != nil {
			yield(Update{Progress: last, Err: fmt.Errorf("%w: %w", ErrNetwork, err)})
			return
		}

		if !yield(Update{Progress: DecodingProgress}) {
			return
		}

		buf, err := l.decoder.DecodeBytes(data)
		if err != nil {
			yield(Update{Progress: DecodingProgress, Err: fmt.Errorf("%w: %w", ErrDecode, err)})
			return
		}

		yield(Update{Progress: 1, Buffer: buf})
	}
}

func (l *Loader) fetch(ctx context.Context, locator string, yield func(Update) bool) (data []byte, last float64, stopped bool, err error) {
	rc, size, err := l.opener.Open(ctx, locator)
	if err != nil {
		return nil, 0, false, err
	}
	defer rc.Close()

	var body bytes.Buffer
	if size > 0 {
		body.Grow(int(size))
	}
	chunk := make([]byte, ChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return nil, last, false, err
		}

		n, err := rc.Read(chunk)
		if n > 0 {
			body.Write(chunk[:n])

			if p := progress(int64(body.Len()), size); p > last && p < DecodingProgress {
				last = p
				if !yield(Update{Progress: p}) {
					return nil, last, true, nil
				}
			}
		}

		if err == io.EOF {
			return body.Bytes(), last, false, nil
		}
		if err != nil {
			return nil, last, false, err
		}
	}
}

func progress(read, size int64) float64 {
	if size <= 0 {
		return IndeterminateProgress
	}
	return min(float64(read)/float64(size), DecodingProgress)
}
