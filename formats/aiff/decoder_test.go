// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/padsampler/audio"
)

// mockAiffReader simulates the aiff.Decoder for testing
type mockAiffReader struct {
	sampleRate   int
	channels     int
	samples      []int
	offset       int
	returnErrors bool
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{
		SampleRate:  m.sampleRate,
		NumChannels: m.channels,
	}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}

	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n

	return n, nil
}

func newSource(channels int, scale float32, samples []int) *source {
	return &source{
		dec:        &mockAiffReader{sampleRate: 44100, channels: channels, samples: samples},
		sampleRate: 44100,
		channels:   channels,
		scale:      scale,
	}
}

func TestDecoder_Sniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   bool
	}{
		{"FORM\x00\x00\x00\x2eAIFFCOMM", true},
		{"FORM\x00\x00\x00\x2eAIFCFVER", true},
		{"FORM\x00\x00\x00\x2e8SVX", false},
		{"RIFF\x00\x00\x00\x00WAVE", false},
		{"FORM", false},
	}

	for _, tt := range tests {
		if got := (Decoder{}).Sniff([]byte(tt.header)); got != tt.want {
			t.Errorf("Sniff(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{[]byte("This is not AIFF data"), {}} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) error = nil, want error", data)
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := newSource(2, 32768, []int{0, 16384, -16384, -32768})

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	if n != 4 {
		t.Fatalf("ReadSamples() n = %d, want 4", n)
	}
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	want := []float32{0, 0.5, -0.5, -1}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = %d, %v; want 0, EOF", n, err)
	}
}

func TestSource_ReadSamples_ShortReadIsEOF(t *testing.T) {
	t.Parallel()

	src := newSource(1, 32768, []int{1, 2, 3})

	n, err := src.ReadSamples(make([]float32, 8))
	if n != 3 || err != io.EOF {
		t.Errorf("ReadSamples() = %d, %v; want 3, EOF", n, err)
	}
}

func TestSource_ReadSamples_InvalidDst(t *testing.T) {
	t.Parallel()

	src := newSource(2, 32768, []int{1, 2})

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v; want 0, nil", n, err)
	}
	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(odd) error = %v, want ErrInvalidDstSize", err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := &source{
		dec:      &mockAiffReader{returnErrors: true},
		channels: 1,
		scale:    32768,
	}

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestFullScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits   int
		want   float32
		wantOK bool
	}{
		{8, 128, true},
		{16, 32768, true},
		{24, 8388608, true},
		{32, 2147483648, true},
		{12, 0, false},
	}

	for _, tt := range tests {
		got, ok := fullScale(tt.bits)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("fullScale(%d) = %v, %v; want %v, %v", tt.bits, got, ok, tt.want, tt.wantOK)
		}
	}
}
