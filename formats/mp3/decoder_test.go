// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/padsampler/audio"
)

// mockMP3Reader simulates the gomp3.Decoder for testing
type mockMP3Reader struct {
	sampleRate   int
	samples      []int16
	offset       int
	returnErrors bool
}

func (m *mockMP3Reader) SampleRate() int {
	return m.sampleRate
}

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}

	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	count := min(len(buf)/2, len(m.samples)-m.offset)
	for i := range count {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(m.samples[m.offset+i]))
	}
	m.offset += count

	if m.offset >= len(m.samples) {
		return count * 2, io.EOF
	}

	return count * 2, nil
}

func TestDecoder_Sniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header []byte
		want   bool
	}{
		{"id3", []byte("ID3\x04\x00"), true},
		{"mpeg1 layer3", []byte{0xFF, 0xFB, 0x90, 0x00}, true},
		{"mpeg2 layer3", []byte{0xFF, 0xF3, 0x90, 0x00}, true},
		{"adts aac", []byte{0xFF, 0xF1, 0x50, 0x80}, false},
		{"wav", []byte("RIFF"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		if got := (Decoder{}).Sniff(tt.header); got != tt.want {
			t.Errorf("Sniff(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{[]byte("This is not MP3 data"), {}} {
		_, err := Decoder{}.Decode(bytes.NewReader(data))
		if !errors.Is(err, ErrNotMP3File) {
			t.Errorf("Decode(%q) error = %v, want ErrNotMP3File", data, err)
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := &source{
		dec:        &mockMP3Reader{sampleRate: 44100, samples: []int16{0, 16384, -16384, -32768, 32767, 0}},
		sampleRate: 44100,
	}

	if src.Channels() != 2 || src.SampleRate() != 44100 {
		t.Fatalf("format = %d ch %d Hz", src.Channels(), src.SampleRate())
	}

	dst := make([]float32, 6)
	n, err := src.ReadSamples(dst)
	if n != 6 || (err != nil && err != io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v", n, err)
	}

	want := []float32{0, 16384.0 / 32767, -0.5, -1, 1, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestSource_ReadSamples_DrainsToEOF(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 1000)
	src := &source{dec: &mockMP3Reader{sampleRate: 22050, samples: samples}, sampleRate: 22050}

	buf, err := audio.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if buf.Frames() != 500 || buf.Channels() != 2 {
		t.Errorf("ReadAll() = %d frames %d ch, want 500 frames 2 ch", buf.Frames(), buf.Channels())
	}
}

func TestSource_ReadSamples_Errors(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockMP3Reader{returnErrors: true}}

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v; want 0, nil", n, err)
	}
	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(odd) error = %v, want ErrInvalidDstSize", err)
	}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int16, 44100*2)
	dst := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src := &source{dec: &mockMP3Reader{sampleRate: 44100, samples: samples}}
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
