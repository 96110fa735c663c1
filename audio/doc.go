// SPDX-License-Identifier: EPL-2.0

// Package audio provides the in-memory sound representation and the
// streaming primitives the sampler is built on.
//
// # Buffers
//
// A Buffer is a decoded sound: a sample rate plus one float32 slice per
// channel, every slice holding the same number of frames. Buffers are never
// mutated after construction. Replacing the sound on a pad swaps the Buffer
// pointer; voices that already hold the old one keep playing it.
//
//	buf, _ := audio.NewBuffer(44100, [][]float32{left, right})
//	fmt.Println(buf.Frames(), buf.Seconds())
//
// Buffer.Source exposes any frame range as an interleaved Source, and
// ReadAll collects a Source back into a Buffer.
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// Decoders, Buffer slices, the Resampler and the MonoMixer all implement it
// and can be chained.
//
// # Format Registry
//
// The Registry maps format keys to decoders. Decoders that implement Sniffer
// take part in content detection, which is how raw bytes of unknown origin
// are decoded:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	registry.Register("mp3", mp3.Decoder{})
//	buf, err := registry.DecodeBytes(data)
//
// # Resampling and Mixing
//
// NewResampler converts the sample rate with cubic interpolation; it is used
// to bring a pad's buffer to the output device rate. NewMonoMixer averages
// channels, and Peaks uses it to reduce a Buffer to waveform columns.
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0]. ReadSamples returns io.EOF once a
// stream is exhausted:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // use buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
