// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/padsampler/audio"
	"github.com/ik5/padsampler/formats/wav"
)

// Example_roundTrip encodes a stereo buffer and decodes it back.
func Example_roundTrip() {
	buf, err := audio.NewBuffer(8000, [][]float32{
		{-1, -0.5, 0, 0.5, 1},
		{1, 0.5, 0, -0.5, -1},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	data := wav.Encode(buf)
	fmt.Printf("Wrote %d bytes (%d header + %d data)\n", len(data), wav.HeaderSize, wav.DataSize(buf))

	src, err := wav.Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer src.Close()

	back, err := audio.ReadAll(src)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d Hz, %d channels, %d frames\n", back.SampleRate(), back.Channels(), back.Frames())
	for _, v := range back.Channel(0) {
		fmt.Printf("%+.3f ", v)
	}
	fmt.Println()
	// Output:
	// Wrote 64 bytes (44 header + 20 data)
	// 8000 Hz, 2 channels, 5 frames
	// -1.000 -0.500 +0.000 +0.500 +1.000
}

// ExampleDecoder_Sniff shows format detection from the first bytes.
func ExampleDecoder_Sniff() {
	fmt.Println(wav.Decoder{}.Sniff([]byte("RIFF\x00\x00\x00\x00WAVE")))
	fmt.Println(wav.Decoder{}.Sniff([]byte("OggS")))
	// Output:
	// true
	// false
}
