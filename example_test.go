// SPDX-License-Identifier: EPL-2.0

package padsampler_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/ik5/padsampler"
	"github.com/ik5/padsampler/internal/audiotest"
	"github.com/ik5/padsampler/pad"
	"github.com/ik5/padsampler/params"
	"github.com/ik5/padsampler/preset"
)

// memOpener serves in-memory sounds by locator.
type memOpener map[string][]byte

func (o memOpener) Open(_ context.Context, locator string) (io.ReadCloser, int64, error) {
	data, ok := o[locator]
	if !ok {
		return nil, -1, fs.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

// Example shows a preset load where one of the sounds is missing.
func Example() {
	s := padsampler.New(padsampler.Options{
		Opener: memOpener{
			"kick.wav": audiotest.SineWAV(8000, 8000, 440),
		},
		SampleRate: 8000,
		Logger:     slog.New(slog.DiscardHandler),
	})
	defer s.Close()

	run := s.Load(context.Background(), preset.Preset{
		Name: "drums",
		Sounds: []preset.Sound{
			{Pad: pad.Pad1, Name: "kick", Locator: "kick.wav"},
			{Pad: pad.Pad2, Name: "snare", Locator: "snare.wav"},
		},
	})
	run.Wait()

	for _, id := range []pad.ID{pad.Pad1, pad.Pad2, pad.Pad3} {
		fmt.Println(id, s.LoadState(id).Status)
	}

	fmt.Println(s.Press(pad.Pad1), s.Selected())
	// Output:
	// pad1 loaded
	// pad2 error
	// pad3 idle
	// true pad1
}

func ExampleSampler_SetParam() {
	s := padsampler.New(padsampler.Options{Logger: slog.New(slog.DiscardHandler)})

	s.SetParam(pad.Pad5, params.End, 0.4)
	p := s.SetParam(pad.Pad5, params.Start, 0.6)

	fmt.Printf("start=%.2f end=%.2f\n", p.Start, p.End)
	// Output: start=0.60 end=0.61
}
