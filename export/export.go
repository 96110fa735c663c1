// SPDX-License-Identifier: EPL-2.0

// Package export turns the loaded pads into a preset upload.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/padsampler/bank"
	"github.com/ik5/padsampler/formats/wav"
	"github.com/ik5/padsampler/pad"
	"github.com/ik5/padsampler/preset"
)

var (
	// ErrEmptyExport is returned, before any upload, when no pad holds audio.
	ErrEmptyExport = errors.New("nothing to export")
	ErrUpload      = errors.New("upload failed")
)

// FileName is the name a pad's sound is uploaded under.
func FileName(id pad.ID) string {
	return id.String() + ".wav"
}

// Exporter encodes every occupied pad and hands the set to a sink.
type Exporter struct {
	bank *bank.Bank
	sink preset.Sink
	log  *slog.Logger
}

func New(b *bank.Bank, sink preset.Sink, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{bank: b, sink: sink, log: log.With(slog.String("component", "export"))}
}

// Files encodes every occupied pad as canonical 16-bit PCM WAV, in pad
// order. It fails with ErrEmptyExport when the bank is empty.
func (e *Exporter) Files(ctx context.Context) ([]preset.File, error) {
	entries := e.bank.Snapshot()
	if len(entries) == 0 {
		return nil, ErrEmptyExport
	}

	files := make([]preset.File, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			files[i] = preset.File{
				Pad:      entry.Pad,
				Name:     entry.Pad.String(),
				FileName: FileName(entry.Pad),
				Data:     wav.Encode(entry.Buffer),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return files, nil
}

// Export uploads the occupied pads as a new preset. An empty category is
// replaced with preset.DefaultCategory. Sink failures, and a nil sink,
// wrap ErrUpload.
func (e *Exporter) Export(ctx context.Context, name, category string) (preset.Preset, error) {
	files, err := e.Files(ctx)
	if err != nil {
		return preset.Preset{}, err
	}
	if category == "" {
		category = preset.DefaultCategory
	}
	if e.sink == nil {
		return preset.Preset{}, fmt.Errorf("%w: no preset sink configured", ErrUpload)
	}

	e.log.Info("exporting preset",
		slog.String("name", name),
		slog.String("category", category),
		slog.Int("files", len(files)),
	)

	p, err := e.sink.Upload(ctx, name, category, files)
	if err != nil {
		e.log.Error("export failed", slog.String("name", name), slog.Any("error", err))
		return preset.Preset{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	e.log.Info("preset exported", slog.String("id", p.ID), slog.String("name", p.Name))

	return p, nil
}
