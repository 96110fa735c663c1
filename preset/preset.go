// SPDX-License-Identifier: EPL-2.0

// Package preset describes presets and the contracts used to list, fetch
// and upload them. Implementations live in presetapi (HTTP service) and
// presetstore (local directory).
package preset

import (
	"context"
	"slices"

	"github.com/ik5/padsampler/pad"
)

// DefaultCategory is used when an upload names no category.
const DefaultCategory = "other"

// Summary is one entry of a preset listing.
type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Sound binds a pad to a byte stream. Locator is opaque to the sampler and
// is handed to a loader.Opener as is.
type Sound struct {
	Pad     pad.ID `json:"padId"`
	Name    string `json:"name"`
	Locator string `json:"locator"`
}

// Preset is a named, categorized set of sounds.
type Preset struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Sounds   []Sound `json:"sounds"`
}

func (p Preset) Summary() Summary {
	return Summary{ID: p.ID, Name: p.Name, Category: p.Category}
}

// File is one encoded sound of an upload.
type File struct {
	Pad      pad.ID
	Name     string
	FileName string
	Data     []byte
}

// Source is the read contract.
type Source interface {
	List(ctx context.Context) ([]Summary, error)
	Fetch(ctx context.Context, id string) (Preset, error)
}

// Sink is the write contract.
type Sink interface {
	Upload(ctx context.Context, name, category string, files []File) (Preset, error)
}

// Store is a Source that also accepts uploads.
type Store interface {
	Source
	Sink
}

// Categories returns the distinct categories of list, sorted.
func Categories(list []Summary) []string {
	var out []string
	for _, s := range list {
		if s.Category != "" && !slices.Contains(out, s.Category) {
			out = append(out, s.Category)
		}
	}
	slices.Sort(out)
	return out
}

// Filter keeps the presets of category. An empty category keeps all.
func Filter(list []Summary, category string) []Summary {
	if category == "" {
		return list
	}

	var out []Summary
	for _, s := range list {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}
