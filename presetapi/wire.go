// SPDX-License-Identifier: EPL-2.0

package presetapi

import (
	"net/url"

	"github.com/ik5/padsampler/pad"
	"github.com/ik5/padsampler/preset"
)

type wireSound struct {
	PadID    string `json:"padId"`
	Name     string `json:"name,omitempty"`
	Path     string `json:"path,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

type wirePreset struct {
	ID       string      `json:"_id"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Sounds   []wireSound `json:"sounds,omitempty"`
}

// uploadData is the "data" field of an upload.
type uploadData struct {
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Sounds   []wireSound `json:"sounds"`
}

func (w wirePreset) summary() preset.Summary {
	return preset.Summary{ID: w.ID, Name: w.Name, Category: w.Category}
}

// preset converts w, resolving sound paths against base. Sounds with an
// unknown pad or no path are returned in skipped.
func (w wirePreset) preset(base *url.URL) (p preset.Preset, skipped []wireSound) {
	p = preset.Preset{ID: w.ID, Name: w.Name, Category: w.Category}

	for _, s := range w.Sounds {
		id, err := pad.Parse(s.PadID)
		if err != nil || s.Path == "" {
			skipped = append(skipped, s)
			continue
		}

		ref, err := url.Parse(s.Path)
		if err != nil {
			skipped = append(skipped, s)
			continue
		}

		name := s.Name
		if name == "" {
			name = s.PadID
		}
		p.Sounds = append(p.Sounds, preset.Sound{
			Pad:     id,
			Name:    name,
			Locator: base.ResolveReference(ref).String(),
		})
	}

	return p, skipped
}
