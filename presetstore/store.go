// SPDX-License-Identifier: EPL-2.0

// Package presetstore keeps presets in a local directory, one
// subdirectory per preset:
//
//	<root>/<id>/preset.json
//	<root>/<id>/pad1.wav
//	...
//
// It implements the same contracts as the HTTP service, so the sampler can
// run offline.
package presetstore

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/padsampler/pad"
	"github.com/ik5/padsampler/preset"
)

const manifestName = "preset.json"

var (
	ErrNotFound  = errors.New("preset not found")
	ErrInvalidID = errors.New("invalid preset id")
	ErrNoSounds  = errors.New("preset has no sounds")
)

type manifest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	CreatedAt time.Time       `json:"createdAt"`
	Sounds    []manifestSound `json:"sounds"`
}

type manifestSound struct {
	Pad  pad.ID `json:"padId"`
	Name string `json:"name"`
	File string `json:"file"`
}

// Store is safe for concurrent use within one process.
type Store struct {
	root string
	log  *slog.Logger
	now  func() time.Time

	mu sync.Mutex
}

// Open returns a Store rooted at dir, creating it if needed.
func Open(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preset dir: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Store{
		root: dir,
		log:  log.With(slog.String("component", "presetstore")),
		now:  time.Now,
	}, nil
}

func (s *Store) Root() string { return s.root }

func (s *Store) dir(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || id == "." || id == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.root, id), nil
}

func (s *Store) read(id string) (manifest, error) {
	dir, err := s.dir(id)
	if err != nil {
		return manifest{}, err
	}

	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return manifest{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return manifest{}, fmt.Errorf("%w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return manifest{}, fmt.Errorf("parse %s: %w", manifestName, err)
	}
	m.ID = id
	return m, nil
}

// write replaces the manifest of m.ID through a rename.
func (s *Store) write(m manifest) error {
	dir, err := s.dir(m.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	tmp := filepath.Join(dir, manifestName+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, manifestName)); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// List returns every preset, newest first. Unreadable entries are skipped.
func (s *Store) List(ctx context.Context) ([]preset.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	var ms []manifest
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.IsDir() {
			continue
		}

		m, err := s.read(e.Name())
		if err != nil {
			s.log.Debug("skipping preset directory", slog.String("dir", e.Name()), slog.Any("error", err))
			continue
		}
		ms = append(ms, m)
	}

	slices.SortFunc(ms, func(a, b manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	out := make([]preset.Summary, len(ms))
	for i, m := range ms {
		out[i] = preset.Summary{ID: m.ID, Name: m.Name, Category: m.Category}
	}
	return out, nil
}

// Fetch returns preset id with locators set to absolute file paths.
func (s *Store) Fetch(ctx context.Context, id string) (preset.Preset, error) {
	if err := ctx.Err(); err != nil {
		return preset.Preset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read(id)
	if err != nil {
		return preset.Preset{}, err
	}

	dir, _ := s.dir(id)
	p := preset.Preset{ID: m.ID, Name: m.Name, Category: m.Category}
	for _, snd := range m.Sounds {
		p.Sounds = append(p.Sounds, preset.Sound{
			Pad:     snd.Pad,
			Name:    snd.Name,
			Locator: filepath.Join(dir, filepath.Base(snd.File)),
		})
	}
	return p, nil
}

// Upload stores files as a new preset under a fresh UUID.
func (s *Store) Upload(ctx context.Context, name, category string, files []preset.File) (preset.Preset, error) {
	if len(files) == 0 {
		return preset.Preset{}, ErrNoSounds
	}
	if err := ctx.Err(); err != nil {
		return preset.Preset{}, err
	}

	s.mu.Lock()
	m := manifest{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		CreatedAt: s.now().UTC(),
	}
	err := s.create(m, files)
	s.mu.Unlock()

	if err != nil {
		return preset.Preset{}, err
	}

	s.log.Info("preset stored", slog.String("id", m.ID), slog.String("name", name), slog.Int("files", len(files)))

	return s.Fetch(ctx, m.ID)
}

func (s *Store) create(m manifest, files []preset.File) (err error) {
	dir, err := s.dir(m.ID)
	if err != nil {
		return err
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Errorf("%w", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dir)
		}
	}()

	for _, f := range files {
		file := filepath.Base(f.FileName)
		if file == "." || file == string(filepath.Separator) || file == manifestName {
			file = f.Pad.String() + ".wav"
		}

		if err := os.WriteFile(filepath.Join(dir, file), f.Data, 0o644); err != nil {
			return fmt.Errorf("%w", err)
		}

		name := f.Name
		if name == "" {
			name = f.Pad.String()
		}
		m.Sounds = append(m.Sounds, manifestSound{Pad: f.Pad, Name: name, File: file})
	}

	return s.write(m)
}

// Update renames or recategorizes preset id. Empty values are left as is.
func (s *Store) Update(ctx context.Context, id, name, category string) (preset.Preset, error) {
	if err := ctx.Err(); err != nil {
		return preset.Preset{}, err
	}

	s.mu.Lock()
	m, err := s.read(id)
	if err == nil {
		if name != "" {
			m.Name = name
		}
		if category != "" {
			m.Category = category
		}
		err = s.write(m)
	}
	s.mu.Unlock()

	if err != nil {
		return preset.Preset{}, err
	}
	return s.Fetch(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.read(id); err != nil {
		return err
	}

	dir, _ := s.dir(id)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
