// SPDX-License-Identifier: EPL-2.0

// Package presetapi talks to the HTTP preset service: listing, fetching,
// uploading, renaming and deleting presets. The Client also opens the
// http(s) sound locators found in fetched presets.
package presetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/ik5/padsampler/preset"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 4 << 10

// Client implements preset.Store against the service rooted at the presets
// collection URL, for example https://host/api/presets.
type Client struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
}

// New returns a Client for baseURL. A nil hc uses http.DefaultClient.
func New(baseURL string, hc *http.Client, log *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrBadBaseURL, baseURL)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		base: u,
		http: hc,
		log:  log.With(slog.String("component", "presetapi")),
	}, nil
}

func (c *Client) collection() string {
	return c.base.String()
}

func (c *Client) item(id string) string {
	return strings.TrimSuffix(c.base.String(), "/") + "/" + url.PathEscape(id)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.Method, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var msg struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &msg) != nil {
		msg.Message = strings.TrimSpace(string(body))
	}

	return &StatusError{Code: resp.StatusCode, Message: msg.Message}
}

// List returns every preset, in the service's order.
func (c *Client) List(ctx context.Context) ([]preset.Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.collection(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	var list []wirePreset
	if err := c.do(req, &list); err != nil {
		return nil, err
	}

	out := make([]preset.Summary, len(list))
	for i, w := range list {
		out[i] = w.summary()
	}
	return out, nil
}

// Fetch returns preset id with every sound path resolved to an absolute
// URL. Sounds with an unknown pad are dropped.
func (c *Client) Fetch(ctx context.Context, id string) (preset.Preset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.item(id), nil)
	if err != nil {
		return preset.Preset{}, fmt.Errorf("%w", err)
	}

	var w wirePreset
	if err := c.do(req, &w); err != nil {
		return preset.Preset{}, err
	}

	p, skipped := w.preset(c.base)
	for _, s := range skipped {
		c.log.Warn("ignoring sound", slog.String("preset", id), slog.String("pad", s.PadID), slog.String("path", s.Path))
	}
	return p, nil
}

// Upload creates a preset from files. The request is a multipart form with
// the fields name, category, files, soundsInfo and data.
func (c *Client) Upload(ctx context.Context, name, category string, files []preset.File) (preset.Preset, error) {
	body, contentType, err := encodeUpload(name, category, files)
	if err != nil {
		return preset.Preset{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.collection(), body)
	if err != nil {
		return preset.Preset{}, fmt.Errorf("%w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var w wirePreset
	if err := c.do(req, &w); err != nil {
		return preset.Preset{}, err
	}

	p, _ := w.preset(c.base)
	return p, nil
}

func encodeUpload(name, category string, files []preset.File) (*bytes.Buffer, string, error) {
	data := uploadData{Name: name, Category: category}
	for _, f := range files {
		data.Sounds = append(data.Sounds, wireSound{PadID: f.Pad.String(), Name: f.Name, FileName: f.FileName})
	}

	info := make([]wireSound, len(data.Sounds))
	for i, s := range data.Sounds {
		info[i] = wireSound{PadID: s.PadID, Name: s.Name}
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w", err)
	}
	infoJSON, err := json.Marshal(info)
	if err != nil {
		return nil, "", fmt.Errorf("%w", err)
	}

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	fields := [][2]string{
		{"name", name},
		{"category", category},
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("%w", err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.FileName))
		h.Set("Content-Type", "audio/wav")

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("%w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("%w", err)
		}
	}

	if err := mw.WriteField("soundsInfo", string(infoJSON)); err != nil {
		return nil, "", fmt.Errorf("%w", err)
	}
	if err := mw.WriteField("data", string(dataJSON)); err != nil {
		return nil, "", fmt.Errorf("%w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("%w", err)
	}

	return body, mw.FormDataContentType(), nil
}

// Update renames or recategorizes preset id. Empty values are left as is.
func (c *Client) Update(ctx context.Context, id, name, category string) (preset.Preset, error) {
	payload, err := json.Marshal(map[string]string{"name": name, "category": category})
	if err != nil {
		return preset.Preset{}, fmt.Errorf("%w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.item(id), bytes.NewReader(payload))
	if err != nil {
		return preset.Preset{}, fmt.Errorf("%w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var w wirePreset
	if err := c.do(req, &w); err != nil {
		return preset.Preset{}, err
	}

	p, _ := w.preset(c.base)
	return p, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.item(id), nil)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return c.do(req, nil)
}

// Open implements loader.Opener for http and https locators. The size is
// the response Content-Length, or -1 when the server does not send one.
func (c *Client) Open(ctx context.Context, locator string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, -1, fmt.Errorf("%w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, -1, fmt.Errorf("GET %s: %w", req.URL.Redacted(), err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, -1, statusError(resp)
	}

	return resp.Body, resp.ContentLength, nil
}
