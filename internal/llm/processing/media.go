package processing

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ImageData is inline media ready for a provider payload.
type ImageData struct {
	MediaType string
	Data      string // base64 encoded
}

// StagedMedia is a media ref resolved to a local file. Remote refs are
// downloaded into a transient temp file; Release must be called on
// every exit path so nothing leaks.
type StagedMedia struct {
	Path      string
	MediaType string

	temp bool
}

// Release deletes the staging file if one was created. Safe to call
// more than once.
func (s *StagedMedia) Release() {
	if s == nil || !s.temp {
		return
	}
	_ = os.Remove(s.Path)
	s.temp = false
}

var stagingClient = &http.Client{Timeout: 20 * time.Second}

// StageMedia resolves a media ref (local path, remote URL or data URI)
// to a local file the provider upload path can read.
func StageMedia(ctx context.Context, ref string) (*StagedMedia, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		img, err := parseDataURI(ref)
		if err != nil {
			return nil, err
		}
		raw, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 payload in data URI: %w", err)
		}
		return writeStagingFile(raw, img.MediaType)

	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return fetchRemoteMedia(ctx, ref)

	default:
		if _, err := os.Stat(ref); err != nil {
			return nil, fmt.Errorf("media ref is not a readable file: %w", err)
		}
		return &StagedMedia{Path: ref, MediaType: guessMediaType(ref)}, nil
	}
}

// EncodeInline resolves a media ref and returns it base64 encoded for
// providers that inline media in the request body. Staging resources
// are always released before returning.
func EncodeInline(ctx context.Context, ref string) (*ImageData, error) {
	if strings.HasPrefix(ref, "data:") {
		return parseDataURI(ref)
	}

	staged, err := StageMedia(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer staged.Release()

	raw, err := os.ReadFile(staged.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged media: %w", err)
	}

	return &ImageData{
		MediaType: staged.MediaType,
		Data:      base64.StdEncoding.EncodeToString(raw),
	}, nil
}

func parseDataURI(uri string) (*ImageData, error) {
	// format: data:[<media type>][;base64],<data>
	comma := strings.Index(uri, ",")
	if comma == -1 {
		return nil, fmt.Errorf("invalid data URI")
	}

	meta := uri[:comma]
	data := uri[comma+1:]

	mediaType := "text/plain"
	parts := strings.Split(meta, ";")
	if len(parts) > 0 && strings.HasPrefix(parts[0], "data:") && len(parts[0]) > 5 {
		mediaType = parts[0][5:]
	}

	isBase64 := false
	for _, p := range parts {
		if p == "base64" {
			isBase64 = true
			break
		}
	}
	if !isBase64 {
		return nil, fmt.Errorf("only base64 data URIs are supported")
	}

	return &ImageData{MediaType: mediaType, Data: data}, nil
}

func fetchRemoteMedia(ctx context.Context, url string) (*StagedMedia, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := stagingClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch media: status %d", resp.StatusCode)
	}

	mediaType := resp.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return writeStagingFile(raw, mediaType)
}

func writeStagingFile(raw []byte, mediaType string) (*StagedMedia, error) {
	f, err := os.CreateTemp("", "assistant-media-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}

	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, err
	}

	return &StagedMedia{Path: f.Name(), MediaType: mediaType, temp: true}, nil
}

func guessMediaType(path string) string {
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".gif"):
		return "image/gif"
	case strings.HasSuffix(path, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
