package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"
)

var ErrNotImage = errors.New("not an image")

const (
	DefaultFetchTimeout = 15 * time.Second
	DefaultMaxBytes     = 10 << 20
)

// Loader resolves image sources for image-add and snapshot loads: remote
// http(s) URLs, data: URLs and files previously uploaded under /assets/.
type Loader struct {
	client   *http.Client
	dir      string
	maxBytes int64
}

// NewLoader creates a loader serving /assets/ paths from dir. Zero timeout or
// size fall back to defaults.
func NewLoader(dir string, timeout time.Duration, maxBytes int64) *Loader {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Loader{
		client:   &http.Client{Timeout: timeout},
		dir:      dir,
		maxBytes: maxBytes,
	}
}

// Load fetches and decodes src.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	data, err := l.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", shorten(src), err)
	}
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return l.fromDataURL(src)
	case strings.HasPrefix(src, "/assets/"):
		return l.fromDisk(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fromHTTP(ctx, src)
	}
	return nil, fmt.Errorf("unsupported image source %q", shorten(src))
}

func (l *Loader) fromHTTP(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}
	return l.readLimited(resp.Body)
}

func (l *Loader) fromDisk(src string) ([]byte, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse asset path: %w", err)
	}
	name := path.Base(path.Clean(u.Path))
	if name == "." || name == "/" {
		return nil, fmt.Errorf("invalid asset path %q", src)
	}
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()
	return l.readLimited(f)
}

// fromDataURL accepts base64 data URLs only.
func (l *Loader) fromDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("data url must be base64 encoded")
	}
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > l.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", l.maxBytes)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	return data, nil
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", l.maxBytes)
	}
	return data, nil
}

// Decode sniffs data and decodes it, returning the detected extension.
func Decode(data []byte) (image.Image, string, error) {
	kind, err := filetype.Image(data)
	if err != nil || kind == filetype.Unknown {
		return nil, "", ErrNotImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return img, kind.Extension, nil
}

func shorten(src string) string {
	if len(src) > 64 {
		return src[:64] + "..."
	}
	return src
}
