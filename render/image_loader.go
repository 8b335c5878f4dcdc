package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
)

// ErrDecode reports bytes that are not a supported image.
var ErrDecode = errors.New("render: decode image")

// Decode decodes PNG, JPEG or GIF bytes.
func Decode(b []byte) (image.Image, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrDecode)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// LoadImage reads and decodes an image file.
func LoadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("empty image path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// FileTextureSource loads texture atlases from disk and caches them by name.
// Relative names are tried under Root, then as given, then by base name
// under Root.
type FileTextureSource struct {
	Root     string
	Registry *Registry
}

// NewFileTextureSource creates a source rooted at dir with its own registry.
func NewFileTextureSource(dir string) *FileTextureSource {
	return &FileTextureSource{Root: dir, Registry: NewRegistry()}
}

// Atlas returns the atlas image for src.
func (s *FileTextureSource) Atlas(ctx context.Context, src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("empty atlas name")
	}
	if img := s.Registry.Get(src); img != nil {
		return img, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lastErr error
	for _, p := range s.candidates(src) {
		img, err := LoadImage(p)
		if err == nil {
			s.Registry.Register(src, img)
			return img, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to load atlas %s: %w", src, lastErr)
}

func (s *FileTextureSource) candidates(src string) []string {
	if filepath.IsAbs(src) {
		return []string{src}
	}
	tried := []string{}
	if s.Root != "" {
		tried = append(tried, filepath.Join(s.Root, src))
	}
	tried = append(tried, src)
	if s.Root != "" && filepath.Base(src) != src {
		tried = append(tried, filepath.Join(s.Root, filepath.Base(src)))
	}
	return tried
}
