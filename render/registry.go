package render

import (
	"image"
	"sync"
)

// Registry caches decoded images by key.
type Registry struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{images: make(map[string]image.Image)}
}

// Register stores an image by key.
func (r *Registry) Register(key string, img image.Image) {
	if r == nil || key == "" || img == nil {
		return
	}
	r.mu.Lock()
	r.images[key] = img
	r.mu.Unlock()
}

// Get returns a cached image by key.
func (r *Registry) Get(key string) image.Image {
	if r == nil || key == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.images[key]
}
