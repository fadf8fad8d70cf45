package export

import (
	"context"
	"image"
	"sync"
)

// SurfaceID is the stable id of the printable report surface.
const SurfaceID = "printable-report"

// RenderSurface is a mounted, capturable rendering of the report.
type RenderSurface interface {
	// Capture returns the rendered pages in order. It must not modify the
	// mounted content.
	Capture(ctx context.Context) ([]image.Image, error)
}

// SurfaceRegistry tracks mounted surfaces by id.
type SurfaceRegistry struct {
	mu       sync.RWMutex
	surfaces map[string]RenderSurface
}

// NewSurfaceRegistry returns an empty registry.
func NewSurfaceRegistry() *SurfaceRegistry {
	return &SurfaceRegistry{surfaces: make(map[string]RenderSurface)}
}

// Mount registers s under id, replacing any previous surface.
func (r *SurfaceRegistry) Mount(id string, s RenderSurface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces[id] = s
}

// Unmount removes the surface registered under id.
func (r *SurfaceRegistry) Unmount(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.surfaces, id)
}

// Lookup returns the surface registered under id.
func (r *SurfaceRegistry) Lookup(id string) (RenderSurface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[id]
	return s, ok && s != nil
}
