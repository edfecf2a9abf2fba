package surface

import "sync"

// Viewport holds the pixel size of a surface. Resize events may update it at any time;
// the renderer reads it once at the start of every frame.
type Viewport struct {
	mu     sync.Mutex
	width  int
	height int
}

// NewViewport creates a viewport with the given pixel size.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - *Viewport: the new viewport
func NewViewport(width, height int) *Viewport {
	return &Viewport{width: width, height: height}
}

// Size returns the current pixel size.
func (v *Viewport) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// SetSize updates the pixel size. Non-positive dimensions are stored as given and make
// Aspect fall back to 1.
func (v *Viewport) SetSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = width
	v.height = height
}

// Aspect returns width/height, or 1 when either dimension is not positive.
func (v *Viewport) Aspect() float32 {
	w, h := v.Size()
	if w <= 0 || h <= 0 {
		return 1
	}
	return float32(w) / float32(h)
}
