// Package texture generates the procedural bump map sampled by the normal_map shader
// capability. Heights come from seeded Perlin noise, are smoothed with a Gaussian blur and are
// converted into a tangent-space normal map.
package texture

import (
	"errors"
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/perlin"
	"github.com/chewxy/math32"
)

// ErrInvalidSize is returned for a non-positive texture size.
var ErrInvalidSize = errors.New("texture: size must be positive")

type bumpMapConfig struct {
	seed      int64
	frequency float64
	blur      float64
	strength  float32
}

// HeightMap samples seeded Perlin noise into a size×size grayscale image and smooths it.
//
// Parameters:
//   - size: the edge length in pixels
//   - options: functional options to configure the noise
//
// Returns:
//   - *image.Gray: the height field, 0 low and 255 high
//   - error: ErrInvalidSize for size < 1
func HeightMap(size int, options ...BumpMapBuilderOption) (*image.Gray, error) {
	cfg := newBumpMapConfig(options)
	return heightMap(size, cfg)
}

// BumpMap builds an RGBA tangent-space normal map from a HeightMap. Each texel encodes the
// unit normal n as (n·0.5 + 0.5)·255, so a flat region is (128, 128, 255).
//
// Parameters:
//   - size: the edge length in pixels
//   - options: functional options to configure the noise and relief
//
// Returns:
//   - common.TextureStagingData: the pixels ready for Surface.CreateTexture
//   - error: ErrInvalidSize for size < 1
func BumpMap(size int, options ...BumpMapBuilderOption) (common.TextureStagingData, error) {
	cfg := newBumpMapConfig(options)
	h, err := heightMap(size, cfg)
	if err != nil {
		return common.TextureStagingData{}, err
	}

	out := common.TextureStagingData{
		Pixels: make([]byte, size*size*4),
		Width:  uint32(size),
		Height: uint32(size),
	}
	at := func(x, y int) float32 {
		// wrap so the map tiles across UV seams
		x = (x + size) % size
		y = (y + size) % size
		return float32(h.GrayAt(x, y).Y) / 255
	}
	for y := range size {
		for x := range size {
			dx := (at(x+1, y) - at(x-1, y)) * cfg.strength
			dy := (at(x, y+1) - at(x, y-1)) * cfg.strength
			nx, ny, nz := common.Normalize3(-dx, -dy, 1)
			i := (y*size + x) * 4
			out.Pixels[i+0] = encode(nx)
			out.Pixels[i+1] = encode(ny)
			out.Pixels[i+2] = encode(nz)
			out.Pixels[i+3] = 0xFF
		}
	}
	return out, nil
}

// Flat returns a 1x1 normal map pointing straight out of the surface.
func Flat() common.TextureStagingData {
	return common.TextureStagingData{
		Pixels: []byte{128, 128, 255, 255},
		Width:  1,
		Height: 1,
	}
}

func newBumpMapConfig(options []BumpMapBuilderOption) bumpMapConfig {
	cfg := bumpMapConfig{
		seed:      1,
		frequency: 4,
		blur:      1.5,
		strength:  2,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

func heightMap(size int, cfg bumpMapConfig) (*image.Gray, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}
	p := perlin.NewPerlin(2, 2, 3, cfg.seed)
	noise := image.NewGray(image.Rect(0, 0, size, size))
	scale := cfg.frequency / float64(size)
	for y := range size {
		for x := range size {
			t := p.Noise2D(float64(x)*scale, float64(y)*scale)
			noise.SetGray(x, y, color.Gray{Y: uint8(common.Clamp((t+1)*127.5, 0, 255))})
		}
	}
	if cfg.blur <= 0 {
		return noise, nil
	}

	blurred := blur.Gaussian(noise, cfg.blur)
	out := image.NewGray(noise.Bounds())
	for y := range size {
		for x := range size {
			out.SetGray(x, y, color.GrayModel.Convert(blurred.At(x, y)).(color.Gray))
		}
	}
	return out, nil
}

func encode(v float32) uint8 {
	return uint8(math32.Round(common.Clamp(v*0.5+0.5, 0, 1) * 255))
}
