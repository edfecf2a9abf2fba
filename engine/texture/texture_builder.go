package texture

// BumpMapBuilderOption configures HeightMap and BumpMap.
type BumpMapBuilderOption func(*bumpMapConfig)

// WithSeed sets the noise seed. Equal seeds produce identical maps.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - BumpMapBuilderOption: functional option to set the seed
func WithSeed(seed int64) BumpMapBuilderOption {
	return func(c *bumpMapConfig) {
		c.seed = seed
	}
}

// WithFrequency sets how many noise periods span the texture.
//
// Parameters:
//   - f: noise periods across the texture
//
// Returns:
//   - BumpMapBuilderOption: functional option to set the frequency
func WithFrequency(f float64) BumpMapBuilderOption {
	return func(c *bumpMapConfig) {
		c.frequency = f
	}
}

// WithBlur sets the Gaussian blur radius applied to the heights. Zero disables the blur.
//
// Parameters:
//   - radius: the blur radius in pixels
//
// Returns:
//   - BumpMapBuilderOption: functional option to set the blur radius
func WithBlur(radius float64) BumpMapBuilderOption {
	return func(c *bumpMapConfig) {
		c.blur = radius
	}
}

// WithStrength scales the height gradient before it is turned into a normal. Zero yields a
// flat map.
//
// Parameters:
//   - s: the relief strength
//
// Returns:
//   - BumpMapBuilderOption: functional option to set the strength
func WithStrength(s float32) BumpMapBuilderOption {
	return func(c *bumpMapConfig) {
		c.strength = s
	}
}
