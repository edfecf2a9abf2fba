package controls

// ControlsBuilderOption is a functional option for configuring Controls.
type ControlsBuilderOption func(*Controls)

// WithSpeedStep sets how much one +/- press changes the rotation speed. Defaults to 0.005.
//
// Parameters:
//   - step: the speed change per press
//
// Returns:
//   - ControlsBuilderOption: functional option to set the step
func WithSpeedStep(step float64) ControlsBuilderOption {
	return func(c *Controls) {
		if step > 0 {
			c.speedStep = step
		}
	}
}

// WithSpacing sets the distance between cubes added with C. Defaults to 2.5.
//
// Parameters:
//   - spacing: the cube spacing
//
// Returns:
//   - ControlsBuilderOption: functional option to set the spacing
func WithSpacing(spacing float32) ControlsBuilderOption {
	return func(c *Controls) {
		c.spacing = spacing
	}
}
