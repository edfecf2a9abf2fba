package surface

import (
	"errors"
	"fmt"
)

// ErrUnsupportedSurface is matched by every UnsupportedSurfaceError via errors.Is.
var ErrUnsupportedSurface = errors.New("surface: drawing context unavailable")

// ShaderCompileError reports a stage the compiler rejected.
type ShaderCompileError struct {
	Stage Stage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("compile %s shader: %s", e.Stage, e.Log)
}

// ShaderLinkError reports two compiled stages that could not be linked, e.g. on a varying mismatch.
type ShaderLinkError struct {
	Log string
}

func (e *ShaderLinkError) Error() string {
	return "link program: " + e.Log
}

// MissingAttributeError reports an attribute stream a draw expected but could not bind.
// It is never fatal to the frame.
type MissingAttributeError struct {
	Attribute string
	Reason    string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("attribute %s not bound: %s", e.Attribute, e.Reason)
}

// UnsupportedSurfaceError reports that a drawing context could not be created at all.
type UnsupportedSurfaceError struct {
	Reason string
	Err    error
}

func (e *UnsupportedSurfaceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported surface: %s: %v", e.Reason, e.Err)
	}
	return "unsupported surface: " + e.Reason
}

func (e *UnsupportedSurfaceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnsupportedSurface) hold for any UnsupportedSurfaceError.
func (e *UnsupportedSurfaceError) Is(target error) bool {
	return target == ErrUnsupportedSurface
}
