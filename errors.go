package billow

import "errors"

// Errors returned by billow. Callers match them with errors.Is; the wrapped
// error carries the path or value that caused the failure.
var (
	// ErrInputUnreadable is returned when the source image cannot be opened
	// or decoded.
	ErrInputUnreadable = errors.New("billow: input unreadable")

	// ErrInvalidDimensions is returned for zero-area images and for buffers
	// whose size does not match the base image.
	ErrInvalidDimensions = errors.New("billow: invalid dimensions")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("billow: invalid config")

	// ErrNoFrames is returned when an animation with zero frames is encoded.
	ErrNoFrames = errors.New("billow: no frames")

	// ErrEncodingFailed is returned when the output container cannot be written.
	ErrEncodingFailed = errors.New("billow: encoding failed")
)
