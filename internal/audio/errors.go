package audio

import (
	"errors"
	"fmt"
)

// Error kinds. Each failure surfaced by this package wraps exactly one.
var (
	// ErrDeviceOpen means the playback device could not be opened.
	ErrDeviceOpen = errors.New("audio: cannot open device")
	// ErrDeviceIO means a queue submission failed mid-run.
	ErrDeviceIO = errors.New("audio: device queue failure")
	// ErrClipOpen means a sound file could not be read.
	ErrClipOpen = errors.New("audio: cannot read clip")
	// ErrUnsupportedFormat means the source container or encoding is not supported.
	ErrUnsupportedFormat = errors.New("audio: unsupported clip format")
	// ErrDecode means decoding or conversion to the device format failed.
	ErrDecode = errors.New("audio: cannot decode clip")
)

// ClipError carries the asset that failed to load.
type ClipError struct {
	Path string
	Kind error // One of ErrClipOpen, ErrUnsupportedFormat, ErrDecode
	Err  error // Underlying cause, may be nil
}

func (e *ClipError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *ClipError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
