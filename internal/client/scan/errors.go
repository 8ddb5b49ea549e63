package scan

import "errors"

var (
	ErrUnsupported       = errors.New("qr scanning is not supported")
	ErrCameraUnavailable = errors.New("camera unavailable")
	ErrNoCode            = errors.New("no qr code found")
	ErrNoFrames          = errors.New("camera source has no frames")
)
