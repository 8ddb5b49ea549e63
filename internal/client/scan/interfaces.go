package scan

import (
	"context"
	"image"
)

// Constraints describe the stream a camera is asked for.
type Constraints struct {
	FacingMode  string
	IdealWidth  int
	IdealHeight int
}

// DefaultConstraints prefer the rear camera at 1280x720.
var DefaultConstraints = Constraints{FacingMode: "environment", IdealWidth: 1280, IdealHeight: 720}

type Camera interface {
	// Available reports whether a camera can be opened at all.
	Available() bool
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// Stream is an open camera. Stop releases it and may be called more than once.
type Stream interface {
	// Frame returns the current frame, or false while no frame is ready.
	Frame() (image.Image, bool)
	Stop()
}

// Decoder extracts QR text from an image, returning ErrNoCode when there is none.
type Decoder interface {
	Decode(img image.Image) (string, error)
}

type View interface {
	ShowScanning()
	ShowIdle()
	ShowInvalid(payload string)
	ShowUnsupported(title, message string)
	Alert(message string)
}

type Navigator interface {
	Navigate(target string) error
}

// Scheduler paces the sampling loop; NextFrame blocks until the next sample is due.
type Scheduler interface {
	NextFrame(ctx context.Context) error
}
