package scan

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/dmitrijs2005/photobooth/internal/logging"
	"golang.org/x/image/draw"
)

const (
	TitleNoCamera  = "Browser Not Supported"
	TitleNoDecoder = "QR Scanner Library Missing"

	msgNoCamera  = "Your device doesn't support camera access needed for QR scanning."
	msgNoDecoder = "The QR decoder required for QR code scanning couldn't be loaded."
	msgCamera    = "Could not access camera. Please ensure you have granted camera permissions."
)

type State int

const (
	Idle State = iota
	Scanning
)

func (s State) String() string {
	if s == Scanning {
		return "scanning"
	}
	return "idle"
}

type Deps struct {
	Camera    Camera
	Decoder   Decoder
	View      View
	Navigator Navigator
	Scheduler Scheduler
	Logger    logging.Logger
}

type Session struct {
	deps Deps
	log  logging.Logger

	mu          sync.Mutex
	state       State
	unsupported bool
	opening     bool
	stops       uint64
	stream      Stream
	cancel      context.CancelFunc
	gen         uint64
	done        chan struct{}
}

func NewSession(deps Deps) *Session {
	if deps.Scheduler == nil {
		deps.Scheduler = NewIntervalScheduler(DefaultFrameInterval)
	}
	l := deps.Logger
	if l == nil {
		l = logging.Nop()
	}
	return &Session{deps: deps, log: l.With("component", "scan")}
}

// Init checks that a camera and a decoder are present. When either is
// missing the view is told why and the session refuses to start. With
// autostart set, a supported session starts scanning right away.
func (s *Session) Init(ctx context.Context, autostart bool) bool {
	s.mu.Lock()
	switch {
	case s.deps.Camera == nil || !s.deps.Camera.Available():
		s.unsupported = true
		s.deps.View.ShowUnsupported(TitleNoCamera, msgNoCamera)
	case s.deps.Decoder == nil:
		s.unsupported = true
		s.deps.View.ShowUnsupported(TitleNoDecoder, msgNoDecoder)
	}
	ok := !s.unsupported
	s.mu.Unlock()

	if ok && autostart {
		if err := s.Start(ctx); err != nil {
			s.log.Warn(ctx, "autostart failed", "err", err)
		}
	}
	return ok
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Scanning() bool { return s.State() == Scanning }

// Start opens the camera and begins sampling frames. The sampling loop
// outlives ctx's cancellation; it ends on Stop or on a decoded code.
// The camera is opened without holding the session lock; a Stop issued
// meanwhile discards the new stream.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.unsupported {
		s.mu.Unlock()
		return ErrUnsupported
	}
	if s.state == Scanning || s.opening {
		s.mu.Unlock()
		return nil
	}
	s.opening = true
	stops := s.stops
	s.mu.Unlock()

	stream, err := s.deps.Camera.Open(ctx, DefaultConstraints)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.opening = false

	if err != nil {
		s.log.Error(ctx, "error accessing camera", "err", err)
		s.deps.View.Alert(msgCamera)
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	if s.stops != stops || s.state == Scanning {
		stream.Stop()
		return nil
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.gen++
	s.state = Scanning
	s.stream = stream
	s.cancel = cancel
	s.done = make(chan struct{})

	s.deps.View.ShowScanning()
	go s.loop(loopCtx, s.gen, stream, s.done)
	return nil
}

// Stop releases the camera and returns to idle.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	s.releaseLocked()
}

// Wait blocks until the most recent sampling loop has exited.
func (s *Session) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Session) releaseLocked() bool {
	if s.state != Scanning {
		return false
	}
	s.stream.Stop()
	s.cancel()
	s.stream = nil
	s.cancel = nil
	s.state = Idle
	s.deps.View.ShowIdle()
	return true
}

// release stops session gen if it is still the active one.
func (s *Session) release(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	return s.releaseLocked()
}

func (s *Session) loop(ctx context.Context, gen uint64, stream Stream, done chan struct{}) {
	defer close(done)

	var buf *image.RGBA
	for {
		if err := s.deps.Scheduler.NextFrame(ctx); err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}

		frame, ok := stream.Frame()
		if !ok {
			continue
		}
		buf = copyFrame(buf, frame)

		text, err := s.deps.Decoder.Decode(buf)
		if errors.Is(err, ErrNoCode) {
			continue
		}
		if err != nil {
			s.log.Debug(ctx, "decode failed", "err", err)
			continue
		}

		if !s.release(gen) {
			return
		}
		s.handlePayload(ctx, text)
		return
	}
}

func (s *Session) handlePayload(ctx context.Context, text string) {
	if !ValidPayload(text) {
		s.log.Info(ctx, "invalid qr code", "payload", text)
		s.deps.View.ShowInvalid(text)
		return
	}
	s.log.Info(ctx, "qr code accepted", "payload", text)
	if err := s.deps.Navigator.Navigate(text); err != nil {
		s.log.Warn(ctx, "navigation failed", "err", err)
		s.deps.View.ShowInvalid(text)
	}
}

// copyFrame draws src into dst, reallocating dst only when the frame size changes.
func copyFrame(dst *image.RGBA, src image.Image) *image.RGBA {
	b := src.Bounds()
	r := image.Rect(0, 0, b.Dx(), b.Dy())
	if dst == nil || dst.Bounds() != r {
		dst = image.NewRGBA(r)
	}
	draw.Draw(dst, r, src, b.Min, draw.Src)
	return dst
}
