package capture

import (
	"errors"
	"sync"

	"github.com/interview-sim/interview-service/internal/models"
)

var (
	// ErrDeviceAccessDenied means the user or OS refused device permission.
	ErrDeviceAccessDenied = errors.New("device access denied")
	// ErrDeviceUnavailable means no usable device exists or it is held by
	// another recording.
	ErrDeviceUnavailable = errors.New("device unavailable")
	ErrNotRecording      = errors.New("recorder is not recording")
	ErrAlreadyRecording  = errors.New("recorder is already recording")
	ErrStreamClosed      = errors.New("media stream closed")
)

// MediaStream is an acquired device stream. Chunks delivers recorded data
// until the stream is stopped; Stop releases every underlying device track
// and must be safe to call more than once.
type MediaStream interface {
	Chunks() <-chan []byte
	MimeType() string
	Stop()
}

// DeviceSource acquires a media stream for a capture kind. Implementations
// report denial and absence through ErrDeviceAccessDenied and
// ErrDeviceUnavailable so the recorder can stay Idle and the caller can
// re-prompt.
type DeviceSource interface {
	Acquire(kind models.CaptureKind) (MediaStream, error)
}

// PushStream is a MediaStream fed by the client over the wire: the browser
// (or any capture frontend) uploads chunks as it records and the recorder
// consumes them. It is the stream implementation the HTTP deployment uses.
type PushStream struct {
	mu       sync.Mutex
	ch       chan []byte
	closed   bool
	mimeType string
	release  func()
}

func NewPushStream(mimeType string, release func()) *PushStream {
	return &PushStream{
		ch:       make(chan []byte, 64),
		mimeType: mimeType,
		release:  release,
	}
}

// Push appends one recorded chunk. Fails once the stream has been stopped.
func (s *PushStream) Push(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.ch <- buf
	return nil
}

func (s *PushStream) Chunks() <-chan []byte { return s.ch }

func (s *PushStream) MimeType() string { return s.mimeType }

func (s *PushStream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
	if s.release != nil {
		s.release()
	}
}

// PushSource hands out at most one PushStream per capture kind, mirroring the
// exclusivity of a real microphone or camera: acquiring a kind that is still
// held fails with ErrDeviceUnavailable until the holder stops its stream.
type PushSource struct {
	mu   sync.Mutex
	held map[models.CaptureKind]*PushStream
}

func NewPushSource() *PushSource {
	return &PushSource{held: make(map[models.CaptureKind]*PushStream)}
}

func (p *PushSource) Acquire(kind models.CaptureKind) (MediaStream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.held[kind]; busy {
		return nil, ErrDeviceUnavailable
	}
	stream := NewPushStream(mimeTypeFor(kind), func() {
		p.mu.Lock()
		delete(p.held, kind)
		p.mu.Unlock()
	})
	p.held[kind] = stream
	return stream, nil
}

// Current returns the live stream for a kind so ingest handlers can push
// chunks into it.
func (p *PushSource) Current(kind models.CaptureKind) (*PushStream, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	stream, ok := p.held[kind]
	return stream, ok
}

func mimeTypeFor(kind models.CaptureKind) string {
	if kind == models.CaptureVideo {
		return "video/webm"
	}
	return "audio/webm"
}
