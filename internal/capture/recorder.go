package capture

import (
	"bytes"
	"log/slog"
	"sync"
	"time"

	"github.com/interview-sim/interview-service/internal/models"
)

// Status is the recorder's position in its Idle -> Recording -> Stopped
// lifecycle. Stopped can begin a fresh cycle; doing so discards the previous
// clip (single-clip retention).
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRecording Status = "recording"
	StatusStopped   Status = "stopped"
)

// SoftLimitSeconds is the suggested maximum answer length. It is a UI
// guideline, not a hard cutoff: recording continues past it.
const SoftLimitSeconds = 300

// Recorder owns the device-recording lifecycle for one modality at a time:
// acquire a stream, accumulate chunks, tick elapsed seconds, and finalize a
// clip on stop. It holds at most one active stream, and every path out of
// Recording releases the stream's tracks.
type Recorder struct {
	source DeviceSource
	logger *slog.Logger

	mu        sync.Mutex
	status    Status
	acquiring bool
	kind      models.CaptureKind
	stream    MediaStream
	buf       bytes.Buffer
	elapsed   int
	clip      *models.Clip

	stopTick chan struct{}
	drained  sync.WaitGroup
}

func NewRecorder(source DeviceSource, logger *slog.Logger) *Recorder {
	return &Recorder{
		source: source,
		logger: logger,
		status: StatusIdle,
	}
}

func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// ElapsedSeconds reports how long the current (or last) recording has run.
func (r *Recorder) ElapsedSeconds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Start requests device access for the given kind and begins recording. On
// acquisition failure the recorder stays Idle and the device error is
// returned for the caller to surface. Starting from Stopped discards the
// previous clip.
func (r *Recorder) Start(kind models.CaptureKind) error {
	r.mu.Lock()
	// The acquiring flag reserves the recorder across the Acquire call so a
	// second concurrent Start cannot overwrite the stream being set up.
	if r.status == StatusRecording || r.acquiring {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	r.acquiring = true
	r.mu.Unlock()

	stream, err := r.source.Acquire(kind)

	r.mu.Lock()
	r.acquiring = false
	if err != nil {
		r.mu.Unlock()
		r.logger.Warn("device acquisition failed", "kind", kind, "error", err)
		return err
	}
	r.status = StatusRecording
	r.kind = kind
	r.stream = stream
	r.buf.Reset()
	r.elapsed = 0
	r.clip = nil
	r.stopTick = make(chan struct{})
	r.mu.Unlock()

	r.drained.Add(1)
	go r.consume(stream)
	go r.tick(r.stopTick)

	r.logger.Info("recording started", "kind", kind)
	return nil
}

// Stop finalizes the buffered chunks into a single clip, releases all device
// tracks and transitions to Stopped. Valid only from Recording.
func (r *Recorder) Stop() (*models.Clip, error) {
	r.mu.Lock()
	if r.status != StatusRecording {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	stream := r.stream
	r.status = StatusStopped
	close(r.stopTick)
	r.mu.Unlock()

	// Track release first: no dangling open devices survive a stop.
	stream.Stop()
	r.drained.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]byte, r.buf.Len())
	copy(data, r.buf.Bytes())
	r.clip = &models.Clip{
		Kind:            r.kind,
		MimeType:        stream.MimeType(),
		Data:            data,
		DurationSeconds: r.elapsed,
	}
	r.stream = nil

	r.logger.Info("recording stopped",
		"kind", r.kind,
		"duration_seconds", r.clip.DurationSeconds,
		"bytes", len(data))
	return r.clip, nil
}

// Teardown releases the recorder regardless of state. A recorder torn down
// while Recording stops first, so recording never continues past the
// question it was started for. The in-flight clip is discarded.
func (r *Recorder) Teardown() {
	r.mu.Lock()
	recording := r.status == StatusRecording
	r.mu.Unlock()

	if recording {
		if _, err := r.Stop(); err != nil && err != ErrNotRecording {
			r.logger.Error("teardown stop failed", "error", err)
		}
	}

	r.mu.Lock()
	r.status = StatusIdle
	r.clip = nil
	r.buf.Reset()
	r.elapsed = 0
	r.mu.Unlock()
}

// Clip returns the finalized clip, if any. Only meaningful in Stopped.
func (r *Recorder) Clip() *models.Clip {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clip
}

func (r *Recorder) consume(stream MediaStream) {
	defer r.drained.Done()
	for chunk := range stream.Chunks() {
		r.mu.Lock()
		r.buf.Write(chunk)
		r.mu.Unlock()
	}
}

func (r *Recorder) tick(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			r.elapsed++
			elapsed := r.elapsed
			r.mu.Unlock()
			if elapsed == SoftLimitSeconds {
				r.logger.Warn("recording passed suggested length",
					"kind", r.kind,
					"elapsed_seconds", elapsed)
			}
		}
	}
}
