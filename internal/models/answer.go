package models

import "time"

// Modality is the answer format committed for a question. Per question,
// exactly one modality is authoritative: video outranks audio outranks text.
type Modality string

const (
	ModalityNone  Modality = "none"
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
	ModalityVideo Modality = "video"
)

// CaptureKind selects which devices a recorder acquires.
type CaptureKind string

const (
	CaptureAudio CaptureKind = "audio" // microphone only
	CaptureVideo CaptureKind = "video" // microphone + camera
)

// Clip is a finished recording produced by the capture controller. The byte
// slice is exclusively owned by the answer that holds it; it lives until the
// session is reset or the answer is replaced.
type Clip struct {
	Kind            CaptureKind `json:"kind"`
	MimeType        string      `json:"mime_type"`
	Data            []byte      `json:"-"`
	DurationSeconds int         `json:"duration_seconds"`
}

type TextAnswer struct {
	QuestionID string    `json:"question_id"`
	Text       string    `json:"text"`
	CapturedAt time.Time `json:"captured_at"`
}

type AudioAnswer struct {
	QuestionID string    `json:"question_id"`
	Clip       *Clip     `json:"clip"`
	CapturedAt time.Time `json:"captured_at"`
}

type VideoAnswer struct {
	QuestionID string    `json:"question_id"`
	Clip       *Clip     `json:"clip"`
	CapturedAt time.Time `json:"captured_at"`

	// RawFile is set only when the original captured file must be forwarded
	// to the enhanced evaluation path, not just played back.
	RawFile *RawFile `json:"raw_file,omitempty"`
}

// RawFile is an original captured media file, as uploaded by the client.
type RawFile struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
}
