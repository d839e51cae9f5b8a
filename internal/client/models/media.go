// Package models defines the media types handled by the ingestion pipeline.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Payload is one user-selected file held in memory: its name, the MIME type
// the picker declared for it, the raw bytes and a modification timestamp.
// Payload has value semantics; operations that change it return a new value
// and leave the original untouched.
type Payload struct {
	Name    string
	MIME    string
	Data    []byte
	ModTime time.Time
}

// Size returns the byte length of the payload.
func (p Payload) Size() int { return len(p.Data) }

// Clone returns a deep copy, including the data buffer.
func (p Payload) Clone() Payload {
	out := p
	if p.Data != nil {
		out.Data = make([]byte, len(p.Data))
		copy(out.Data, p.Data)
	}
	return out
}

// UploadState tracks where an item is in its lifecycle. Transitions are
// monotonic except for explicit retry, which moves failed back to uploading.
type UploadState string

const (
	UploadStateIdle      UploadState = "idle"
	UploadStateUploading UploadState = "uploading"
	UploadStateCommitted UploadState = "committed"
	UploadStateFailed    UploadState = "failed"
)

// MediaItem is one attached image plus its lifecycle metadata.
//
// ID is client-generated (temp-<timestamp>-<random>) until the upload
// commits. Payload is present only before commit or when uploads are manual;
// it is released once a permanent RemoteLocator exists, to bound memory.
type MediaItem struct {
	ID             string
	Payload        *Payload
	PreviewLocator string
	RemoteLocator  string
	IsPrimary      bool
	UploadState    UploadState
	UploadProgress int
	AltText        string
	UploadError    string
}

// Committed reports whether the item holds a permanent remote reference.
func (m MediaItem) Committed() bool { return m.UploadState == UploadStateCommitted }

// Clone returns a copy that is safe to hand to callers. The payload struct is
// copied; the underlying data buffer is shared because nothing in the
// pipeline mutates payload bytes in place.
func (m MediaItem) Clone() MediaItem {
	out := m
	if m.Payload != nil {
		p := *m.Payload
		out.Payload = &p
	}
	return out
}

// NewTempID generates a collection-unique temporary identifier in the
// temp-<timestamp>-<random> form.
func NewTempID() string {
	rnd := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("temp-%d-%s", time.Now().UnixMilli(), rnd)
}

// Notice is a non-blocking informational message produced during a batch
// operation, e.g. "format corrected automatically".
type Notice struct {
	ItemID  string
	Message string
}
