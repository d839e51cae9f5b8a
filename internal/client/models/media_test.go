package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTempID_Pattern(t *testing.T) {
	re := regexp.MustCompile(`^temp-\d+-[0-9a-f]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewTempID()
		require.Regexp(t, re, id)
		require.False(t, seen[id], "temp ids must be unique: %s", id)
		seen[id] = true
	}
}

func TestPayload_Clone_IsDeep(t *testing.T) {
	p := Payload{Name: "a.png", MIME: "image/png", Data: []byte{1, 2, 3}}
	c := p.Clone()
	c.Data[0] = 9
	require.Equal(t, byte(1), p.Data[0])
}

func TestMediaItem_Clone_CopiesPayloadHeader(t *testing.T) {
	p := Payload{Name: "a.png", MIME: "image/png", Data: []byte{1}}
	m := MediaItem{ID: "x", Payload: &p, UploadState: UploadStateIdle}
	c := m.Clone()
	c.Payload.Name = "b.png"
	require.Equal(t, "a.png", m.Payload.Name)
}
