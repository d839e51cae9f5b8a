package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildObjectKey(t *testing.T) {
	key, err := BuildObjectKey("evt-1", "Party Photo.JPG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "events/evt-1/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	other, err := BuildObjectKey("evt-1", "Party Photo.JPG")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestBuildObjectKeyNoEvent(t *testing.T) {
	key, err := BuildObjectKey("", "a.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "events/common/"))
}

func TestBuildObjectKeyNoExtension(t *testing.T) {
	key, err := BuildObjectKey("e", "noext")
	require.NoError(t, err)
	assert.False(t, strings.Contains(key[len("events/e/"):], "."))
}

func TestKeyFromURL(t *testing.T) {
	base := "http://localhost:8080/media"

	key, ok := KeyFromURL(base, "http://localhost:8080/media/events/e/x.jpg")
	require.True(t, ok)
	assert.Equal(t, "events/e/x.jpg", key)

	_, ok = KeyFromURL(base, "http://cdn.example.com/events/e/x.jpg")
	assert.False(t, ok)

	_, ok = KeyFromURL(base, "http://localhost:8080/media/")
	assert.False(t, ok)
}

func TestPublicURLRoundTrip(t *testing.T) {
	base := "http://localhost:8080/media/"
	url := PublicURL(base, "events/e/x.jpg")
	assert.Equal(t, "http://localhost:8080/media/events/e/x.jpg", url)

	key, ok := KeyFromURL(base, url)
	require.True(t, ok)
	assert.Equal(t, "events/e/x.jpg", key)
}

func TestNewMinioStorageScrubsEndpoint(t *testing.T) {
	s, err := NewMinioStorage("http://localhost:9000/some/path", "ak", "sk", "media", false)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "media", s.bucket)
}
