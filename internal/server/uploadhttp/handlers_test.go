package uploadhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhive/mediakit/internal/logging"
)

type fakeStorage struct {
	ensureErr error
	putErr    error
	removeErr error

	putKeys     []string
	putTypes    []string
	putSizes    []int64
	removedKeys []string
}

func (f *fakeStorage) EnsureBucket(ctx context.Context) error { return f.ensureErr }

func (f *fakeStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.putKeys = append(f.putKeys, key)
	f.putTypes = append(f.putTypes, contentType)
	f.putSizes = append(f.putSizes, size)
	_, _ = io.Copy(io.Discard, body)
	return nil
}

func (f *fakeStorage) Remove(ctx context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removedKeys = append(f.removedKeys, key)
	return nil
}

func multipartBody(t *testing.T, fileName, contentType string, data []byte, eventID string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="image"; filename="` + fileName + `"`}
	hdr["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	if eventID != "" {
		require.NoError(t, w.WriteField("event_id", eventID))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadHandlerOK(t *testing.T) {
	store := &fakeStorage{}
	h := uploadHandler(store, "http://localhost:8080/media", nil, &logging.NopLogger{})

	body, ct := multipartBody(t, "pic.jpg", "image/jpeg", []byte("jpeg-bytes"), "evt-42")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.putKeys, 1)
	assert.True(t, strings.HasPrefix(store.putKeys[0], "events/evt-42/"))
	assert.True(t, strings.HasSuffix(store.putKeys[0], ".jpg"))
	assert.Equal(t, "image/jpeg", store.putTypes[0])
	assert.Equal(t, int64(len("jpeg-bytes")), store.putSizes[0])

	var resp uploadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "pic.jpg", resp.Filename)
	assert.Equal(t, "image/jpeg", resp.MimeType)
	assert.Equal(t, "http://localhost:8080/media/"+store.putKeys[0], resp.URL)
	assert.False(t, resp.UploadedAt.IsZero())
}

func TestUploadHandlerNoEventID(t *testing.T) {
	store := &fakeStorage{}
	h := uploadHandler(store, "http://localhost:8080/media", nil, &logging.NopLogger{})

	body, ct := multipartBody(t, "a.png", "image/png", []byte{1, 2, 3}, "")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.putKeys, 1)
	assert.True(t, strings.HasPrefix(store.putKeys[0], "events/common/"))
}

func TestUploadHandlerRejectsUnsupportedType(t *testing.T) {
	store := &fakeStorage{}
	h := uploadHandler(store, "http://localhost:8080/media", nil, &logging.NopLogger{})

	body, ct := multipartBody(t, "doc.svg", "image/svg+xml", []byte("<svg/>"), "")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Empty(t, store.putKeys)
}

func TestUploadHandlerMissingPart(t *testing.T) {
	h := uploadHandler(&fakeStorage{}, "http://localhost:8080/media", nil, &logging.NopLogger{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("event_id", "evt"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadHandlerMethodNotAllowed(t *testing.T) {
	h := uploadHandler(&fakeStorage{}, "http://localhost:8080/media", nil, &logging.NopLogger{})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/upload", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUploadHandlerStoreFailure(t *testing.T) {
	store := &fakeStorage{putErr: errors.New("boom")}
	h := uploadHandler(store, "http://localhost:8080/media", nil, &logging.NopLogger{})

	body, ct := multipartBody(t, "a.png", "image/png", []byte{1}, "")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDeleteHandlerOK(t *testing.T) {
	store := &fakeStorage{}
	h := deleteHandler(store, "http://localhost:8080/media", &logging.NopLogger{})

	payload := `{"image_url":"http://localhost:8080/media/events/evt/20240101T000000_ab.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/delete", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	h(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, store.removedKeys, 1)
	assert.Equal(t, "events/evt/20240101T000000_ab.jpg", store.removedKeys[0])
}

func TestDeleteHandlerForeignURL(t *testing.T) {
	store := &fakeStorage{}
	h := deleteHandler(store, "http://localhost:8080/media", &logging.NopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/delete",
		strings.NewReader(`{"image_url":"http://elsewhere.example/x.jpg"}`))
	rec := httptest.NewRecorder()

	h(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.removedKeys)
}

func TestDeleteHandlerBadBody(t *testing.T) {
	h := deleteHandler(&fakeStorage{}, "http://localhost:8080/media", &logging.NopLogger{})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/delete", strings.NewReader("{}")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAPIKeyMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := apiKeyMiddleware("secret")(next)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// health stays open
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	})
	h := corsMiddleware(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/upload", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
