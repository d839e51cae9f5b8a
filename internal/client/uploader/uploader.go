// Package uploader implements the HTTP client for the remote media store:
// a multipart upload call with progress reporting and a best-effort delete
// call. Transient server errors are retried with exponential backoff.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/eventhive/mediakit/internal/client/models"
	"github.com/eventhive/mediakit/internal/common"
	"github.com/eventhive/mediakit/internal/logging"
)

// UploadResult is the success response of the upload endpoint. The pipeline
// surfaces only URL to its caller.
type UploadResult struct {
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Store is the remote media store as the orchestrator sees it. The progress
// callback receives an integer percentage in 0–100 and may be nil.
type Store interface {
	Upload(ctx context.Context, p models.Payload, eventID string, progress func(int)) (UploadResult, error)
	Delete(ctx context.Context, imageURL string) error
}

// HTTPStore talks to fixed upload and delete endpoints over HTTP.
type HTTPStore struct {
	uploadURL string
	deleteURL string
	hc        *http.Client
	log       logging.Logger

	maxRetries   uint64
	retryBackoff time.Duration
}

// NewHTTPStore builds a store client. timeout bounds each request; the
// pipeline itself enforces no timeout of its own.
func NewHTTPStore(uploadURL, deleteURL string, timeout time.Duration, log logging.Logger) *HTTPStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &HTTPStore{
		uploadURL:    uploadURL,
		deleteURL:    deleteURL,
		hc:           &http.Client{Timeout: timeout},
		log:          log,
		maxRetries:   2,
		retryBackoff: 200 * time.Millisecond,
	}
}

// Upload sends p as a multipart form ("image" part plus an optional
// "event_id" field) and decodes the store's JSON response.
func (s *HTTPStore) Upload(ctx context.Context, p models.Payload, eventID string, progress func(int)) (UploadResult, error) {
	body, contentType, err := encodeForm(p, eventID)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	var result UploadResult
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.retryBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		r := &progressReader{r: bytes.NewReader(body), total: int64(len(body)), fn: progress}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, r)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)
		req.ContentLength = int64(len(body))

		resp, err := s.hc.Do(req)
		if err != nil {
			// Network errors are worth another attempt.
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			drainErr := fmt.Errorf("status %d: %s", resp.StatusCode, snippet(resp.Body))
			return retry.RetryableError(drainErr)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("status %d: %s", resp.StatusCode, snippet(resp.Body))
		}
		return json.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("%s: %w: %v", p.Name, common.ErrUploadFailed, err)
	}

	if progress != nil {
		progress(100)
	}
	return result, nil
}

// Delete asks the store to remove the object behind imageURL. Callers treat
// failures as non-blocking; the error is returned for logging only.
func (s *HTTPStore) Delete(ctx context.Context, imageURL string) error {
	payload, err := json.Marshal(map[string]string{"image_url": imageURL})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeleteFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.deleteURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeleteFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeleteFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", common.ErrDeleteFailed, resp.StatusCode, snippet(resp.Body))
	}
	return nil
}

// encodeForm builds the multipart body once so retries can replay it.
func encodeForm(p models.Payload, eventID string) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, p.Name))
	h.Set("Content-Type", p.MIME)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(p.Data); err != nil {
		return nil, "", err
	}

	if eventID != "" {
		if err := mw.WriteField("event_id", eventID); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

// progressReader reports consumed bytes as an integer percentage while the
// HTTP client streams the request body.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	fn    func(int)
}

func (pr *progressReader) Read(b []byte) (int, error) {
	n, err := pr.r.Read(b)
	pr.read += int64(n)
	if pr.fn != nil && pr.total > 0 {
		pct := int(pr.read * 100 / pr.total)
		if pct > 100 {
			pct = 100
		}
		pr.fn(pct)
	}
	return n, err
}

func snippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
