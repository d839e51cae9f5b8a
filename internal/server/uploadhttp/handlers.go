package uploadhttp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/eventhive/mediakit/internal/common"
	"github.com/eventhive/mediakit/internal/logging"
	"github.com/eventhive/mediakit/internal/server/metrics"
	"github.com/eventhive/mediakit/internal/server/storage"
)

const maxUploadMemory = 32 << 20

// uploadResponse is the success body of the upload call. Field names are the
// wire contract the client pipeline decodes.
type uploadResponse struct {
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func uploadHandler(store storage.ObjectStorage, publicBase string, m *metrics.Metrics, log logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		f, hdr, err := r.FormFile("image")
		if err != nil {
			http.Error(w, "missing image part", http.StatusBadRequest)
			return
		}
		defer f.Close()

		contentType := hdr.Header.Get("Content-Type")
		if !common.UploadableImageTypes[contentType] {
			http.Error(w, "unsupported media type: "+contentType, http.StatusUnsupportedMediaType)
			return
		}

		eventID := r.FormValue("event_id")

		if err := store.EnsureBucket(r.Context()); err != nil {
			log.Error(r.Context(), "ensure bucket failed", "error", err)
			http.Error(w, "storage unavailable", http.StatusInternalServerError)
			return
		}

		key, err := storage.BuildObjectKey(eventID, hdr.Filename)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := store.Put(r.Context(), key, f, hdr.Size, contentType); err != nil {
			log.Error(r.Context(), "store object failed", "key", key, "error", err)
			http.Error(w, "store failed", http.StatusInternalServerError)
			return
		}

		if m != nil {
			m.UploadBytes.Observe(float64(hdr.Size))
		}
		log.Info(r.Context(), "stored media object",
			"key", key, "size", hdr.Size, "event_id", eventID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(uploadResponse{
			URL:        storage.PublicURL(publicBase, key),
			Filename:   hdr.Filename,
			Size:       hdr.Size,
			MimeType:   contentType,
			UploadedAt: time.Now().UTC(),
		})
	}
}

type deleteRequest struct {
	ImageURL string `json:"image_url"`
}

func deleteHandler(store storage.ObjectStorage, publicBase string, log logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req deleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageURL == "" {
			http.Error(w, "image_url required", http.StatusBadRequest)
			return
		}

		key, ok := storage.KeyFromURL(publicBase, req.ImageURL)
		if !ok {
			http.Error(w, "unknown media url", http.StatusBadRequest)
			return
		}

		if err := store.Remove(r.Context(), key); err != nil {
			log.Error(r.Context(), "remove object failed", "key", key, "error", err)
			http.Error(w, "delete failed", http.StatusInternalServerError)
			return
		}

		log.Info(r.Context(), "deleted media object", "key", key)
		w.WriteHeader(http.StatusNoContent)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
