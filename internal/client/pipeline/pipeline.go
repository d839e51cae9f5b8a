// Package pipeline orchestrates the media item lifecycle: ingestion with
// format correction and previews, optional automatic upload with client-side
// optimization, removal with best-effort remote cleanup, and primary-image
// maintenance.
//
// Per-item state machine:
//
//	idle → validating → (optimizing) → uploading → committed
//	validating → rejected            (item is never added)
//	uploading  → failed              (retry re-enters uploading)
//
// All collection mutation is serialized on one mutex, and asynchronous
// completions resolve by item id against the current state: a result arriving
// for an item that has since been removed is dropped, never re-inserted.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/eventhive/mediakit/internal/client/collection"
	"github.com/eventhive/mediakit/internal/client/models"
	"github.com/eventhive/mediakit/internal/client/optimize"
	"github.com/eventhive/mediakit/internal/client/preview"
	"github.com/eventhive/mediakit/internal/client/sniff"
	"github.com/eventhive/mediakit/internal/client/uploader"
	"github.com/eventhive/mediakit/internal/common"
	"github.com/eventhive/mediakit/internal/logging"
)

// Options configure a pipeline for the lifetime of one collection. AutoUpload
// is resolved here, once, at construction; no operation branches on any other
// mode flag.
type Options struct {
	MaxImages         int
	AutoUpload        bool
	EventID           string
	OptimizeThreshold int              // bytes; 0 means common.DefaultOptimizeThreshold
	Optimize          optimize.Options // zero value means optimize.DefaultOptions
}

func (o *Options) fill() {
	if o.MaxImages <= 0 {
		o.MaxImages = collection.DefaultMaxItems
	}
	if o.OptimizeThreshold <= 0 {
		o.OptimizeThreshold = common.DefaultOptimizeThreshold
	}
	if o.Optimize == (optimize.Options{}) {
		o.Optimize = optimize.DefaultOptions()
	}
}

// Rejected describes one input that was refused at validation time. Sibling
// files in the same batch are unaffected.
type Rejected struct {
	Name string
	Err  error
}

// IngestResult reports the outcome of one batch: items that were added,
// inputs that were rejected, and non-blocking informational notices.
type IngestResult struct {
	Added    []models.MediaItem
	Rejected []Rejected
	Notices  []models.Notice
}

// Pipeline drives one media collection. It never retains references handed to
// callers: every accessor returns a snapshot.
type Pipeline struct {
	mu       sync.Mutex
	col      collection.Collection
	store    uploader.Store
	previews *preview.Store
	opts     Options
	log      logging.Logger

	uploads sync.WaitGroup
}

// New builds a pipeline owning an empty collection.
func New(store uploader.Store, opts Options, log logging.Logger) *Pipeline {
	opts.fill()
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Pipeline{
		col:      collection.New(opts.MaxImages),
		store:    store,
		previews: preview.NewStore(),
		opts:     opts,
		log:      log,
	}
}

// NewWith builds a pipeline pre-populated from persisted items, as when
// editing an existing record. Items are normalized to the committed state.
func NewWith(store uploader.Store, existing []models.MediaItem, opts Options, log logging.Logger) (*Pipeline, error) {
	p := New(store, opts, log)

	items := make([]models.MediaItem, len(existing))
	for i, it := range existing {
		cp := it.Clone()
		cp.UploadState = models.UploadStateCommitted
		cp.UploadProgress = 100
		cp.Payload = nil
		items[i] = cp
	}

	col, err := collection.FromItems(items, p.opts.MaxImages)
	if err != nil {
		return nil, fmt.Errorf("prepopulate: %w", err)
	}
	p.col = col
	return p, nil
}

// Ingest validates and admits a batch of files. Each file independently ends
// up either added or rejected, never both. The first item admitted into an
// empty collection becomes primary. When the pipeline was constructed with
// AutoUpload, each admitted item's upload starts immediately; completion
// order is unrelated to ingestion order.
func (p *Pipeline) Ingest(ctx context.Context, files []models.Payload) IngestResult {
	var res IngestResult

	for _, f := range files {
		sniffed, err := sniff.Sniff(f)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejected{Name: f.Name, Err: err})
			continue
		}

		item := models.MediaItem{
			ID:          models.NewTempID(),
			Payload:     &sniffed.Payload,
			UploadState: models.UploadStateIdle,
		}

		loc, err := p.previews.Generate(sniffed.Payload)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejected{Name: f.Name, Err: err})
			continue
		}
		item.PreviewLocator = loc

		p.mu.Lock()
		next, err := p.col.Append(item)
		if err != nil {
			p.mu.Unlock()
			p.previews.Revoke(loc)
			res.Rejected = append(res.Rejected, Rejected{Name: f.Name, Err: err})
			continue
		}
		p.col = next
		added, _ := next.Find(item.ID)
		p.mu.Unlock()

		if sniffed.Corrected {
			res.Notices = append(res.Notices, models.Notice{
				ItemID:  item.ID,
				Message: fmt.Sprintf("format corrected automatically: %s is %s", f.Name, sniffed.Payload.MIME),
			})
		}
		res.Added = append(res.Added, added)

		if p.opts.AutoUpload {
			p.uploads.Add(1)
			go func(id string) {
				defer p.uploads.Done()
				if err := p.Upload(ctx, id); err != nil {
					p.log.Warn(ctx, "automatic upload failed", "id", id, "error", err)
				}
			}(item.ID)
		}
	}

	return res
}

// Upload transmits one item's payload to the remote store, optimizing it
// first when it exceeds the configured threshold. On success the item is
// committed, its remote locator set and its payload released. On failure the
// payload is preserved so Retry can run without re-prompting the user.
func (p *Pipeline) Upload(ctx context.Context, id string) error {
	p.mu.Lock()
	item, ok := p.col.Find(id)
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("item %q: %w", id, common.ErrNotFound)
	}
	if item.UploadState != models.UploadStateIdle && item.UploadState != models.UploadStateFailed {
		p.mu.Unlock()
		return fmt.Errorf("item %q is %s", id, item.UploadState)
	}
	if item.Payload == nil {
		p.mu.Unlock()
		return fmt.Errorf("item %q has no payload", id)
	}
	if !common.UploadableImageTypes[item.Payload.MIME] {
		p.mu.Unlock()
		return fmt.Errorf("%s: %w", item.Payload.MIME, common.ErrUploadUnsupported)
	}
	payload := *item.Payload
	p.col, _ = p.col.Update(id, func(m *models.MediaItem) {
		m.UploadState = models.UploadStateUploading
		m.UploadProgress = 0
		m.UploadError = ""
	})
	p.mu.Unlock()

	// Single enforcement point of the size threshold. Optimization failures
	// degrade to uploading the original bytes; they never fail the item.
	if payload.Size() > p.opts.OptimizeThreshold {
		optimized, err := optimize.Optimize(payload, p.opts.Optimize)
		if err != nil {
			p.log.Warn(ctx, "optimization failed, uploading original payload",
				"id", id, "name", payload.Name, "error", err)
		} else {
			payload = optimized
		}
	}

	result, err := p.store.Upload(ctx, payload, p.opts.EventID, func(pct int) {
		p.setProgress(id, pct)
	})

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.col.Find(id); !ok {
		// The item was removed while the transfer was in flight. Discard
		// the outcome; the caller already said goodbye to this image.
		p.log.Debug(ctx, "dropping completion for removed item", "id", id)
		return nil
	}

	if err != nil {
		p.col, _ = p.col.Update(id, func(m *models.MediaItem) {
			m.UploadState = models.UploadStateFailed
			m.UploadError = err.Error()
		})
		return fmt.Errorf("item %q: %w", id, err)
	}

	p.col, _ = p.col.Update(id, func(m *models.MediaItem) {
		m.UploadState = models.UploadStateCommitted
		m.UploadProgress = 100
		m.RemoteLocator = result.URL
		m.Payload = nil
	})
	p.log.Info(ctx, "upload committed", "id", id, "url", result.URL)
	return nil
}

// Retry re-enters the upload path for a failed item.
func (p *Pipeline) Retry(ctx context.Context, id string) error {
	p.mu.Lock()
	item, ok := p.col.Find(id)
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("item %q: %w", id, common.ErrNotFound)
	}
	if item.UploadState != models.UploadStateFailed {
		return fmt.Errorf("item %q is %s, only failed items can be retried", id, item.UploadState)
	}
	return p.Upload(ctx, id)
}

// Remove deletes an item locally and, when it holds a remote locator,
// requests remote deletion best-effort: a delete failure is logged and
// swallowed, never blocking the local removal. In-flight uploads for the
// removed item are not aborted; their eventual completion is discarded.
func (p *Pipeline) Remove(ctx context.Context, id string) error {
	p.mu.Lock()
	next, removed, ok := p.col.Remove(id)
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("item %q: %w", id, common.ErrNotFound)
	}
	p.col = next
	p.mu.Unlock()

	p.previews.Revoke(removed.PreviewLocator)

	if removed.RemoteLocator != "" {
		if err := p.store.Delete(ctx, removed.RemoteLocator); err != nil {
			p.log.Warn(ctx, "remote delete failed",
				"id", id, "url", removed.RemoteLocator, "error", err)
		}
	}
	return nil
}

// SetPrimary designates the given item as the collection's representative
// image, clearing the flag on every other item. Idempotent.
func (p *Pipeline) SetPrimary(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, err := p.col.SetPrimary(id)
	if err != nil {
		return err
	}
	p.col = next
	return nil
}

// SetAltText updates an item's accessibility label, independent of its
// upload state.
func (p *Pipeline) SetAltText(id, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, ok := p.col.Update(id, func(m *models.MediaItem) { m.AltText = text })
	if !ok {
		return fmt.Errorf("item %q: %w", id, common.ErrNotFound)
	}
	p.col = next
	return nil
}

// Items returns an ordered snapshot of the collection.
func (p *Pipeline) Items() []models.MediaItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.col.Items()
}

// Uploading reports whether any item is still mid-transfer.
func (p *Pipeline) Uploading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.col.Uploading()
}

// Committed returns the items holding a permanent remote locator.
func (p *Pipeline) Committed() []models.MediaItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.col.Committed()
}

// ResolvePreview answers a preview locator with raw bytes for display.
func (p *Pipeline) ResolvePreview(locator string) ([]byte, bool) {
	return p.previews.Resolve(locator)
}

// Wait blocks until all automatic uploads spawned so far have settled.
func (p *Pipeline) Wait() {
	p.uploads.Wait()
}

// Close waits for in-flight automatic uploads and releases every preview.
// Temporary payloads simply go away; they were never uploaded, so there is
// nothing to clean up remotely.
func (p *Pipeline) Close() {
	p.uploads.Wait()
	p.previews.Close()
}

func (p *Pipeline) setProgress(id string, pct int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.col, _ = p.col.Update(id, func(m *models.MediaItem) {
		if m.UploadState == models.UploadStateUploading {
			m.UploadProgress = pct
		}
	})
}

// IsLimitExceeded reports whether err is the per-item cap rejection, so UIs
// can phrase the message distinctly from format errors.
func IsLimitExceeded(err error) bool {
	return errors.Is(err, common.ErrLimitExceeded)
}
