// Package cli implements the interactive client driving the media pipeline:
// a small REPL to attach images to an event, watch their upload lifecycle,
// and manage the primary image.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/eventhive/mediakit/internal/client/config"
	"github.com/eventhive/mediakit/internal/client/models"
	"github.com/eventhive/mediakit/internal/client/optimize"
	"github.com/eventhive/mediakit/internal/client/pipeline"
	"github.com/eventhive/mediakit/internal/client/uploader"
	"github.com/eventhive/mediakit/internal/logging"
)

type App struct {
	config *config.Config
	pipe   *pipeline.Pipeline
}

func NewApp(c *config.Config) *App {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	store := uploader.NewHTTPStore(c.UploadURL, c.DeleteURL, c.RequestTimeout, log)
	pipe := pipeline.New(store, pipeline.Options{
		MaxImages:         c.MaxImages,
		AutoUpload:        c.AutoUpload,
		EventID:           c.EventID,
		OptimizeThreshold: c.OptimizeThreshold,
		Optimize: optimize.Options{
			MaxWidth:  c.MaxWidth,
			MaxHeight: c.MaxHeight,
			Quality:   c.Quality,
		},
	}, log)

	return &App{config: c, pipe: pipe}
}

func (a *App) Run(ctx context.Context) {
	defer a.pipe.Close()
	runREPL(ctx, a, a.status, os.Stdin)
}

func (a *App) status() string {
	items := a.pipe.Items()
	s := fmt.Sprintf("%d/%d", len(items), a.config.MaxImages)
	if a.pipe.Uploading() {
		s += " uploading"
	}
	return s
}

// Add ingests files from disk. The declared MIME type is left empty on
// purpose: the pipeline's sniffer derives it from the file name, the same
// path a browser-origin octet-stream would take.
func (a *App) Add(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("usage: add <path> [path...]")
	}

	var payloads []models.Payload
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		p := models.Payload{Name: filepath.Base(path), Data: data}
		if info, err := os.Stat(path); err == nil {
			p.ModTime = info.ModTime()
		}
		payloads = append(payloads, p)
	}

	res := a.pipe.Ingest(ctx, payloads)
	for _, n := range res.Notices {
		printlnFn(n.Message)
	}
	for _, r := range res.Rejected {
		printlnFn(fmt.Sprintf("rejected %s: %v", r.Name, r.Err))
	}
	printlnFn(fmt.Sprintf("added %d of %d", len(res.Added), len(paths)))
	return nil
}

func (a *App) List(ctx context.Context) error {
	items := a.pipe.Items()
	if len(items) == 0 {
		printlnFn("no images attached")
		return nil
	}
	for _, it := range items {
		mark := " "
		if it.IsPrimary {
			mark = "*"
		}
		line := fmt.Sprintf("%s %s  %s", mark, it.ID, it.UploadState)
		if it.UploadState == models.UploadStateUploading {
			line += fmt.Sprintf(" %d%%", it.UploadProgress)
		}
		if it.RemoteLocator != "" {
			line += "  " + it.RemoteLocator
		}
		if it.UploadError != "" {
			line += "  (" + it.UploadError + ")"
		}
		printlnFn(line)
	}
	return nil
}

func (a *App) Upload(ctx context.Context, id string) error {
	return a.pipe.Upload(ctx, id)
}

func (a *App) Retry(ctx context.Context, id string) error {
	return a.pipe.Retry(ctx, id)
}

func (a *App) Remove(ctx context.Context, id string) error {
	return a.pipe.Remove(ctx, id)
}

func (a *App) SetPrimary(ctx context.Context, id string) error {
	return a.pipe.SetPrimary(id)
}

func (a *App) SetAltText(ctx context.Context, id, text string) error {
	return a.pipe.SetAltText(id, text)
}
