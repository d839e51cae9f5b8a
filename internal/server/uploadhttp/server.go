// Package uploadhttp is the dev upload endpoint the media pipeline talks to:
// it accepts the multipart upload call, stores bytes verbatim in object
// storage and serves the delete call. No server-side image processing
// happens here.
package uploadhttp

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eventhive/mediakit/internal/logging"
	"github.com/eventhive/mediakit/internal/server/config"
	"github.com/eventhive/mediakit/internal/server/metrics"
	"github.com/eventhive/mediakit/internal/server/storage"
)

func Run(cfg config.Config, log logging.Logger) error {
	store, err := storage.NewMinioStorage(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.UseSSL)
	if err != nil {
		return err
	}

	m := metrics.New()

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", uploadHandler(store, cfg.PublicURL, m, log))
	mux.HandleFunc("/delete", deleteHandler(store, cfg.PublicURL, log))
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/health/", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	ctx := context.Background()
	handler := Chain(corsMiddleware, logMiddleware(log), metricsMiddleware(m))(mux)
	if cfg.APIKey != "" {
		handler = apiKeyMiddleware(cfg.APIKey)(handler)
		log.Info(ctx, "API key auth enabled")
	}

	log.Info(ctx, "upload server listening", "addr", cfg.Listen, "bucket", cfg.Bucket)
	return http.ListenAndServe(cfg.Listen, handler)
}
