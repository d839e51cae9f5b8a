// Package config reads the dev upload server's settings from the
// environment. The entrypoint loads a .env file first, so local runs need no
// exported variables.
package config

import (
	"os"
	"strings"
)

type Config struct {
	Endpoint  string // MinIO/S3 endpoint host:port
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Listen    string
	APIKey    string // empty disables API-key auth
	PublicURL string // base URL clients use to reach stored objects
}

func Load() Config {
	return Config{
		Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		Bucket:    getEnv("MINIO_BUCKET", "event-media"),
		UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		Listen:    getEnv("LISTEN_ADDR", ":8080"),
		APIKey:    getEnv("API_KEY", ""),
		PublicURL: strings.TrimSuffix(getEnv("PUBLIC_URL", "http://localhost:8080/media"), "/"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
