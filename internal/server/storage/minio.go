// Package storage backs the dev upload server with a MinIO (or any
// S3-compatible) bucket.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage is the narrow surface the HTTP handlers need; it keeps them
// unit-testable without a running MinIO.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
}

type MinioStorage struct {
	client *minio.Client
	bucket string

	ensureOnce sync.Once
	ensureErr  error
}

// NewMinioStorage connects to an S3-compatible endpoint. The transport keeps
// generous idle-connection limits; the default pool of 2 per host churns
// connections when many images are stored concurrently.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStorage, error) {
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	if i := strings.Index(endpoint, "/"); i != -1 {
		endpoint = endpoint[:i]
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:    useSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &MinioStorage{client: client, bucket: strings.TrimSpace(bucket)}, nil
}

func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	if s.bucket == "" {
		return fmt.Errorf("bucket name is empty")
	}

	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = err
			return
		}
		if exists {
			return
		}
		s.ensureErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	})

	if s.ensureErr != nil {
		return fmt.Errorf("ensure bucket %q: %w", s.bucket, s.ensureErr)
	}
	return nil
}

func (s *MinioStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if key == "" || body == nil {
		return fmt.Errorf("invalid put arguments")
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *MinioStorage) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// BuildObjectKey derives a collision-free key from the uploaded file name,
// keeping the extension so content types survive a round-trip.
func BuildObjectKey(eventID, fileName string) (string, error) {
	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	stamp := time.Now().UTC().Format("20060102T150405")
	prefix := "events/common"
	if eventID != "" {
		prefix = "events/" + eventID
	}
	return fmt.Sprintf("%s/%s_%s%s", prefix, stamp, hex.EncodeToString(rnd), ext), nil
}

// KeyFromURL recovers the object key from a public media URL produced with
// the given base. Returns false when the URL does not belong to this store.
func KeyFromURL(publicBase, imageURL string) (string, bool) {
	base := strings.TrimSuffix(publicBase, "/") + "/"
	if !strings.HasPrefix(imageURL, base) {
		return "", false
	}
	key := strings.TrimPrefix(imageURL, base)
	if key == "" {
		return "", false
	}
	return key, true
}

// PublicURL builds the URL clients use to reach a stored object.
func PublicURL(publicBase, key string) string {
	return strings.TrimSuffix(publicBase, "/") + "/" + key
}
