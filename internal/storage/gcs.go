package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"intake/internal/config"
	"intake/internal/gcp"
)

// gcsStorage implements Storage on Google Cloud Storage.
// It is safe for concurrent use by multiple goroutines.
type gcsStorage struct {
	client *gcs.Client
}

// NewGCS creates a Cloud Storage client authenticated with the service-account credential.
// When an emulator host is configured the client talks to it without authentication.
// The emulator is selected through client options only; process environment is left untouched.
func NewGCS(ctx context.Context, cfg config.GCSConfig, credentialPath string) (Storage, error) {
	var opts []option.ClientOption
	if endpoint := emulatorEndpoint(cfg.EmulatorHost); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	} else {
		opts = append(gcp.ClientOptions(credentialPath), option.WithScopes(gcs.ScopeReadWrite))
	}

	cli, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &gcsStorage{client: cli}, nil
}

// emulatorEndpoint turns an emulator host ("localhost:4443" or "http://localhost:4443/")
// into the JSON API base URL. Empty input yields "".
func emulatorEndpoint(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return ""
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return host + "/storage/v1/"
}

// Close releases the underlying client.
func (g *gcsStorage) Close() error {
	return g.client.Close()
}

// Upload streams the local file into a new object generation.
func (g *gcsStorage) Upload(ctx context.Context, localPath, container, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	bkt := g.client.Bucket(container)
	if _, err := bkt.Attrs(ctx); err != nil {
		if errors.Is(err, gcs.ErrBucketNotExist) {
			return fmt.Errorf("%w: %s", ErrContainerNotFound, container)
		}
		return fmt.Errorf("bucket %q: %w", container, err)
	}

	w := bkt.Object(key).NewWriter(ctx)
	w.ContentType = contentTypeForKey(key)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}
