package storage

import (
	"context"
	"errors"
	"strings"
)

// Package storage contains object storage adapters (Google Cloud Storage and S3-compatible).

// ErrContainerNotFound is returned when the target bucket does not exist.
var ErrContainerNotFound = errors.New("container not found")

// Storage uploads local files to an object store.
// Upload is a single blocking call that either stores the whole file or fails; it never retries.
type Storage interface {
	// Upload copies the file at localPath to key inside container, replacing any existing object.
	Upload(ctx context.Context, localPath, container, key string) error
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".txt"):
		return "text/plain; charset=utf-8"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
