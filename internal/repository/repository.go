package repository

import (
	"context"

	"intake/internal/model"
)

// Package repository contains data access abstractions for submission records.
// Implementations live in subpackages (postgres, firestore).

// RecordRepository is a write-only document store for records.
// Records are grouped into named collections.
type RecordRepository interface {
	// Insert stores the record in collection and returns the store-assigned ID.
	Insert(ctx context.Context, collection string, rec *model.Record) (string, error)

	// Delete removes the record with the given ID. Deleting a missing record is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
