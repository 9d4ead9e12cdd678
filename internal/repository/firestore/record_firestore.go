package firestore

import (
	"context"
	"errors"

	gcfirestore "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"intake/internal/model"
	"intake/internal/repository"
)

// RecordFirestore stores records as Firestore documents with auto-generated IDs.
type RecordFirestore struct {
	client *gcfirestore.Client
}

// NewRecordFirestore creates a new RecordFirestore repository.
func NewRecordFirestore(client *gcfirestore.Client) *RecordFirestore {
	return &RecordFirestore{client: client}
}

var _ repository.RecordRepository = (*RecordFirestore)(nil)

// Insert creates a new document in collection and returns its generated ID.
func (r *RecordFirestore) Insert(ctx context.Context, collection string, rec *model.Record) (string, error) {
	ref := r.client.Collection(collection).NewDoc()
	if _, err := ref.Create(ctx, rec); err != nil {
		return "", err
	}
	return ref.ID, nil
}

// Delete removes the document. Firestore treats deleting a missing document as success.
func (r *RecordFirestore) Delete(ctx context.Context, collection, id string) error {
	_, err := r.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

// Ping lists at most one root collection to confirm the database answers.
func (r *RecordFirestore) Ping(ctx context.Context) error {
	it := r.client.Collections(ctx)
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}
