package database

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"

	"intake/internal/config"
	"intake/internal/gcp"
)

// emulatorProjectID is used when the emulator is active and no project is configured.
const emulatorProjectID = "intake-local"

var newFirestoreClient = firestore.NewClientWithDatabase

// NewFirestore creates a client for the named Firestore database.
// Without an explicit project ID the project is detected from the credential.
func NewFirestore(ctx context.Context, c config.FirestoreConfig, credentialPath string) (*firestore.Client, error) {
	if c.Database == "" {
		return nil, fmt.Errorf("invalid firestore config: database is required")
	}

	projectID := c.ProjectID
	if projectID == "" {
		if strings.TrimSpace(os.Getenv("FIRESTORE_EMULATOR_HOST")) != "" {
			projectID = emulatorProjectID
		} else {
			projectID = firestore.DetectProjectID
		}
	}

	client, err := newFirestoreClient(ctx, projectID, c.Database, gcp.ClientOptions(credentialPath)...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}
