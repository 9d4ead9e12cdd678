package gcp

import (
	"strings"

	"google.golang.org/api/option"
)

// ClientOptions turns the configured service-account credential into client options.
// The value may be a path to a key file or the key JSON itself. Empty means application
// default credentials.
func ClientOptions(credential string) []option.ClientOption {
	creds := strings.TrimSpace(credential)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}
