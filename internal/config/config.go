package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Document store backends.
const (
	DocStoreFirestore = "firestore"
	DocStorePostgres  = "postgres"
)

// Object store backends.
const (
	ObjectStoreGCS   = "gcs"
	ObjectStoreMinIO = "minio"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// FirestoreConfig holds settings for the Firestore document store.
type FirestoreConfig struct {
	ProjectID string
	Database  string
}

// DocStoreConfig selects the document store backend and the collection records are written to.
type DocStoreConfig struct {
	Backend    string
	Collection string
	Firestore  FirestoreConfig
	Postgres   DatabaseConfig
}

// GCSConfig holds Google Cloud Storage settings.
type GCSConfig struct {
	EmulatorHost string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// ObjectStoreConfig selects the object store backend and the bucket artifacts are uploaded to.
type ObjectStoreConfig struct {
	Backend string
	Bucket  string
	GCS     GCSConfig
	MinIO   MinIOConfig
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port           string
	LogMode        string
	CredentialPath string
	ArtifactDir    string
	DocStore       DocStoreConfig
	ObjectStore    ObjectStoreConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() *AppConfig {
	return &AppConfig{
		Port:           getEnv("PORT", "8080"),
		LogMode:        getEnv("LOG_MODE", "development"),
		CredentialPath: getEnv("CREDENTIAL_PATH", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),
		ArtifactDir:    getEnv("ARTIFACT_TEMP_DIR", ""),
		DocStore: DocStoreConfig{
			Backend:    getEnv("DOCSTORE_BACKEND", DocStoreFirestore),
			Collection: getEnv("DOCSTORE_COLLECTION", "user_submissions"),
			Firestore: FirestoreConfig{
				ProjectID: getEnv("FIRESTORE_PROJECT_ID", ""),
				Database:  getEnv("FIRESTORE_DATABASE", "estimator"),
			},
			Postgres: DatabaseConfig{
				Host:               getEnv("DB_HOST", ""),
				Port:               getEnv("DB_PORT", "5432"),
				User:               getEnv("DB_USER", ""),
				Password:           getEnv("DB_PASSWORD", ""),
				Name:               getEnv("DB_NAME", ""),
				SSLMode:            getEnv("DB_SSLMODE", "disable"),
				MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
				MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
				ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			},
		},
		ObjectStore: ObjectStoreConfig{
			Backend: getEnv("OBJECTSTORE_BACKEND", ObjectStoreGCS),
			Bucket:  getEnv("OBJECTSTORE_BUCKET", "mowingestimation"),
			GCS: GCSConfig{
				EmulatorHost: getEnv("STORAGE_EMULATOR_HOST", ""),
			},
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
	}
}

// Validate checks that every field required by the selected backends is present.
// All problems are reported together.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.DocStore.Collection == "" {
		errs = append(errs, errors.New("DOCSTORE_COLLECTION is required"))
	}
	if c.ObjectStore.Bucket == "" {
		errs = append(errs, errors.New("OBJECTSTORE_BUCKET is required"))
	}

	switch c.DocStore.Backend {
	case DocStoreFirestore:
		if c.DocStore.Firestore.Database == "" {
			errs = append(errs, errors.New("FIRESTORE_DATABASE is required"))
		}
		if c.CredentialPath == "" && os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
			errs = append(errs, errors.New("CREDENTIAL_PATH is required for the firestore backend"))
		}
	case DocStorePostgres:
		pg := c.DocStore.Postgres
		if pg.Host == "" || pg.User == "" || pg.Name == "" {
			errs = append(errs, errors.New("DB_HOST, DB_USER and DB_NAME are required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DOCSTORE_BACKEND %q", c.DocStore.Backend))
	}

	switch c.ObjectStore.Backend {
	case ObjectStoreGCS:
		if c.CredentialPath == "" && c.ObjectStore.GCS.EmulatorHost == "" {
			errs = append(errs, errors.New("CREDENTIAL_PATH is required for the gcs backend"))
		}
	case ObjectStoreMinIO:
		m := c.ObjectStore.MinIO
		if m.Endpoint == "" || m.AccessKey == "" || m.SecretKey == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported OBJECTSTORE_BACKEND %q", c.ObjectStore.Backend))
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
