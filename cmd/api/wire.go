package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"intake/internal/config"
	"intake/internal/database"
	"intake/internal/database/migration"
	"intake/internal/logger"
	"intake/internal/repository"
	fsrepo "intake/internal/repository/firestore"
	"intake/internal/repository/postgres"
	"intake/internal/service"
	"intake/internal/storage"
)

// application holds the long-lived store clients and the service built on them.
type application struct {
	repo    repository.RecordRepository
	store   storage.Storage
	svc     service.IntakeService
	closers []func() error
}

// newApplication connects both stores and builds the intake service. opts are applied after
// the configured collection, bucket and staging directory.
func newApplication(ctx context.Context, cfg *config.AppConfig, log *logger.Logger, opts ...service.Option) (*application, error) {
	a := &application{}

	repo, closeRepo, err := openDocStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.repo = repo
	a.closers = append(a.closers, closeRepo)

	store, err := openObjectStore(ctx, cfg, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.store = store
	if c, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, c.Close)
	}

	a.svc = service.NewIntakeService(repo, store, append([]service.Option{
		service.WithCollection(cfg.DocStore.Collection),
		service.WithContainer(cfg.ObjectStore.Bucket),
		service.WithTempDir(cfg.ArtifactDir),
		service.WithLogger(log),
	}, opts...)...)
	return a, nil
}

// Close releases the store clients in reverse order of creation.
func (a *application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// openDocStore connects the configured document store. The returned func releases it.
func openDocStore(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (repository.RecordRepository, func() error, error) {
	switch cfg.DocStore.Backend {
	case config.DocStoreFirestore:
		client, err := database.NewFirestore(ctx, cfg.DocStore.Firestore, cfg.CredentialPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("docstore_connected", "backend", config.DocStoreFirestore, "database", cfg.DocStore.Firestore.Database)
		return fsrepo.NewRecordFirestore(client), client.Close, nil

	case config.DocStorePostgres:
		db, err := openPostgres(ctx, cfg.DocStore.Postgres, log)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewRecordPostgres(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported document store backend %q", cfg.DocStore.Backend)
	}
}

func openPostgres(ctx context.Context, c config.DatabaseConfig, log *logger.Logger) (*sql.DB, error) {
	db, err := database.NewPostgres(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := migration.EnsureMigrated(ctx, db, log, c.Host); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("docstore_connected", "backend", config.DocStorePostgres, "db_host", c.Host)
	return db, nil
}

// openObjectStore connects the configured object store.
func openObjectStore(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (storage.Storage, error) {
	var (
		store storage.Storage
		err   error
	)
	switch cfg.ObjectStore.Backend {
	case config.ObjectStoreGCS:
		store, err = storage.NewGCS(ctx, cfg.ObjectStore.GCS, cfg.CredentialPath)
	case config.ObjectStoreMinIO:
		store, err = storage.NewMinIO(cfg.ObjectStore.MinIO, cfg.ObjectStore.Bucket)
	default:
		return nil, fmt.Errorf("unsupported object store backend %q", cfg.ObjectStore.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}
	log.Info("objectstore_ready", "backend", cfg.ObjectStore.Backend, "bucket", cfg.ObjectStore.Bucket)
	return store, nil
}
