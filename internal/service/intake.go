package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"intake/internal/logger"
	"intake/internal/model"
	"intake/internal/repository"
	"intake/internal/storage"
)

const (
	DefaultCollection = "user_submissions"
	DefaultContainer  = "mowingestimation"
)

var tracer = otel.Tracer("intake/internal/service")

// IntakeService defines the submission use case.
type IntakeService interface {
	// Submit validates the form, writes the record, then uploads the text artifact.
	// If the upload fails the record is deleted again (best effort).
	// It never returns an error: every failure becomes an unsuccessful Outcome.
	Submit(ctx context.Context, in model.Submission) model.Outcome
}

// Recorder observes finished submissions, keyed by outcome code.
type Recorder interface {
	ObserveSubmission(code string, elapsed time.Duration)
}

// Option configures an intake service.
type Option func(*intakeService)

// WithCollection sets the document store collection records are written to.
func WithCollection(name string) Option {
	return func(s *intakeService) { s.collection = name }
}

// WithContainer sets the object store bucket artifacts are uploaded to.
func WithContainer(name string) Option {
	return func(s *intakeService) { s.container = name }
}

// WithTempDir sets where artifacts are staged before upload. Empty means os.TempDir.
func WithTempDir(dir string) Option {
	return func(s *intakeService) { s.tempDir = dir }
}

func WithClock(now func() time.Time) Option {
	return func(s *intakeService) { s.now = now }
}

func WithLogger(log *logger.Logger) Option {
	return func(s *intakeService) { s.log = log }
}

func WithRecorder(r Recorder) Option {
	return func(s *intakeService) { s.recorder = r }
}

// intakeService is a concrete implementation of IntakeService.
type intakeService struct {
	repo       repository.RecordRepository
	store      storage.Storage
	collection string
	container  string
	tempDir    string
	now        func() time.Time
	log        *logger.Logger
	recorder   Recorder
}

// NewIntakeService constructs a new IntakeService.
func NewIntakeService(repo repository.RecordRepository, store storage.Storage, opts ...Option) IntakeService {
	s := &intakeService{
		repo:       repo,
		store:      store,
		collection: DefaultCollection,
		container:  DefaultContainer,
		now:        time.Now,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("service", "IntakeService")
	return s
}

type receipt struct {
	recordID string
	key      string
}

func (s *intakeService) Submit(ctx context.Context, in model.Submission) (out model.Outcome) {
	begin := time.Now()
	log := s.log.For(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error("submission panicked", "panic", fmt.Sprint(r))
			out = failureOutcome(fmt.Errorf("panic: %v", r))
		}
		if s.recorder != nil {
			s.recorder.ObserveSubmission(out.Code, time.Since(begin))
		}
	}()

	res, err := s.submit(ctx, in)
	if err != nil {
		s.logFailure(log, err)
		return failureOutcome(err)
	}

	log.Info("submission stored", "record_id", res.recordID, "object_key", res.key)
	return model.Outcome{
		Success:   true,
		Code:      model.CodeOK,
		Message:   msgSuccess,
		RecordID:  res.recordID,
		ObjectKey: res.key,
	}
}

func (s *intakeService) submit(ctx context.Context, in model.Submission) (res *receipt, err error) {
	ctx, span := tracer.Start(ctx, "intake.submit")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	sub, err := Validate(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rec := model.NewRecord(sub, now)
	key := ObjectKey(sub, now)
	span.SetAttributes(attribute.String("intake.object_key", key))

	path, cleanup, err := stageArtifact(s.tempDir, RenderArtifact(sub))
	if err != nil {
		return nil, fmt.Errorf("stage artifact: %w", err)
	}
	defer cleanup()

	id, err := s.repo.Insert(ctx, s.collection, rec)
	if err != nil {
		return nil, &WriteError{Err: err}
	}
	span.SetAttributes(attribute.String("intake.record_id", id))

	// The record exists now; finish the upload or the rollback even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	if err := s.upload(ctx, path, key); err != nil {
		upErr := &UploadError{RecordID: id, Key: key, Err: err}
		if delErr := s.repo.Delete(ctx, s.collection, id); delErr != nil {
			return nil, &CompensationError{RecordID: id, Upload: upErr, Err: delErr}
		}
		s.log.For(ctx).Warn("record rolled back after upload failure", "record_id", id, "object_key", key)
		return nil, upErr
	}

	return &receipt{recordID: id, key: key}, nil
}

// upload calls the object store, turning a panic into an error so the record is still rolled back.
func (s *intakeService) upload(ctx context.Context, path, key string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("upload panicked: %v", r)
		}
	}()
	return s.store.Upload(ctx, path, s.container, key)
}

func (s *intakeService) logFailure(log *logger.Logger, err error) {
	var (
		verr *ValidationError
		cerr *CompensationError
	)
	switch {
	case errors.As(err, &verr):
		log.Info("submission rejected", "reason", verr.Reason, "field", verr.Field)
	case errors.As(err, &cerr):
		log.Error("rollback failed, record orphaned",
			"record_id", cerr.RecordID,
			"collection", s.collection,
			"error", err.Error(),
		)
	default:
		log.Error("submission failed", "error", err.Error())
	}
}
