package service

import (
	"errors"
	"fmt"

	"intake/internal/model"
)

// ErrSubmission matches every error produced by a failed submission.
var ErrSubmission = errors.New("submission failed")

// Validation failure reasons.
const (
	ReasonMissingField = "missing field"
	ReasonInvalidEmail = "invalid email"
	ReasonInvalidPhone = "invalid phone"
)

// ValidationError reports bad input. Nothing was written.
type ValidationError struct {
	Reason string
	Field  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Reason + ": " + e.Field
}

func (e *ValidationError) Is(target error) bool { return target == ErrSubmission }

func (e *ValidationError) code() string {
	switch e.Reason {
	case ReasonInvalidEmail:
		return model.CodeInvalidEmail
	case ReasonInvalidPhone:
		return model.CodeInvalidPhone
	default:
		return model.CodeMissingField
	}
}

// WriteError reports a failed record insert. Nothing was written, so there is nothing to undo.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string        { return fmt.Sprintf("write record: %v", e.Err) }
func (e *WriteError) Unwrap() error        { return e.Err }
func (e *WriteError) Is(target error) bool { return target == ErrSubmission }
func (e *WriteError) code() string         { return model.CodeWriteFailed }

// UploadError reports a failed artifact upload after the record was written.
// The record identified by RecordID has been deleted again.
type UploadError struct {
	RecordID string
	Key      string
	Err      error
}

func (e *UploadError) Error() string        { return fmt.Sprintf("upload artifact %s: %v", e.Key, e.Err) }
func (e *UploadError) Unwrap() error        { return e.Err }
func (e *UploadError) Is(target error) bool { return target == ErrSubmission }
func (e *UploadError) code() string         { return model.CodeUploadFailed }

// CompensationError reports that the rollback delete failed after an upload failure.
// The record identified by RecordID is orphaned; it is not retried.
type CompensationError struct {
	RecordID string
	Upload   *UploadError
	Err      error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("%v; rollback delete of record %s failed: %v", e.Upload, e.RecordID, e.Err)
}

func (e *CompensationError) Unwrap() []error      { return []error{e.Upload, e.Err} }
func (e *CompensationError) Is(target error) bool { return target == ErrSubmission }
func (e *CompensationError) code() string         { return model.CodeCompensationFailed }

const (
	msgSuccess      = "Your estimation has been submitted successfully!"
	msgMissingField = "Please fill in all fields."
	msgInvalidEmail = "Please enter a valid email address."
	msgInvalidPhone = "Please enter a valid phone number (10-15 digits)."
	msgWriteFailed  = "Submission failed: we could not save your details. Please try again."
	msgStoreFailed  = "Submission failed: we could not store your estimate request. Please try again."
	msgInternal     = "Submission failed: something went wrong. Please try again."
)

// failureOutcome maps an error to the message shown to the user. Error text is never included.
func failureOutcome(err error) model.Outcome {
	var c interface{ code() string }
	code := model.CodeInternal
	if errors.As(err, &c) {
		code = c.code()
	}

	msg := msgInternal
	switch code {
	case model.CodeMissingField:
		msg = msgMissingField
	case model.CodeInvalidEmail:
		msg = msgInvalidEmail
	case model.CodeInvalidPhone:
		msg = msgInvalidPhone
	case model.CodeWriteFailed:
		msg = msgWriteFailed
	case model.CodeUploadFailed, model.CodeCompensationFailed:
		msg = msgStoreFailed
	}
	return model.Outcome{Success: false, Code: code, Message: msg}
}
