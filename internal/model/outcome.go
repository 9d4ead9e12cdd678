package model

// Outcome codes.
const (
	CodeOK                 = "ok"
	CodeMissingField       = "missing_field"
	CodeInvalidEmail       = "invalid_email"
	CodeInvalidPhone       = "invalid_phone"
	CodeWriteFailed        = "write_failed"
	CodeUploadFailed       = "upload_failed"
	CodeCompensationFailed = "compensation_failed"
	CodeInternal           = "internal_error"
)

// Outcome is the result of a submission as presented to the user.
// Message is always safe to render.
type Outcome struct {
	Success   bool   `json:"success"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RecordID  string `json:"record_id,omitempty"`
	ObjectKey string `json:"object_key,omitempty"`
}
