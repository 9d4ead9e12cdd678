package service

import (
	"fmt"
	"os"
	"strings"
	"time"

	"intake/internal/model"
)

var keyPartReplacer = strings.NewReplacer(" ", "", ",", "")

// RenderArtifact formats the identity fields of a submission as the plain-text summary.
func RenderArtifact(s model.Submission) string {
	return fmt.Sprintf("Name: %s %s\nAddress: %s, %s, %s\nEmail: %s\nPhone: %s",
		s.FirstName, s.LastName,
		s.Address, s.City, s.Zipcode,
		s.Email,
		s.Phone,
	)
}

// ObjectKey derives the remote key: user_data_<YYYYMMDD>/<address>_<zip>.txt with spaces and
// commas removed. The date is taken in UTC.
func ObjectKey(s model.Submission, at time.Time) string {
	return fmt.Sprintf("user_data_%s/%s_%s.txt",
		at.UTC().Format("20060102"),
		keyPartReplacer.Replace(s.Address),
		keyPartReplacer.Replace(s.Zipcode),
	)
}

// stageArtifact writes text to a new temp file in dir. The returned cleanup removes it.
func stageArtifact(dir, text string) (string, func(), error) {
	f, err := os.CreateTemp(dir, "user_info_*.txt")
	if err != nil {
		return "", func() {}, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }

	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), cleanup, nil
}
