package service

import (
	"regexp"
	"strings"

	"intake/internal/model"
)

var (
	emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// Validate trims every field and checks the submission. The first failing rule wins:
// missing field, then email shape, then phone digit count.
func Validate(in model.Submission) (model.Submission, error) {
	s := model.Submission{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Address:   strings.TrimSpace(in.Address),
		City:      strings.TrimSpace(in.City),
		Zipcode:   strings.TrimSpace(in.Zipcode),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
	}

	fields := []struct{ name, value string }{
		{"first_name", s.FirstName},
		{"last_name", s.LastName},
		{"address", s.Address},
		{"city", s.City},
		{"zipcode", s.Zipcode},
		{"email", s.Email},
		{"phone", s.Phone},
	}
	for _, f := range fields {
		if f.value == "" {
			return model.Submission{}, &ValidationError{Reason: ReasonMissingField, Field: f.name}
		}
	}

	if !emailPattern.MatchString(s.Email) {
		return model.Submission{}, &ValidationError{Reason: ReasonInvalidEmail, Field: "email"}
	}
	if !phonePattern.MatchString(nonDigits.ReplaceAllString(s.Phone, "")) {
		return model.Submission{}, &ValidationError{Reason: ReasonInvalidPhone, Field: "phone"}
	}
	return s, nil
}
