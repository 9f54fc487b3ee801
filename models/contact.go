package models

import "strings"

// ContactSubmission is the body posted by the site's contact form.
type ContactSubmission struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken,omitempty"`
}

// Normalize trims surrounding whitespace from the required fields.
func (s *ContactSubmission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)
}

// Complete reports whether every required field is non-empty.
func (s *ContactSubmission) Complete() bool {
	return s.Name != "" && s.Email != "" && s.Subject != "" && s.Message != ""
}
