package models_test

import (
	"testing"

	"github.com/alanherrera2015-beep/examexperts/models"
	"github.com/stretchr/testify/assert"
)

func TestContactSubmissionNormalize(t *testing.T) {
	s := models.ContactSubmission{Name: "  Ada ", Email: "\tada@example.com\n", Subject: " Hi", Message: "line one\nline two  "}
	s.Normalize()

	assert.Equal(t, "Ada", s.Name)
	assert.Equal(t, "ada@example.com", s.Email)
	assert.Equal(t, "Hi", s.Subject)
	assert.Equal(t, "line one\nline two", s.Message)
	assert.True(t, s.Complete())
}

func TestContactSubmissionComplete(t *testing.T) {
	full := models.ContactSubmission{Name: "A", Email: "a@b.com", Subject: "Hi", Message: "test"}
	assert.True(t, full.Complete())

	for _, blank := range []func(*models.ContactSubmission){
		func(s *models.ContactSubmission) { s.Name = "   " },
		func(s *models.ContactSubmission) { s.Email = "" },
		func(s *models.ContactSubmission) { s.Subject = "\n" },
		func(s *models.ContactSubmission) { s.Message = "" },
	} {
		s := full
		blank(&s)
		s.Normalize()
		assert.False(t, s.Complete())
	}
}
