package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alanherrera2015-beep/examexperts/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecaptchaVerify(t *testing.T) {
	var secret, response, remoteIP string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		secret = r.PostForm.Get("secret")
		response = r.PostForm.Get("response")
		remoteIP = r.PostForm.Get("remoteip")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"score":0.7,"action":"contact","hostname":"examexperts.netlify.app"}`))
	}))
	defer srv.Close()

	v := services.NewRecaptchaVerifierWithURL("server-secret", srv.URL)
	res, err := v.Verify(context.Background(), "client-token", "198.51.100.4")
	require.NoError(t, err)

	assert.Equal(t, "server-secret", secret)
	assert.Equal(t, "client-token", response)
	assert.Equal(t, "198.51.100.4", remoteIP)
	assert.True(t, res.Success)
	require.NotNil(t, res.Score)
	assert.InDelta(t, 0.7, *res.Score, 0.0001)
	assert.True(t, res.Passed())
}

func TestRecaptchaVerifyFailureCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["timeout-or-duplicate"]}`))
	}))
	defer srv.Close()

	res, err := services.NewRecaptchaVerifierWithURL("s", srv.URL).Verify(context.Background(), "t", "")
	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Equal(t, []string{"timeout-or-duplicate"}, res.ErrorCodes)
}

func TestRecaptchaVerifyTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := services.NewRecaptchaVerifierWithURL("s", srv.URL).Verify(context.Background(), "t", "")
	assert.Error(t, err)

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer bad.Close()

	_, err = services.NewRecaptchaVerifierWithURL("s", bad.URL).Verify(context.Background(), "t", "")
	assert.Error(t, err)
}

func TestVerificationResultPassed(t *testing.T) {
	var nilResult *services.VerificationResult
	assert.False(t, nilResult.Passed())
	assert.True(t, (&services.VerificationResult{Success: true}).Passed())
	assert.True(t, (&services.VerificationResult{Success: true, Score: score(services.MinRecaptchaScore)}).Passed())
	assert.False(t, (&services.VerificationResult{Success: true, Score: score(0.39)}).Passed())
	assert.False(t, (&services.VerificationResult{Success: false, Score: score(0.9)}).Passed())
}
