package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCronAuth(t *testing.T) {
	called := false
	handler := cronAuth("topsecret", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer nope", http.StatusUnauthorized},
		{"bare secret without scheme", "topsecret", http.StatusUnauthorized},
		{"correct", "Bearer topsecret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest(http.MethodPost, "/api/jobs/weekly-snapshot", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status == http.StatusOK, called, "handler body must not run on rejection")
		})
	}
}

func TestCronAuthEmptySecretRejectsAll(t *testing.T) {
	handler := cronAuth("", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must never run without a configured secret")
	})
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/weekly-snapshot", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
