package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/classroom-auth/internal/logger"
)

func TestLogging_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantError  bool
	}{
		{
			name: "implicit ok",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "client error passes through",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "server error is logged as failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			lg := NewLogging(logger.NewWithWriter(&buf, 0))

			rec := httptest.NewRecorder()
			lg.Handle(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, buf.String(), "HTTP request completed")
			assert.Contains(t, buf.String(), "path=/api/auth/verify")
			assert.Equal(t, tt.wantError, bytes.Contains(buf.Bytes(), []byte("HTTP request failed")))
		})
	}
}
