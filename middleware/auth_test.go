package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeAuth struct {
	id  uint
	err error
}

func (f fakeAuth) Authenticate(*gin.Context) (uint, error) { return f.id, f.err }

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		auth         fakeAuth
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{"authenticated", fakeAuth{id: 7}, http.StatusOK, "", "user 7"},
		{"no session", fakeAuth{err: errors.New("no session")}, http.StatusFound, "/login", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(NoCache())
			r.GET("/", RequireAuth(tt.auth), func(c *gin.Context) {
				c.String(http.StatusOK, "user %d", UserID(c))
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("Location = %q, want %q", got, tt.wantLocation)
			}
			if w.Body.String() != tt.wantBody && tt.wantBody != "" {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
			if got := w.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
				t.Errorf("Cache-Control = %q", got)
			}
		})
	}
}
