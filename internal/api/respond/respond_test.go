package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pulse/internal/domain/apperr"

	"github.com/gin-gonic/gin"
)

func TestErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized},
		{"not found wrapped", fmt.Errorf("load page: %w", apperr.ErrNotFound), http.StatusNotFound},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden},
		{"conflict", apperr.ErrConflict, http.StatusConflict},
		{"validation", apperr.Invalid("Invalid block", apperr.Field("url", "is required")), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			Error(c, tc.err)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
		})
	}
}

func TestValidationBodyCarriesDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	BadRequest(c, "Invalid block", apperr.Field("url", "is required"))

	var body struct {
		Error   string              `json:"error"`
		Details []apperr.FieldError `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Invalid block" || len(body.Details) != 1 || body.Details[0].Field != "url" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, errors.New("pq: connection refused"))
	if got := w.Body.String(); got != `{"error":"Internal server error"}` {
		t.Fatalf("unexpected body %s", got)
	}
}
