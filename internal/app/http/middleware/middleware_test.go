package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pulse/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestAuthMiddleware(t *testing.T) {
	prev := config.JWT_SECRET
	config.JWT_SECRET = "test-secret"
	t.Cleanup(func() { config.JWT_SECRET = prev })

	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id"), "email": c.GetString("email")})
	})

	valid := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": 7, "email": "a@b.c", "role": "user", "exp": time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix(),
	})
	foreign := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": 7, "exp": time.Now().Add(time.Hour).Unix(),
	})
	noUser := signToken(t, "test-secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Token " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"no user id", "Bearer " + noUser, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if tc.status == http.StatusOK && !strings.Contains(w.Body.String(), `"user_id":7`) {
				t.Fatalf("expected user id in context, got %s", w.Body.String())
			}
		})
	}
}

func TestSanitizeInputStripsMarkup(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/register", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})
	r.POST("/empty", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"name":"<b>Tom</b> & Jerry<script>x()</script>","age":3}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"name":"Tom & Jerry"`) {
		t.Fatalf("expected stripped name, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"name":"a<b and c>d","password":" p<q> "}`)))
	if !strings.Contains(w.Body.String(), `"name":"a<b and c>d"`) || !strings.Contains(w.Body.String(), `"password":" p<q> "`) {
		t.Fatalf("expected plain text kept as typed, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"name":`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/empty", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected empty body to pass through, got %d", w.Code)
	}
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/click", RateLimit(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil), func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/click", nil))
		if w.Code != http.StatusAccepted {
			t.Fatalf("request %d: expected 202, got %d", i, w.Code)
		}
	}
}

func TestRateKeyAndRetryAfter(t *testing.T) {
	if got := rateKey("pulse:rl", "", "POST", "/analytics/click"); got != "pulse:rl:ip:unknown:route:POST /analytics/click" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := retryAfterSeconds(1500); got != 2 {
		t.Fatalf("expected 2s, got %d", got)
	}
	if got := retryAfterSeconds(-5); got != 0 {
		t.Fatalf("expected 0s, got %d", got)
	}
	if asInt64("12") != 12 || asInt64(int64(3)) != 3 || asInt64(nil) != 0 {
		t.Fatalf("asInt64 conversions failed")
	}
}

func TestPolicyDefaultsToFree(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if p := Policy(c); p.Plan != "FREE" || !p.Watermark {
		t.Fatalf("expected free policy, got %+v", p)
	}
}
