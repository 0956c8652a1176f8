package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/adamscao/userapi/internal/apperrors"
	"github.com/adamscao/userapi/internal/models"
	"github.com/adamscao/userapi/internal/ratelimit"
	"github.com/adamscao/userapi/pkg/ident"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	key   *models.APIKey
	err   error
	token string
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*models.APIKey, error) {
	s.token = token
	return s.key, s.err
}

type stubLimiter struct {
	result *ratelimit.Result
	err    error
}

func (s stubLimiter) Allow(context.Context, string) (*ratelimit.Result, error) {
	return s.result, s.err
}

func (s stubLimiter) Close() error { return nil }

func serve(r *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"abc", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Authorization", tt.header)

			assert.Equal(t, tt.want, BearerToken(c))
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	key := &models.APIKey{ID: ident.New(), Name: "ci-bot", IsActive: true}
	verifier := &stubVerifier{key: key}

	r := gin.New()
	var actor string
	r.GET("/", APIKeyAuth(verifier, nil), func(c *gin.Context) {
		actor = Actor(c)
		c.Status(http.StatusOK)
	})

	w := serve(r, http.Header{"Authorization": {"Bearer s3cret"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s3cret", verifier.token)
	assert.Equal(t, ident.Encode(key.ID), actor)

	verifier.key, verifier.err = nil, apperrors.ErrInvalidCredential
	actor = ""
	w = serve(r, http.Header{"Authorization": {"Bearer wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.Empty(t, actor)
}

func TestAPIKeyAuth_StoreFailure(t *testing.T) {
	verifier := &stubVerifier{err: apperrors.Store(errors.New("database is locked"))}

	r := gin.New()
	r.GET("/", APIKeyAuth(verifier, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, http.Header{"Authorization": {"Bearer s3cret"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "locked")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = c.GetString(ContextKeyRequestID)
	})

	w := serve(r, nil)
	generated := w.Header().Get(HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, seen)

	w = serve(r, http.Header{HeaderRequestID: {"req-123"}})
	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
}

func TestRateLimit_FailsOpen(t *testing.T) {
	core, observed := observer.New(zap.WarnLevel)

	r := gin.New()
	r.Use(RateLimit(stubLimiter{err: errors.New("connection refused")}, zap.New(core)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, observed.FilterMessage("rate limiter unavailable").Len())
}

func TestRateLimit_Denied(t *testing.T) {
	limiter := stubLimiter{result: &ratelimit.Result{Allowed: false, Limit: 10, RetryAfter: 1500 * time.Millisecond}}

	r := gin.New()
	r.Use(RateLimit(limiter, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestLogger(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("disk full"))
		c.Status(http.StatusInternalServerError)
	})

	serve(r, nil)
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	req = httptest.NewRequest(http.MethodGet, "/fail", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := observed.FilterMessage("request").All()
	require.Len(t, entries, 3)

	assert.Equal(t, zap.WarnLevel, entries[0].Level) // 404 on "/"
	assert.Equal(t, zap.InfoLevel, entries[1].Level)
	assert.Equal(t, "/ok", entries[1].ContextMap()["path"])
	assert.NotEmpty(t, entries[1].ContextMap()["request_id"])
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.Contains(t, entries[2].ContextMap()["error"], "disk full")
}
