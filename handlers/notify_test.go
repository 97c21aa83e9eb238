package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"slotsync/services/notification"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubNotificationService returns canned digest results.
type stubNotificationService struct {
	digest    *notification.DigestResult
	digestErr error
}

func (s *stubNotificationService) NotifyGroup(context.Context, string) (*notification.FanoutResult, error) {
	return &notification.FanoutResult{Success: true}, nil
}

func (s *stubNotificationService) RunDigest(context.Context) (*notification.DigestResult, error) {
	return s.digest, s.digestErr
}

func digestRequest(r *gin.Engine, secret string) *httptest.ResponseRecorder {
	url := "/api/cron/digest"
	if secret != "" {
		url += "?secret=" + secret
	}
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDigestHandler(t *testing.T) {
	newRouter := func(svc notification.NotificationService, cronSecret string) *gin.Engine {
		h := NewNotifyHandler(nil, svc, cronSecret)
		r := gin.New()
		r.GET("/api/cron/digest", h.DigestHandler)
		return r
	}

	t.Run("wrong secret is unauthorized", func(t *testing.T) {
		r := newRouter(&stubNotificationService{}, "topsecret")
		w := digestRequest(r, "nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing secret is unauthorized", func(t *testing.T) {
		r := newRouter(&stubNotificationService{}, "topsecret")
		w := digestRequest(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unconfigured secret fails closed", func(t *testing.T) {
		r := newRouter(&stubNotificationService{}, "")
		w := digestRequest(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("digest failure is a 500", func(t *testing.T) {
		r := newRouter(&stubNotificationService{digestErr: errors.New("mongo down")}, "topsecret")
		w := digestRequest(r, "topsecret")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("success returns the run summary", func(t *testing.T) {
		svc := &stubNotificationService{digest: &notification.DigestResult{
			Success:     true,
			SentCount:   3,
			FailedCount: 1,
			Cutoff:      time.Date(2024, 6, 9, 19, 0, 0, 0, time.UTC),
		}}
		r := newRouter(svc, "topsecret")
		w := digestRequest(r, "topsecret")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"sentCount":3`)
		assert.Contains(t, w.Body.String(), `"failedCount":1`)
		assert.Contains(t, w.Body.String(), `"success":true`)
	})
}
