package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestGetServerVersion_WritesVersion(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("1.2.3")

	rr := serve(http.HandlerFunc(h.getServerVersion), httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1.2.3", rr.Body.String())
	assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))
}

func TestGetServerVersion_EmptyVersion(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("")

	rr := serve(http.HandlerFunc(h.getServerVersion), httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestPing(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := serve(http.HandlerFunc(h.ping), httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}
