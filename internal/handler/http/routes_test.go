package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-church-sync/internal/store"
	"github.com/MKhiriev/go-church-sync/models"
)

func TestRoutes_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		auth       bool
		setup      func(svc testServices)
		wantStatus int
	}{
		{
			name:       "ping is public",
			method:     http.MethodGet,
			path:       "/api/ping",
			wantStatus: http.StatusOK,
		},
		{
			name:   "version is public",
			method: http.MethodGet,
			path:   "/api/version",
			setup: func(svc testServices) {
				svc.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("1.0.0")
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "collections require a token",
			method:     http.MethodGet,
			path:       "/api/collections/members",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "stream requires a token",
			method:     http.MethodGet,
			path:       "/api/stream",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "get collection",
			method: http.MethodGet,
			path:   "/api/collections/members",
			auth:   true,
			setup: func(svc testServices) {
				svc.snapshots.EXPECT().Get(gomock.Any(), "members").Return(models.Snapshot{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "put collection",
			method: http.MethodPut,
			path:   "/api/collections/members",
			body:   `[]`,
			auth:   true,
			setup: func(svc testServices) {
				svc.snapshots.EXPECT().Put(gomock.Any(), "members", gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "absent collection",
			method: http.MethodGet,
			path:   "/api/collections/courses",
			auth:   true,
			setup: func(svc testServices) {
				svc.snapshots.EXPECT().Get(gomock.Any(), "courses").Return(nil, store.ErrSnapshotNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unsupported method on a parameterised route",
			method:     http.MethodDelete,
			path:       "/api/collections/members",
			auth:       true,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unsupported method on ping",
			method:     http.MethodPost,
			path:       "/api/ping",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/members",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestHandler(t)
			if tt.setup != nil {
				tt.setup(svc)
			}

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.auth {
				req.Header.Set("Authorization", "Bearer "+testToken)
			}

			rr := serve(h.Init(), req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
		})
	}
}

func TestRoutes_RecoversFromPanic(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.snapshots.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string) (models.Snapshot, error) {
			panic("boom")
		})

	req := httptest.NewRequest(http.MethodGet, "/api/collections/events", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)

	rr := serve(h.Init(), req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
