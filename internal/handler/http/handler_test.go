package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/mock"
	"github.com/MKhiriev/go-church-sync/internal/service"
	"github.com/MKhiriev/go-church-sync/models"
)

const testToken = "valid-token"

type testServices struct {
	snapshots *mock.MockSnapshotService
	auth      *mock.MockAuthService
	appInfo   *mock.MockAppInfoService
}

// newTestHandler builds a Handler on gomock services. The auth mock accepts
// testToken for device "secretaria" and rejects anything else.
func newTestHandler(t *testing.T) (*Handler, testServices) {
	t.Helper()
	ctrl := gomock.NewController(t)

	svc := testServices{
		snapshots: mock.NewMockSnapshotService(ctrl),
		auth:      mock.NewMockAuthService(ctrl),
		appInfo:   mock.NewMockAppInfoService(ctrl),
	}
	svc.auth.EXPECT().ParseToken(gomock.Any(), testToken).
		Return(models.Token{Device: "secretaria"}, nil).AnyTimes()
	svc.auth.EXPECT().ParseToken(gomock.Any(), gomock.Not(testToken)).
		Return(models.Token{}, service.ErrTokenIsExpiredOrInvalid).AnyTimes()

	h := NewHandler(&service.Services{
		SnapshotService: svc.snapshots,
		AuthService:     svc.auth,
		AppInfoService:  svc.appInfo,
	}, logger.Nop())

	return h, svc
}

// injectNopLogger puts a nop logger into the request context.
func injectNopLogger(r *http.Request) *http.Request {
	nop := logger.Nop()
	return r.WithContext(nop.Logger.WithContext(r.Context()))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svc, log)

	require.NotNil(t, h)
	assert.Equal(t, svc, h.services)
	assert.Equal(t, log, h.logger)
	assert.NotSame(t, h, NewHandler(svc, log))
}
