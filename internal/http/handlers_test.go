package http

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "os"
    "testing"

    "github.com/HamedShams/bug-pulse/internal/config"
    "github.com/HamedShams/bug-pulse/internal/domain"
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
    "github.com/stretchr/testify/require"
)

type stubService struct {
    snap    *domain.Snapshot
    snapErr error
    lastRun *domain.RunInfo
    ran     chan struct{}
}

func (s *stubService) Run(ctx context.Context) error {
    if s.ran != nil { close(s.ran) }
    return nil
}
func (s *stubService) LastRun() *domain.RunInfo { return s.lastRun }
func (s *stubService) Snapshot() (*domain.Snapshot, error) { return s.snap, s.snapErr }

func newTestRouter(svc service) *gin.Engine {
    gin.SetMode(gin.TestMode)
    return NewRouter(config.Config{AppEnv: "test"}, zerolog.Nop(), svc)
}

func TestSnapshotEndpoint(t *testing.T) {
    matrix := domain.NewMatrix()
    matrix[domain.PlatformWeb][domain.StatusOpen] = 7
    svc := &stubService{snap: &domain.Snapshot{Data: matrix, UpdatedAt: "2025-08-31T10:00:00Z", TotalIssuesFetched: 7, Project: "VZY"}}
    r := newTestRouter(svc)

    w := httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))
    require.Equal(t, http.StatusOK, w.Code)

    var snap domain.Snapshot
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
    require.Equal(t, 7, snap.Data[domain.PlatformWeb][domain.StatusOpen])
    require.Equal(t, "VZY", snap.Project)
}

func TestSnapshotEndpoint_NoSnapshotYet(t *testing.T) {
    svc := &stubService{snapErr: os.ErrNotExist}
    r := newTestRouter(svc)

    w := httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))
    require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunNowQueuesARun(t *testing.T) {
    svc := &stubService{ran: make(chan struct{})}
    r := newTestRouter(svc)

    w := httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/run", nil))
    require.Equal(t, http.StatusAccepted, w.Code)
    <-svc.ran
}

func TestLastRunEndpoint(t *testing.T) {
    r := newTestRouter(&stubService{})
    w := httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/last-run", nil))
    require.Equal(t, http.StatusNotFound, w.Code)

    r = newTestRouter(&stubService{lastRun: &domain.RunInfo{OK: true, IssuesFetched: 3}})
    w = httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/last-run", nil))
    require.Equal(t, http.StatusOK, w.Code)

    var lr domain.RunInfo
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lr))
    require.True(t, lr.OK)
    require.Equal(t, 3, lr.IssuesFetched)
}
