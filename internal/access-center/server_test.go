package accesscenter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/access-center/pkg/component/storage"
	"github.com/kart-io/access-center/pkg/errors"
)

type stubClient struct {
	name string
	err  error
}

func (c *stubClient) Name() string                  { return c.name }
func (c *stubClient) Ping(_ context.Context) error  { return c.err }
func (c *stubClient) Close() error                  { return nil }
func (c *stubClient) Health() storage.HealthChecker { return func() error { return c.err } }

func newHealthzServer(t *testing.T, clients ...*stubClient) *Server {
	t.Helper()

	mgr := storage.NewManager()
	for _, client := range clients {
		require.NoError(t, mgr.Register(client.name, client))
	}
	return &Server{storages: mgr}
}

func doHealthz(srv *Server) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/healthz", srv.healthz)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	return w
}

func TestServer_Healthz(t *testing.T) {
	srv := newHealthzServer(t, &stubClient{name: "mysql"}, &stubClient{name: "redis"})

	w := doHealthz(srv)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status     string                     `json:"status"`
		Components map[string]json.RawMessage `json:"components"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Len(t, body.Components, 2)
}

func TestServer_Healthz_Degraded(t *testing.T) {
	srv := newHealthzServer(t,
		&stubClient{name: "mysql"},
		&stubClient{name: "redis", err: errors.ErrDatabase.WithMessage("connection refused")},
	)

	w := doHealthz(srv)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status     string `json:"status"`
		Components map[string]struct {
			Healthy bool   `json:"healthy"`
			Error   string `json:"error"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.True(t, body.Components["mysql"].Healthy)
	assert.False(t, body.Components["redis"].Healthy)
	assert.NotEmpty(t, body.Components["redis"].Error)
}

func TestServer_Healthz_NoBackends(t *testing.T) {
	srv := newHealthzServer(t)

	w := doHealthz(srv)
	assert.Equal(t, http.StatusOK, w.Code)
}
