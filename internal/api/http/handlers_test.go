package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GriffinCanCode/deskshell/internal/api/middleware"
	"github.com/GriffinCanCode/deskshell/internal/api/ws"
	"github.com/GriffinCanCode/deskshell/internal/domain/securestore"
	"github.com/GriffinCanCode/deskshell/internal/domain/window"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/deskshell/internal/service"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewHost struct{ visible bool }

func (h *viewHost) Show() error              { h.visible = true; return nil }
func (h *viewHost) Hide() error              { h.visible = false; return nil }
func (h *viewHost) Focus() error             { return nil }
func (h *viewHost) Reload() error            { return nil }
func (h *viewHost) IsVisible() (bool, error) { return h.visible, nil }

type twoViews struct{}

func (twoViews) Count() int { return 2 }

func newRouter(t *testing.T, rl *middleware.RateLimitConfig) (*gin.Engine, *securestore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := securestore.New(nil)
	registry := service.NewRegistry(nil)
	require.NoError(t, service.RegisterCommands(registry, service.Dependencies{Store: store}))
	require.NoError(t, registry.Register(service.Command(registry, types.Command{Name: "explode"},
		func(context.Context, struct{}) (interface{}, error) { return nil, errors.New("kaput") })))

	router := NewRouter(RouterConfig{
		Handlers:  NewHandlers(registry, window.NewManager(&viewHost{visible: true}, window.HideToTray, nil, nil), twoViews{}, "test"),
		Metrics:   monitoring.NewMetrics(),
		CORS:      middleware.DefaultCORSConfig("https://acme.example"),
		RateLimit: rl,
	})
	return router, store
}

func invoke(router *gin.Engine, command, body string) (*httptest.ResponseRecorder, types.Result) {
	req := httptest.NewRequest(http.MethodPost, "/invoke/"+command, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var res types.Result
	_ = sonic.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestInvokeRoundTrip(t *testing.T) {
	router, _ := newRouter(t, nil)

	w, res := invoke(router, "setSecureValue", `{"key":"token","value":"abc"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, res.Success)
	assert.Contains(t, w.Body.String(), `"data":null`)

	w, res = invoke(router, "getSecureValue", `{"key":"token"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", res.Data)

	_, _ = invoke(router, "deleteSecureValue", `{"key":"token"}`)
	w, res = invoke(router, "getSecureValue", `{"key":"token"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, res.Success)
	assert.Nil(t, res.Data)
}

func TestInvokeStatusCodes(t *testing.T) {
	router, store := newRouter(t, nil)

	w, res := invoke(router, "getSecureValue", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.CodeInvalidArgument, res.Code)

	w, res = invoke(router, "teleport", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, service.CodeUnknownCommand, res.Code)

	w, res = invoke(router, "explode", ``)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, service.CodeInternal, res.Code)

	store.Close()
	w, res = invoke(router, "getSecureValue", `{"key":"k"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, service.CodeStoreUnavailable, res.Code)
}

func TestInvokeTooLarge(t *testing.T) {
	router, _ := newRouter(t, nil)

	body := bytes.Repeat([]byte("a"), maxArgsSize+10)
	req := httptest.NewRequest(http.MethodPost, "/invoke/getSecureValue", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestListCommands(t *testing.T) {
	router, _ := newRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/commands", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Commands []types.Command `json:"commands"`
	}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Commands, 9)
	assert.Equal(t, "deleteSecureValue", body.Commands[0].Name)
}

func TestHealth(t *testing.T) {
	router, _ := newRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(2), body["views"])
	assert.Equal(t, map[string]interface{}{"visibility": "visible"}, body["window"])
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newRouter(t, nil)
	_, _ = invoke(router, "getSecureValue", `{"key":"k"}`)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/invoke/:command")
}

func TestCORSRejectsForeignOrigin(t *testing.T) {
	router, _ := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/invoke/getAutoLaunch", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/invoke/getAutoLaunch", nil)
	req.Header.Set("Origin", "https://acme.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://acme.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitedInvoke(t *testing.T) {
	router, _ := newRouter(t, &middleware.RateLimitConfig{RequestsPerSecond: 1, Burst: 1})

	w, _ := invoke(router, "getAutoLaunch", ``)
	assert.Equal(t, http.StatusOK, w.Code)

	w, res := invoke(router, "getAutoLaunch", ``)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, middleware.CodeRateLimited, res.Code)

	// health is not limited
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEventsShareOneLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := service.NewRegistry(nil)
	router := NewRouter(RouterConfig{
		Handlers:  NewHandlers(registry, nil, nil, "test"),
		Hub:       ws.NewHub(ws.Options{}, nil),
		RateLimit: &middleware.RateLimitConfig{RequestsPerSecond: 1, Burst: 1},
	})

	get := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// not a websocket handshake, so the hub rejects it
	assert.Equal(t, http.StatusBadRequest, get("127.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, get("127.0.0.2:1000"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusFor(types.Success(nil)))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(types.Failure(service.CodeForwardFailed, nil)))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(types.Failure(service.CodeNoTenant, nil)))
}

func TestWindowActions(t *testing.T) {
	router, _ := newRouter(t, nil)

	post := func(action string) (*httptest.ResponseRecorder, map[string]interface{}) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/window/"+action, nil))
		var res types.Result
		_ = sonic.Unmarshal(w.Body.Bytes(), &res)
		data, _ := res.Data.(map[string]interface{})
		return w, data
	}

	w, data := post("close")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, data["prevented"])
	assert.Equal(t, "hide_to_tray", data["behavior"])

	w, data = post("toggle")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "visible", data["visibility"])

	_, data = post("hide")
	assert.Equal(t, "hidden", data["visibility"])

	w, _ = post("maximize")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
