package shell

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/domain/tenant"
	"github.com/GriffinCanCode/deskshell/internal/domain/tray"
	"github.com/GriffinCanCode/deskshell/internal/domain/window"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/deskshell/internal/platform/autolaunch"
	"github.com/GriffinCanCode/deskshell/internal/platform/systray"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type trayHost struct {
	spec   tray.Spec
	events tray.Events
	err    error
}

func (h *trayHost) Install(spec tray.Spec, events tray.Events) error {
	if h.err != nil {
		return h.err
	}
	h.spec = spec
	h.events = events
	return nil
}

func (h *trayHost) Remove() {}

type noopOpener struct{}

func (noopOpener) Open(string) error { return nil }

func baseDir(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, tenant.ConfigDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, tenant.ConfigDir, "dev.json"), []byte(body), 0o644))
	return dir
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Bridge.Addr = "127.0.0.1:0"
	cfg.RateLimit.Enabled = false
	return cfg
}

const acme = `{"env":"dev","defaultTenant":"acme","tenants":{"acme":{"appUrl":"https://acme.example/app"}}}`

func newShell(t *testing.T, cfg *config.Config, body string) (*Shell, *trayHost) {
	t.Helper()
	host := &trayHost{}
	sh, err := New(cfg, nil, Options{
		BaseDir:    baseDir(t, body),
		TrayHost:   host,
		AutoLaunch: autolaunch.Unsupported{},
		Opener:     noopOpener{},
		Version:    "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sh.Close() })
	return sh, host
}

func TestNewFailsOnTenantErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"no tenants", `{"env":"dev","tenants":{}}`, tenant.ErrNoTenant},
		{"malformed", `{`, tenant.ErrConfigParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(testConfig(), nil, Options{BaseDir: baseDir(t, tt.body), TrayHost: &trayHost{}})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := New(testConfig(), nil, Options{BaseDir: t.TempDir(), TrayHost: &trayHost{}})
	assert.ErrorIs(t, err, tenant.ErrConfigRead)
}

func TestNewHonoursTenantOverride(t *testing.T) {
	cfg := testConfig()
	cfg.Desktop.Tenant = "globex"
	body := `{"env":"dev","defaultTenant":"acme","tenants":{
		"acme":{"appUrl":"https://acme.example"},
		"globex":{"appUrl":"https://globex.example","name":"Globex"}}}`

	sh, _ := newShell(t, cfg, body)

	assert.Equal(t, "globex", sh.Resolved().TenantID)
	assert.Equal(t, "Globex", sh.Resolved().TenantName)
}

func TestRunServesBridgeAndQuitsFromTray(t *testing.T) {
	sh, host := newShell(t, testConfig(), acme)

	done := make(chan error, 1)
	go func() { done <- sh.Run(context.Background()) }()

	addr := sh.Addr()
	require.NotEmpty(t, addr)

	// tray installed with the fixed menu
	assert.Equal(t, tray.ID, host.spec.ID)
	assert.Len(t, host.spec.Menu, 4)

	resp, err := http.Post("http://"+addr+"/invoke/getConfig", "application/json", strings.NewReader(""))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, sonic.Unmarshal(body, &res))
	assert.True(t, res.Success)
	assert.Equal(t, map[string]string{
		"env":        "dev",
		"tenantId":   "acme",
		"appUrl":     "https://acme.example/app",
		"tenantName": "acme",
	}, res.Data)

	require.NoError(t, host.events.MenuSelected("quit"))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after quit")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	sh, _ := newShell(t, testConfig(), acme)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()
	require.NotEmpty(t, sh.Addr())

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.NoError(t, sh.Close())
	assert.NoError(t, sh.Close())
}

func TestRunContinuesWithoutTray(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	host := &trayHost{err: systray.ErrMainThreadRequired}
	sh, err := New(testConfig(), &logging.Logger{Logger: zap.New(core)}, Options{
		BaseDir:    baseDir(t, acme),
		TrayHost:   host,
		AutoLaunch: autolaunch.Unsupported{},
		Opener:     noopOpener{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sh.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()
	addr := sh.Addr()
	require.NotEmpty(t, addr)

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, logs.FilterMessage("Continuing without tray").Len())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunListenFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Bridge.Addr = "256.0.0.1:bad"
	sh, _ := newShell(t, cfg, acme)

	assert.Error(t, sh.Run(context.Background()))
	assert.Empty(t, sh.Addr())
}

func TestTrayToggleEmitsWindowState(t *testing.T) {
	sh, host := newShell(t, testConfig(), acme)

	go func() { _ = sh.Run(context.Background()) }()
	addr := sh.Addr()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/events", http.Header{"Origin": []string{"https://acme.example"}})
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return sh.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	// the view starts visible, so a left click hides it
	host.events.IconClicked(tray.IconEvent{Button: tray.ButtonLeft, State: tray.StateUp})
	assert.Equal(t, window.Hidden, sh.Windows().Visibility())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var frame types.Frame
		require.NoError(t, sonic.Unmarshal(data, &frame))
		if frame.Event != types.EventWindowState {
			continue
		}
		payload := frame.Payload.(map[string]interface{})
		assert.Equal(t, window.ActionToggle, payload["action"])
		assert.Equal(t, false, payload["visible"])
		break
	}
}

func TestNotifyReachesView(t *testing.T) {
	sh, _ := newShell(t, testConfig(), acme)

	go func() { _ = sh.Run(context.Background()) }()
	addr := sh.Addr()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/events", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return sh.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	res := sh.Registry().Invoke(context.Background(), "notify", []byte(`{"title":"Hello","body":"World"}`))
	require.True(t, res.Success)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event":"notification"`)
	assert.Contains(t, string(data), `"title":"Hello"`)
}
