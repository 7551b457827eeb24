package consul

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"agenda-service/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConsulConn_ServiceID(t *testing.T) {
	conn := NewConsulConn(zap.NewNop().Sugar(), &config.Config{ServiceName: "agenda-service", ServiceHost: "10.0.0.4", Port: "8080"})
	assert.Equal(t, "agenda-service-10.0.0.4-8080", conn.serviceID)

	// Nothing was registered, so there is nothing to remove.
	conn.Deregister()
}

func TestConnect_InvalidPort(t *testing.T) {
	conn := NewConsulConn(zap.NewNop().Sugar(), &config.Config{ServiceName: "s", ServiceHost: "h", Port: "http", ConsulAddr: "127.0.0.1:1"})
	_, err := conn.Connect()
	assert.ErrorContains(t, err, "invalid port")
}

type fakeAgent struct {
	mu           sync.Mutex
	registerCode int
	paths        []string
}

func (a *fakeAgent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.paths = append(a.paths, r.URL.Path)
	a.mu.Unlock()

	if r.URL.Path == "/v1/agent/service/register" && a.registerCode != http.StatusOK {
		http.Error(w, "agent unavailable", a.registerCode)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (a *fakeAgent) calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.paths...)
}

func newAgentConn(t *testing.T, agent *fakeAgent) *ConsulConn {
	srv := httptest.NewServer(agent)
	t.Cleanup(srv.Close)
	return NewConsulConn(zap.NewNop().Sugar(), &config.Config{
		ServiceName: "agenda-service",
		ServiceHost: "127.0.0.1",
		Port:        "8080",
		ConsulAddr:  strings.TrimPrefix(srv.URL, "http://"),
	})
}

func TestRegister_ReturnsDeregistration(t *testing.T) {
	agent := &fakeAgent{registerCode: http.StatusOK}
	conn := newAgentConn(t, agent)

	deregister, err := conn.Register()
	require.NoError(t, err)
	require.NotNil(t, deregister)

	deregister()
	assert.Equal(t, []string{
		"/v1/agent/service/register",
		"/v1/agent/service/deregister/agenda-service-127.0.0.1-8080",
	}, agent.calls())
}

func TestRegister_FailureLeavesNothingToUndo(t *testing.T) {
	agent := &fakeAgent{registerCode: http.StatusInternalServerError}
	conn := newAgentConn(t, agent)

	deregister, err := conn.Register()
	assert.ErrorContains(t, err, "consul register")
	assert.Nil(t, deregister)

	conn.Deregister()
	assert.Equal(t, []string{"/v1/agent/service/register"}, agent.calls())
}
