package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agenda-service/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_PublishReachesOnlyThatUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zap.NewNop().Sugar())

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set(constants.UserIDKey, c.Query("user"))
		hub.ServeWS(c)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user="
	alice, _, err := websocket.DefaultDialer.Dial(base+"alice", nil)
	require.NoError(t, err)
	defer alice.Close()
	bob, _, err := websocket.DefaultDialer.Dial(base+"bob", nil)
	require.NoError(t, err)
	defer bob.Close()

	require.Eventually(t, func() bool {
		return hub.Connections("alice") == 1 && hub.Connections("bob") == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Publish("alice", Message{Type: TypeEventCreated, AgendaID: "a1", EventID: "e1"})

	var got Message
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, alice.ReadJSON(&got))
	assert.Equal(t, Message{Type: TypeEventCreated, AgendaID: "a1", EventID: "e1"}, got)

	require.NoError(t, bob.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	assert.Error(t, bob.ReadJSON(&got))
}

func TestHub_UnregisterOnClose(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zap.NewNop().Sugar())

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set(constants.UserIDKey, "carol")
		hub.ServeWS(c)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Connections("carol") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Connections("carol") == 0 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("carol", Message{Type: TypeEventDeleted})
}
