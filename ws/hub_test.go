package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/flashdeck-backend/services"
)

func startWSServer(t *testing.T) (*httptest.Server, *Hub, *services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := services.NewTokenService("test-secret")
	hub := NewHub()

	r := gin.New()
	r.GET("/ws/user", UserHandler(hub, tokens))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub, tokens
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/user?token=" + token
}

func TestUserHandlerRejectsBadTokens(t *testing.T) {
	srv, _, _ := startWSServer(t)

	resp, err := http.Get(srv.URL + "/ws/user")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ws/user?token=garbage")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHubDeliversToConnectedUser(t *testing.T) {
	srv, hub, tokens := startWSServer(t)

	token, err := tokens.Generate("user-1", "alice123")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "connected")

	stats := hub.Stats()
	assert.Equal(t, 1, stats["users"])
	assert.Equal(t, 1, stats["connections"])

	hub.SendBadgeUpdate("user-1", 3)

	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "badge_update")
	assert.Contains(t, string(msg), "3")
}

func TestBroadcastSkipsOtherUsers(t *testing.T) {
	srv, hub, tokens := startWSServer(t)

	token, err := tokens.Generate("user-2", "bobby123")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "connected")

	// Addressed to someone else; nothing should arrive before the deadline.
	hub.BroadcastToUser("user-1", websocket.TextMessage, []byte(`{"type":"noise"}`))

	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
