package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/flashdeck-backend/config"
	"github.com/vnkhanh/flashdeck-backend/routes"
	"github.com/vnkhanh/flashdeck-backend/services"
	"github.com/vnkhanh/flashdeck-backend/ws"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *services.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	tokens := services.NewTokenService("test-secret")

	r := gin.New()
	routes.SetupRouter(r, db, tokens, ws.NewHub())

	return &testServer{router: r, db: db, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// signup registers a user and logs them in, returning the session token.
func (s *testServer) signup(t *testing.T, username string) string {
	t.Helper()

	creds := map[string]string{"username": username, "password": "secret123"}

	w := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

func deckPayload(title string, cards ...[2]string) map[string]interface{} {
	if len(cards) == 0 {
		cards = [][2]string{{"front", "back"}}
	}
	flashcards := make([]map[string]string, 0, len(cards))
	for _, card := range cards {
		flashcards = append(flashcards, map[string]string{"front": card[0], "back": card[1]})
	}
	return map[string]interface{}{
		"title":       title,
		"description": "test deck",
		"flashcards":  flashcards,
	}
}

// createDeck makes a deck through the API and returns its id.
func (s *testServer) createDeck(t *testing.T, token, title string, cards ...[2]string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/decks", token, deckPayload(title, cards...))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	id, ok := decodeBody(t, w)["id"].(string)
	require.True(t, ok)
	return id
}

func deckPath(id string, suffix ...string) string {
	path := "/api/decks/" + id
	for _, s := range suffix {
		path += s
	}
	return path
}
