package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ycelik/miniblog/internal/handler"
	"github.com/ycelik/miniblog/internal/repository"
	"github.com/ycelik/miniblog/internal/service"
	"github.com/ycelik/miniblog/internal/session"
	"github.com/ycelik/miniblog/internal/testutil"
	"github.com/ycelik/miniblog/pkg/logger"
)

// A store failure must map to 500 with a generic body; driver detail stays
// in the logs, never in the response.
func TestRegister_StoreFailureIsGeneric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Init(false)

	testDB := testutil.SetupTestDatabase(t)

	testRedis := testutil.SetupTestRedis(t)
	t.Cleanup(func() { testRedis.Teardown(t) })

	sessions, err := session.NewStore(testRedis.URL, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close() })

	authService := service.NewAuthService(repository.NewUserRepository(testDB.DB), sessions)
	authHandler := handler.NewAuthHandler(authService, 3600, false)

	router := gin.New()
	router.POST("/api/auth/register", authHandler.Register)

	// Kill the database before the request arrives
	testDB.Teardown(t)

	body, _ := json.Marshal(map[string]string{
		"username": "alice",
		"password": "pw1",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Internal server error", response["error"])
	assert.NotContains(t, w.Body.String(), "sql", "Driver detail must not leak to the client")
}
