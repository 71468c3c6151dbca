package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"classifieds_service/internal/conversation/app"
	"classifieds_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

func TestRegisterRoutes(t *testing.T) {
	r := fiber.New()
	RegisterRoutes(r, app.NewHTTPHandler(nil, nil), app.NewChatWebsocketHandler(nil, nil, nil))

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"connect check", http.MethodGet, "/", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"debug flag", http.MethodPost, "/debug?status=false", http.StatusOK},
		{"debug flag bad value", http.MethodPost, "/debug?status=maybe", http.StatusBadRequest},
		{"api needs a token", http.MethodGet, "/api/conversations", http.StatusUnauthorized},
		{"websocket needs a token", http.MethodGet, "/ws", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := r.Test(httptest.NewRequest(tt.method, tt.path, nil))
			assert.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestMetricsExposeChatCounters(t *testing.T) {
	r := fiber.New()
	RegisterRoutes(r, app.NewHTTPHandler(nil, nil), app.NewChatWebsocketHandler(nil, nil, nil))

	_, err := r.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NoError(t, err)

	resp, err := r.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "chat_http_requests_total")
}
