package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/powchain/app/services/viewer/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUIMux(t *testing.T) {
	app, err := handlers.UIMux(handlers.Config{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		NodeURL:  "https://node.example.com:8080/",
	})
	require.NoError(t, err)

	t.Run("index", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "wss://node.example.com:8080/v1/events")
		assert.Contains(t, w.Body.String(), "https://node.example.com:8080/v1/chain")
	})

	t.Run("assets", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/css/viewer.css", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "font-family")
	})
}

func TestUIMux_BadNodeURL(t *testing.T) {
	_, err := handlers.UIMux(handlers.Config{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		NodeURL:  "localhost",
	})
	assert.Error(t, err)
}
