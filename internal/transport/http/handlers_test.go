package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringwalk/internal/app"
	"ringwalk/internal/config"
)

func testServer(t *testing.T) (*Server, *app.Directory) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	directory := app.NewDirectory(6, 2, time.Hour, logger)
	t.Cleanup(directory.Close)

	s := NewServer(config.Default(), directory, logger, "0.1.0")
	return s, directory
}

func doRequest(s *Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	s, _ := testServer(t)

	rec := doRequest(s, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestStats(t *testing.T) {
	s, directory := testServer(t)

	session, err := directory.Create("host")
	require.NoError(t, err)
	require.NoError(t, session.Join("c1", "Alice", "white_woman"))

	rec := doRequest(s, http.MethodGet, "/api/stats")
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), data["activeRooms"])
	assert.Equal(t, float64(1), data["totalPlayers"])
}

func TestGetRoom(t *testing.T) {
	s, directory := testServer(t)

	session, err := directory.Create("host")
	require.NoError(t, err)
	code := session.RoomCode()

	t.Run("found", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/rooms/"+code)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		data := resp.Data.(map[string]any)
		assert.Equal(t, code, data["roomCode"])
		assert.Equal(t, true, data["canJoin"])
	})

	t.Run("lowercase codes resolve", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/rooms/"+strings.ToLower(code))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/rooms/NOSUCH")
		require.Equal(t, http.StatusNotFound, rec.Code)

		resp := decodeResponse(t, rec)
		assert.False(t, resp.Success)
		assert.Equal(t, "ROOM_NOT_FOUND", resp.Error.Code)
	})
}

func TestRoomQR(t *testing.T) {
	s, directory := testServer(t)

	session, err := directory.Create("host")
	require.NoError(t, err)

	rec := doRequest(s, http.MethodGet, "/api/rooms/"+session.RoomCode()+"/qr")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())

	rec = doRequest(s, http.MethodGet, "/api/rooms/NOSUCH/qr")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVersion(t *testing.T) {
	s, _ := testServer(t)

	rec := doRequest(s, http.MethodGet, "/version")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ringwalk v0.1.0\n", rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s, _ := testServer(t)

	rec := doRequest(s, http.MethodOptions, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
