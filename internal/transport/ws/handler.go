package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ringwalk/internal/app"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is left to the deployment's reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades websocket connections and hands them to the game.
type Handler struct {
	directory *app.Directory
	logger    *slog.Logger
}

// NewHandler creates a websocket handler backed by the given directory.
func NewHandler(directory *app.Directory, logger *slog.Logger) *Handler {
	return &Handler{directory: directory, logger: logger}
}

// ServeHTTP upgrades the request and runs the connection until it
// closes. Each connection gets a fresh id; room membership is
// established later by create-room or join-room commands.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	connID := uuid.NewString()
	h.logger.Debug("client connected", "conn_id", connID, "remote_addr", r.RemoteAddr)

	client := NewClient(connID, conn, h.directory, h.logger)
	client.Run()

	h.logger.Debug("client disconnected", "conn_id", connID)
}
