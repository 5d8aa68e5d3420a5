package ws

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"ringwalk/internal/app"
	"ringwalk/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket connection. A connection is not tied to a
// room at upgrade time; it acquires a session by issuing create-room or
// join-room, and may hold at most one.
type Client struct {
	connID    string
	conn      *websocket.Conn
	directory *app.Directory
	logger    *slog.Logger

	// session is only touched from the read pump goroutine
	session *app.RoomSession

	send chan []byte
	done chan struct{}
}

// NewClient wraps an upgraded connection.
func NewClient(connID string, conn *websocket.Conn, directory *app.Directory, logger *slog.Logger) *Client {
	return &Client{
		connID:    connID,
		conn:      conn,
		directory: directory,
		logger:    logger.With("conn_id", connID),
		send:      make(chan []byte, 64),
		done:      make(chan struct{}),
	}
}

// ConnID implements app.ClientConn.
func (c *Client) ConnID() string { return c.connID }

// Send implements app.ClientConn. It marshals and queues the message
// for the write pump; a full queue drops the message rather than
// blocking the room's command loop.
func (c *Client) Send(message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return websocket.ErrCloseSent
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send queue full, dropping message")
		return nil
	}
}

// Close implements app.ClientConn.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Run starts the pumps and blocks until the connection is gone.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.detach()
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read error", "error", err)
			}
			return
		}
		c.handleMessage(data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// detach tears down the room association when the socket goes away.
// The session decides what the departure means: a host drop terminates
// the room, a player drop parks the seat for reconnection.
func (c *Client) detach() {
	session := c.session
	c.session = nil
	if session == nil {
		return
	}
	session.UnregisterClient(c.connID)
	terminated := session.Disconnect(c.connID)
	c.directory.Unbind(c.connID)
	if terminated {
		c.logger.Info("room terminated by host disconnect", "room_code", session.RoomCode())
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "malformed message")
		return
	}

	switch msg.Type {
	case MsgPing:
		c.sendMessage(MsgPong, nil)
	case MsgCreateRoom:
		c.handleCreateRoom()
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgStartGame:
		c.handleStartGame(msg.Payload)
	case MsgDrawCard:
		c.handleDrawCard(msg.Payload)
	case MsgPlayerVote:
		c.handlePlayerVote(msg.Payload)
	case MsgEventDecision:
		c.handleEventDecision(msg.Payload)
	case MsgListIdentities:
		c.handleListIdentities(msg.Payload)
	default:
		c.sendError(ErrCodeInvalidMessage, "unknown message type: "+string(msg.Type))
	}
}

func (c *Client) handleCreateRoom() {
	if c.session != nil {
		c.sendError(ErrCodeAlreadyInRoom, "connection already belongs to a room")
		return
	}
	session, err := c.directory.Create(c.connID)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	c.session = session
	session.RegisterClient(c)
	c.logger.Info("room created", "room_code", session.RoomCode())
	c.sendMessage(MsgRoomCreated, RoomCreatedPayload{
		RoomCode:   session.RoomCode(),
		Identities: domain.Identities(),
	})
}

func (c *Client) handleJoinRoom(raw json.RawMessage) {
	if c.session != nil {
		c.sendError(ErrCodeAlreadyInRoom, "connection already belongs to a room")
		return
	}
	var p JoinRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendError(ErrCodeInvalidMessage, "malformed join-room payload")
		return
	}
	p.RoomCode = strings.ToUpper(strings.TrimSpace(p.RoomCode))
	p.Name = strings.TrimSpace(p.Name)
	if p.RoomCode == "" || p.Name == "" || p.Identity == "" {
		c.sendError(ErrCodeInvalidMessage, "roomCode, name and identity are required")
		return
	}
	session, err := c.directory.Get(p.RoomCode)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	// Register before joining so the join-room ack and catch-up replay
	// reach this connection.
	session.RegisterClient(c)
	if err := session.Join(c.connID, p.Name, p.Identity); err != nil {
		session.UnregisterClient(c.connID)
		c.sendError(errorCode(err), err.Error())
		return
	}
	c.session = session
	c.directory.Bind(c.connID, p.RoomCode)
	c.logger.Info("player joined", "room_code", p.RoomCode, "name", p.Name)
}

func (c *Client) handleStartGame(raw json.RawMessage) {
	session, ok := c.requireSession()
	if !ok {
		return
	}
	var p StartGamePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendError(ErrCodeInvalidMessage, "malformed start-game payload")
		return
	}
	level, err := domain.ParseLevel(p.Level)
	if err != nil {
		c.sendError(errorCode(err), "level must be basic, intermediate or advanced")
		return
	}
	if err := session.Start(c.connID, level); err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

func (c *Client) handleDrawCard(raw json.RawMessage) {
	session, ok := c.requireSession()
	if !ok {
		return
	}
	var p DrawCardPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendError(ErrCodeInvalidMessage, "malformed draw-card payload")
		return
	}
	if p.ForwardSteps == nil || p.BackwardSteps == nil || strings.TrimSpace(p.Text) == "" {
		c.sendError(ErrCodeMalformedCard, "category, text, forwardSteps and backwardSteps are required")
		return
	}
	card := domain.Card{
		Category:      domain.Category(p.Category),
		Text:          p.Text,
		ForwardSteps:  *p.ForwardSteps,
		BackwardSteps: *p.BackwardSteps,
	}
	if err := session.DrawCard(c.connID, card); err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

func (c *Client) handlePlayerVote(raw json.RawMessage) {
	session, ok := c.requireSession()
	if !ok {
		return
	}
	var p VotePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendError(ErrCodeInvalidMessage, "malformed player-vote payload")
		return
	}
	direction, err := domain.ParseDirection(p.Direction)
	if err != nil {
		c.sendError(errorCode(err), "direction must be forward or backward")
		return
	}
	if err := session.SubmitVote(c.connID, direction); err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

func (c *Client) handleEventDecision(raw json.RawMessage) {
	session, ok := c.requireSession()
	if !ok {
		return
	}
	var p EventDecisionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendError(ErrCodeInvalidMessage, "malformed event-decision payload")
		return
	}
	if p.EventType == "" || p.Decision == "" {
		c.sendError(ErrCodeInvalidMessage, "eventType and decision are required")
		return
	}
	err := session.ApplyEventDecision(c.connID, domain.RingEventType(p.EventType), p.Decision, p.TargetPlayerID)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

// handleListIdentities answers with the identity catalog. The room code
// is accepted but only checked for existence; the catalog is the same
// for every room.
func (c *Client) handleListIdentities(raw json.RawMessage) {
	var p ListIdentitiesPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			c.sendError(ErrCodeInvalidMessage, "malformed list-identities payload")
			return
		}
	}
	if p.RoomCode != "" {
		code := strings.ToUpper(strings.TrimSpace(p.RoomCode))
		if _, err := c.directory.Get(code); err != nil {
			c.sendError(errorCode(err), err.Error())
			return
		}
	}
	c.sendMessage(MsgIdentities, IdentitiesPayload{Identities: domain.Identities()})
}

func (c *Client) requireSession() (*app.RoomSession, bool) {
	if c.session == nil {
		c.sendError(ErrCodeNotInRoom, "connection does not belong to a room")
		return nil, false
	}
	return c.session, true
}

func (c *Client) sendMessage(msgType MessageType, payload any) {
	c.Send(app.OutboundMessage{
		Type:      string(msgType),
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Client) sendError(code, message string) {
	c.sendMessage(MsgError, ErrorPayload{Code: code, Message: message})
}
