package app

import (
	"log/slog"
	"sync"
	"time"

	"ringwalk/internal/domain"
)

// ClientConn represents a connected client the session can deliver to.
type ClientConn interface {
	Send(message any) error
	ConnID() string
	Close() error
}

// OutboundMessage is the wire envelope delivered to clients.
type OutboundMessage struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type result struct {
	events     []domain.GameEvent
	err        error
	terminated bool
}

type command struct {
	run   func(room *domain.Room) result
	reply chan result
}

// RoomSession wraps one Room behind a single command-processing
// goroutine. Every inbound command for the room — join, start, draw,
// vote, event decision, disconnect — is serialized through the same
// queue, so room state never sees interleaved mutation and the
// "last vote triggers resolution" path needs no locking. Callers get
// their error back synchronously; the events a transition produced are
// delivered to their audiences before the next command runs.
type RoomSession struct {
	room   *domain.Room
	logger *slog.Logger

	clients   map[string]ClientConn
	clientsMu sync.RWMutex

	commands chan command
	done     chan struct{}
	once     sync.Once

	// set by the directory; invoked when a host drop terminates the room
	onTerminate func()
}

// NewRoomSession creates a session for the given room and starts its
// command loop.
func NewRoomSession(room *domain.Room, logger *slog.Logger) *RoomSession {
	s := &RoomSession{
		room:     room,
		logger:   logger,
		clients:  make(map[string]ClientConn),
		commands: make(chan command, 64),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *RoomSession) run() {
	for {
		select {
		case <-s.done:
			return
		case cmd := <-s.commands:
			res := cmd.run(s.room)
			s.deliver(res.events)
			cmd.reply <- res
			if res.terminated && s.onTerminate != nil {
				s.onTerminate()
			}
		}
	}
}

// do runs fn on the session's goroutine and waits for the outcome.
func (s *RoomSession) do(fn func(room *domain.Room) result) result {
	cmd := command{run: fn, reply: make(chan result, 1)}
	select {
	case s.commands <- cmd:
	case <-s.done:
		return result{err: domain.ErrRoomNotFound}
	}
	select {
	case res := <-cmd.reply:
		return res
	case <-s.done:
		return result{err: domain.ErrRoomNotFound}
	}
}

func (s *RoomSession) mutate(fn func(room *domain.Room) ([]domain.GameEvent, error)) error {
	res := s.do(func(room *domain.Room) result {
		events, err := fn(room)
		return result{events: events, err: err}
	})
	return res.err
}

// RegisterClient binds a live connection to the session for delivery.
func (s *RoomSession) RegisterClient(client ClientConn) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ConnID()] = client
}

// UnregisterClient removes a connection from delivery.
func (s *RoomSession) UnregisterClient(connID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, connID)
}

// RoomCode returns the room's addressing code.
func (s *RoomSession) RoomCode() string {
	return s.room.Code
}

// HostConnID returns the connection that owns host privileges.
func (s *RoomSession) HostConnID() string {
	return s.room.HostConnID
}

// Join admits or reconnects a player.
func (s *RoomSession) Join(connID, name, identityID string) error {
	return s.mutate(func(room *domain.Room) ([]domain.GameEvent, error) {
		return room.Join(connID, name, identityID)
	})
}

// Start begins the game. Host only.
func (s *RoomSession) Start(connID string, level domain.Level) error {
	return s.mutate(func(room *domain.Room) ([]domain.GameEvent, error) {
		return room.Start(connID, level)
	})
}

// DrawCard opens a card for votes. Host only.
func (s *RoomSession) DrawCard(connID string, card domain.Card) error {
	return s.mutate(func(room *domain.Room) ([]domain.GameEvent, error) {
		return room.DrawCard(connID, card)
	})
}

// SubmitVote records a vote; the quorum-completing vote resolves the
// turn within the same command.
func (s *RoomSession) SubmitVote(connID string, direction domain.Direction) error {
	return s.mutate(func(room *domain.Room) ([]domain.GameEvent, error) {
		return room.SubmitVote(connID, direction)
	})
}

// ApplyEventDecision resumes a turn paused on a ring event.
func (s *RoomSession) ApplyEventDecision(connID string, eventType domain.RingEventType, decisionID, targetID string) error {
	return s.mutate(func(room *domain.Room) ([]domain.GameEvent, error) {
		return room.ApplyEventDecision(connID, eventType, decisionID, targetID)
	})
}

// Disconnect handles a dropped connection. It reports whether the drop
// terminated the room (host drop), in which case the directory tears
// the session down.
func (s *RoomSession) Disconnect(connID string) (terminated bool) {
	res := s.do(func(room *domain.Room) result {
		events, term := room.Disconnect(connID)
		return result{events: events, terminated: term}
	})
	return res.terminated
}

// Stats snapshot accessors; these also run on the session goroutine so
// the reaper and the stats endpoint never race room mutation.

func (s *RoomSession) PlayerCount() int {
	n := 0
	_ = s.mutate(func(room *domain.Room) ([]domain.GameEvent, error) {
		n = room.PlayerCount()
		return nil, nil
	})
	return n
}

func (s *RoomSession) Started() bool {
	started := false
	_ = s.mutate(func(room *domain.Room) ([]domain.GameEvent, error) {
		started = room.Started
		return nil, nil
	})
	return started
}

func (s *RoomSession) LastActive() time.Time {
	var t time.Time
	_ = s.mutate(func(room *domain.Room) ([]domain.GameEvent, error) {
		t = room.LastActive
		return nil, nil
	})
	return t
}

// deliver routes events to their audiences. Sends are fire-and-forget:
// a slow client never stalls room state transitions.
func (s *RoomSession) deliver(events []domain.GameEvent) {
	if len(events) == 0 {
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, ev := range events {
		msg := OutboundMessage{
			Type:      string(ev.Type),
			Payload:   ev.Payload,
			Timestamp: time.Now().UTC(),
		}

		switch ev.Audience {
		case domain.AudienceRoom:
			for connID, client := range s.clients {
				if err := client.Send(msg); err != nil {
					s.logger.Debug("send failed", "connID", connID, "error", err)
				}
			}
		case domain.AudienceHost:
			if client, ok := s.clients[s.room.HostConnID]; ok {
				if err := client.Send(msg); err != nil {
					s.logger.Debug("send to host failed", "error", err)
				}
			}
		case domain.AudienceConn:
			if client, ok := s.clients[ev.ConnID]; ok {
				if err := client.Send(msg); err != nil {
					s.logger.Debug("send failed", "connID", ev.ConnID, "error", err)
				}
			}
		}
	}
}

// Close shuts the session down and disconnects all clients.
func (s *RoomSession) Close() {
	s.once.Do(func() {
		close(s.done)
	})

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for _, client := range s.clients {
		_ = client.Close()
	}
	s.clients = make(map[string]ClientConn)
}
