package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ringwalk/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	reapInterval = 10 * time.Minute
)

// roomCodeChars are the characters used for room codes (no ambiguous chars)
const roomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Directory maps room codes and connection ids to room sessions. It is
// the single owner of room lifecycle: creation, lookup and teardown all
// go through it, with no ambient global state.
type Directory struct {
	mu       sync.RWMutex
	sessions map[string]*RoomSession // room code → session
	conns    map[string]string       // connection id → room code

	codeLength  int
	minPlayers  int
	idleTimeout time.Duration
	logger      *slog.Logger
	done        chan struct{}
}

// NewDirectory creates a directory and starts its idle-room reaper.
func NewDirectory(codeLength, minPlayers int, idleTimeout time.Duration, logger *slog.Logger) *Directory {
	if codeLength <= 0 {
		codeLength = DefaultRoomCodeLength
	}
	d := &Directory{
		sessions:    make(map[string]*RoomSession),
		conns:       make(map[string]string),
		codeLength:  codeLength,
		minPlayers:  minPlayers,
		idleTimeout: idleTimeout,
		logger:      logger,
		done:        make(chan struct{}),
	}
	go d.reapLoop()
	return d
}

// Create registers a new room owned by the given host connection and
// returns its session.
func (d *Directory) Create(hostConnID string) (*RoomSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var code string
	for attempts := 0; attempts < 10; attempts++ {
		code = d.generateRoomCode()
		if _, exists := d.sessions[code]; !exists {
			break
		}
	}
	if _, exists := d.sessions[code]; exists {
		return nil, fmt.Errorf("failed to generate unique room code")
	}

	room := domain.NewRoom(code, hostConnID, d.minPlayers)
	session := NewRoomSession(room, d.logger)
	session.onTerminate = func() { d.Destroy(code) }

	d.sessions[code] = session
	d.conns[hostConnID] = code

	d.logger.Info("room created", "roomCode", code, "hostConnID", hostConnID)
	return session, nil
}

// Get returns the session registered under a room code.
func (d *Directory) Get(code string) (*RoomSession, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	session, ok := d.sessions[code]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return session, nil
}

// Resolve returns the session a connection belongs to. Every command
// after room creation or join addresses its room this way.
func (d *Directory) Resolve(connID string) (*RoomSession, error) {
	d.mu.RLock()
	code, ok := d.conns[connID]
	if !ok {
		d.mu.RUnlock()
		return nil, domain.ErrRoomNotFound
	}
	session, ok := d.sessions[code]
	d.mu.RUnlock()
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return session, nil
}

// Bind records that a connection belongs to a room; called after a
// successful join.
func (d *Directory) Bind(connID, code string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns[connID] = code
}

// Unbind drops a connection's room mapping, so late messages from a
// superseded connection no longer resolve to the room.
func (d *Directory) Unbind(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.conns, connID)
}

// Destroy tears a room down: the session is closed, its clients are
// disconnected, and every connection mapping into the room is removed.
func (d *Directory) Destroy(code string) {
	d.mu.Lock()
	session, ok := d.sessions[code]
	if ok {
		delete(d.sessions, code)
		for connID, c := range d.conns {
			if c == code {
				delete(d.conns, connID)
			}
		}
	}
	d.mu.Unlock()

	if ok {
		session.Close()
		d.logger.Info("room destroyed", "roomCode", code)
	}
}

// RoomCount returns the number of active rooms.
func (d *Directory) RoomCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}

// TotalPlayerCount returns the number of players across all rooms.
func (d *Directory) TotalPlayerCount() int {
	d.mu.RLock()
	sessions := make([]*RoomSession, 0, len(d.sessions))
	for _, s := range d.sessions {
		sessions = append(sessions, s)
	}
	d.mu.RUnlock()

	total := 0
	for _, s := range sessions {
		total += s.PlayerCount()
	}
	return total
}

// Close shuts down the directory and every session.
func (d *Directory) Close() {
	close(d.done)

	d.mu.Lock()
	sessions := d.sessions
	d.sessions = make(map[string]*RoomSession)
	d.conns = make(map[string]string)
	d.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

func (d *Directory) generateRoomCode() string {
	b := make([]byte, d.codeLength)
	rand.Read(b)

	code := make([]byte, d.codeLength)
	for i := range code {
		code[i] = roomCodeChars[int(b[i])%len(roomCodeChars)]
	}
	return string(code)
}

// reapLoop periodically removes rooms idle past the configured timeout.
func (d *Directory) reapLoop() {
	if d.idleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			d.reapIdle()
		}
	}
}

func (d *Directory) reapIdle() {
	cutoff := time.Now().Add(-d.idleTimeout)

	d.mu.RLock()
	candidates := make(map[string]*RoomSession, len(d.sessions))
	for code, s := range d.sessions {
		candidates[code] = s
	}
	d.mu.RUnlock()

	for code, session := range candidates {
		if session.LastActive().Before(cutoff) {
			d.Destroy(code)
			d.logger.Info("idle room reaped", "roomCode", code)
		}
	}
}
