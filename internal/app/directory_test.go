package app

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringwalk/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDirectory(t *testing.T) *Directory {
	t.Helper()
	d := NewDirectory(6, 2, time.Hour, testLogger())
	t.Cleanup(d.Close)
	return d
}

// fakeConn records everything the session delivers to it.
type fakeConn struct {
	id string

	mu       sync.Mutex
	messages []OutboundMessage
	closed   bool
}

func (f *fakeConn) ConnID() string { return f.id }

func (f *fakeConn) Send(message any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message.(OutboundMessage))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	for i, m := range f.messages {
		out[i] = m.Type
	}
	return out
}

func (f *fakeConn) sawType(msgType string) bool {
	for _, mt := range f.types() {
		if mt == msgType {
			return true
		}
	}
	return false
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestDirectoryCreate(t *testing.T) {
	d := testDirectory(t)

	session, err := d.Create("host-1")
	require.NoError(t, err)
	code := session.RoomCode()

	assert.Len(t, code, 6)
	for _, c := range code {
		assert.Contains(t, roomCodeChars, string(c))
	}

	got, err := d.Get(code)
	require.NoError(t, err)
	assert.Same(t, session, got)

	// the host connection is bound at creation
	resolved, err := d.Resolve("host-1")
	require.NoError(t, err)
	assert.Same(t, session, resolved)

	assert.Equal(t, 1, d.RoomCount())
}

func TestDirectoryLookupUnknown(t *testing.T) {
	d := testDirectory(t)

	_, err := d.Get("NOSUCH")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, err = d.Resolve("ghost-conn")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestDirectoryBindUnbind(t *testing.T) {
	d := testDirectory(t)
	session, err := d.Create("host-1")
	require.NoError(t, err)

	d.Bind("conn-2", session.RoomCode())
	resolved, err := d.Resolve("conn-2")
	require.NoError(t, err)
	assert.Same(t, session, resolved)

	d.Unbind("conn-2")
	_, err = d.Resolve("conn-2")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestDirectoryDestroy(t *testing.T) {
	d := testDirectory(t)
	session, err := d.Create("host-1")
	require.NoError(t, err)
	code := session.RoomCode()

	conn := &fakeConn{id: "host-1"}
	session.RegisterClient(conn)

	d.Destroy(code)

	_, err = d.Get(code)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	_, err = d.Resolve("host-1")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	assert.Equal(t, 0, d.RoomCount())
	assert.True(t, conn.isClosed())
}

func TestDirectoryCodesAreUnique(t *testing.T) {
	d := testDirectory(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		session, err := d.Create("host")
		require.NoError(t, err)
		code := session.RoomCode()
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestGenerateRoomCode(t *testing.T) {
	d := testDirectory(t)

	for i := 0; i < 50; i++ {
		code := d.generateRoomCode()
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, strings.ContainsRune(roomCodeChars, c), "unexpected char %q", c)
		}
	}
}
