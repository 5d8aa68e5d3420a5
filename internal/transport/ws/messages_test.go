package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringwalk/internal/domain"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrRoomNotFound, ErrCodeRoomNotFound},
		{domain.ErrDuplicateName, ErrCodeDuplicateName},
		{domain.ErrInvalidIdentity, ErrCodeInvalidIdentity},
		{domain.ErrGameAlreadyStarted, ErrCodeGameStarted},
		{domain.ErrGameOver, ErrCodeGameOver},
		{domain.ErrNotHost, ErrCodeNotHost},
		{domain.ErrHostCannotVote, ErrCodeHostCannotVote},
		{domain.ErrAlreadyVoted, ErrCodeAlreadyVoted},
		{domain.ErrNoActiveCard, ErrCodeNoActiveCard},
		{domain.ErrAwaitingVotes, ErrCodeAwaitingVotes},
		{domain.ErrCategoryMismatch, ErrCodeCategoryMismatch},
		{domain.ErrMalformedCard, ErrCodeMalformedCard},
		{domain.ErrNoActiveEvent, ErrCodeNoActiveEvent},
		{domain.ErrInvalidDecision, ErrCodeInvalidDecision},
		{domain.ErrInvalidTarget, ErrCodeInvalidDecision},
		{domain.ErrInvalidLevel, ErrCodeInvalidMessage},
		{domain.ErrInvalidVoteDirection, ErrCodeInvalidMessage},
		{domain.ErrPlayerNotFound, ErrCodeNotInRoom},
		{assert.AnError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, errorCode(tt.err), "for %v", tt.err)
	}
}

func TestClientMessageEnvelope(t *testing.T) {
	t.Run("payload stays raw until the command decodes it", func(t *testing.T) {
		raw := []byte(`{"type":"join-room","payload":{"roomCode":"abc123","name":"Alice","identity":"white_woman"}}`)

		var msg ClientMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, MsgJoinRoom, msg.Type)

		var p JoinRoomPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &p))
		assert.Equal(t, "abc123", p.RoomCode)
		assert.Equal(t, "Alice", p.Name)
	})

	t.Run("missing step counts are distinguishable from zero", func(t *testing.T) {
		var p DrawCardPayload
		require.NoError(t, json.Unmarshal([]byte(`{"category":"behaviors","text":"q","forwardSteps":0}`), &p))
		require.NotNil(t, p.ForwardSteps)
		assert.Equal(t, 0, *p.ForwardSteps)
		assert.Nil(t, p.BackwardSteps)
	})
}
