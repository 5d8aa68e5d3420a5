package ws

import (
	"encoding/json"
	"errors"

	"ringwalk/internal/domain"
)

// MessageType identifies an inbound command or outbound notice.
type MessageType string

// Client → Server commands
const (
	MsgCreateRoom     MessageType = "create-room"
	MsgJoinRoom       MessageType = "join-room"
	MsgStartGame      MessageType = "start-game"
	MsgDrawCard       MessageType = "draw-card"
	MsgPlayerVote     MessageType = "player-vote"
	MsgEventDecision  MessageType = "event-decision"
	MsgListIdentities MessageType = "list-identities"
	MsgPing           MessageType = "ping"
)

// Server → Client notices produced by the gateway itself; game events
// are forwarded under their domain event names.
const (
	MsgRoomCreated MessageType = "room-created"
	MsgIdentities  MessageType = "available-identities"
	MsgError       MessageType = "error"
	MsgPong        MessageType = "pong"
)

// ClientMessage is the tagged envelope for every inbound command. The
// payload stays raw until the command-specific schema decodes it, so
// malformed payloads are rejected at the boundary before any room
// logic runs.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage mirrors app.OutboundMessage for gateway-originated
// notices.
type ServerMessage struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

// Inbound command payloads

// JoinRoomPayload carries a join or reconnection request.
type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
	Identity string `json:"identity"`
}

// StartGamePayload carries the host's chosen difficulty level.
type StartGamePayload struct {
	Level string `json:"level"`
}

// DrawCardPayload carries the card the host drew. Step counts are
// pointers so a missing field is distinguishable from a legal zero.
type DrawCardPayload struct {
	Category      string `json:"category"`
	Text          string `json:"text"`
	ForwardSteps  *int   `json:"forwardSteps"`
	BackwardSteps *int   `json:"backwardSteps"`
}

// VotePayload carries a player's forward-or-backward choice.
type VotePayload struct {
	Direction string `json:"direction"`
}

// EventDecisionPayload carries the decision for a pending ring event.
type EventDecisionPayload struct {
	EventType      string `json:"eventType"`
	Decision       string `json:"decision"`
	TargetPlayerID string `json:"targetPlayerId,omitempty"`
}

// ListIdentitiesPayload asks for the identity catalog of a room.
type ListIdentitiesPayload struct {
	RoomCode string `json:"roomCode"`
}

// Outbound ack payloads

// RoomCreatedPayload acks room creation to the host connection.
type RoomCreatedPayload struct {
	RoomCode   string            `json:"roomCode"`
	Identities []domain.Identity `json:"availableIdentities"`
}

// IdentitiesPayload answers a list-identities request.
type IdentitiesPayload struct {
	Identities []domain.Identity `json:"identities"`
}

// ErrorPayload is sent only to the offending connection.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage   = "INVALID_MESSAGE"
	ErrCodeRoomNotFound     = "ROOM_NOT_FOUND"
	ErrCodeAlreadyInRoom    = "ALREADY_IN_ROOM"
	ErrCodeNotInRoom        = "NOT_IN_ROOM"
	ErrCodeDuplicateName    = "DUPLICATE_NAME"
	ErrCodeInvalidIdentity  = "INVALID_IDENTITY"
	ErrCodeAlreadyConnected = "ALREADY_CONNECTED"
	ErrCodeGameStarted      = "GAME_ALREADY_STARTED"
	ErrCodeGameNotActive    = "GAME_NOT_ACTIVE"
	ErrCodeGameOver         = "GAME_OVER"
	ErrCodeNotHost          = "NOT_HOST"
	ErrCodeNotEnoughPlayers = "NOT_ENOUGH_PLAYERS"
	ErrCodeHostCannotVote   = "HOST_CANNOT_VOTE"
	ErrCodeAlreadyVoted     = "ALREADY_VOTED"
	ErrCodeNoActiveCard     = "NO_ACTIVE_CARD"
	ErrCodeAwaitingVotes    = "AWAITING_VOTES"
	ErrCodeCategoryMismatch = "CATEGORY_MISMATCH"
	ErrCodeMalformedCard    = "MALFORMED_CARD"
	ErrCodeNoActiveEvent    = "NO_ACTIVE_EVENT"
	ErrCodeInvalidDecision  = "INVALID_DECISION"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// errorCode maps a domain error onto a stable machine-readable code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return ErrCodeRoomNotFound
	case errors.Is(err, domain.ErrDuplicateName):
		return ErrCodeDuplicateName
	case errors.Is(err, domain.ErrInvalidIdentity):
		return ErrCodeInvalidIdentity
	case errors.Is(err, domain.ErrAlreadyConnected):
		return ErrCodeAlreadyConnected
	case errors.Is(err, domain.ErrGameAlreadyStarted):
		return ErrCodeGameStarted
	case errors.Is(err, domain.ErrGameNotActive):
		return ErrCodeGameNotActive
	case errors.Is(err, domain.ErrGameOver):
		return ErrCodeGameOver
	case errors.Is(err, domain.ErrNotHost):
		return ErrCodeNotHost
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		return ErrCodeNotEnoughPlayers
	case errors.Is(err, domain.ErrHostCannotVote):
		return ErrCodeHostCannotVote
	case errors.Is(err, domain.ErrAlreadyVoted):
		return ErrCodeAlreadyVoted
	case errors.Is(err, domain.ErrNoActiveCard):
		return ErrCodeNoActiveCard
	case errors.Is(err, domain.ErrAwaitingVotes):
		return ErrCodeAwaitingVotes
	case errors.Is(err, domain.ErrCategoryMismatch):
		return ErrCodeCategoryMismatch
	case errors.Is(err, domain.ErrMalformedCard):
		return ErrCodeMalformedCard
	case errors.Is(err, domain.ErrNoActiveEvent):
		return ErrCodeNoActiveEvent
	case errors.Is(err, domain.ErrInvalidDecision), errors.Is(err, domain.ErrInvalidTarget):
		return ErrCodeInvalidDecision
	case errors.Is(err, domain.ErrInvalidLevel), errors.Is(err, domain.ErrInvalidVoteDirection):
		return ErrCodeInvalidMessage
	case errors.Is(err, domain.ErrPlayerNotFound):
		return ErrCodeNotInRoom
	default:
		return ErrCodeInternalError
	}
}
