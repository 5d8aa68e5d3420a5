package domain

// EventType identifies an outbound game event.
type EventType string

const (
	EventRoomUpdated      EventType = "room-updated"
	EventJoinedRoom       EventType = "joined-room"
	EventGameStarted      EventType = "game-started"
	EventCardDrawn        EventType = "card-drawn"
	EventPlayerDecision   EventType = "player-decision"
	EventAllDecisionsMade EventType = "all-decisions-made"
	EventChoiceRequired   EventType = "event-choice-required"
	EventGameEnded        EventType = "game-ended"
	EventReadyForNextCard EventType = "ready-for-next-card"
	EventHostDisconnected EventType = "host-disconnected"
)

// Audience selects who receives an event: the whole room, the host
// connection only, or one specific connection.
type Audience int

const (
	AudienceRoom Audience = iota
	AudienceHost
	AudienceConn
)

// GameEvent is an outbound event produced by a room state transition.
// Rooms return events as data; the transport layer delivers them to the
// audience, so the state machine never touches a connection directly.
type GameEvent struct {
	Type     EventType
	Audience Audience
	ConnID   string // target connection when Audience is AudienceConn
	Payload  any
}

func roomEvent(t EventType, payload any) GameEvent {
	return GameEvent{Type: t, Audience: AudienceRoom, Payload: payload}
}

func hostEvent(t EventType, payload any) GameEvent {
	return GameEvent{Type: t, Audience: AudienceHost, Payload: payload}
}

func connEvent(t EventType, connID string, payload any) GameEvent {
	return GameEvent{Type: t, Audience: AudienceConn, ConnID: connID, Payload: payload}
}

// Payload types for outbound events

// RoomUpdatePayload is broadcast whenever the roster changes.
type RoomUpdatePayload struct {
	Players    []*Player  `json:"players"`
	Identities []Identity `json:"availableIdentities"`
	Level      Level      `json:"gameLevel"`
}

// JoinedRoomPayload acks a successful join or reconnection to the
// joining connection only.
type JoinedRoomPayload struct {
	RoomCode    string  `json:"roomCode"`
	Player      *Player `json:"playerData"`
	Level       Level   `json:"gameLevel"`
	Reconnected bool    `json:"reconnected,omitempty"`
}

// GameStartedPayload is broadcast at game start and replayed to
// reconnecting players as a state snapshot.
type GameStartedPayload struct {
	Level         Level     `json:"gameLevel"`
	CurrentPlayer *Player   `json:"currentPlayer"`
	Players       []*Player `json:"players"`
	NextCategory  Category  `json:"nextCardType"`
	DrawCount     int       `json:"drawCount"`
	AwaitingVotes bool      `json:"waitingForVotes"`
}

// CardDrawnPayload is broadcast when the host draws a card.
type CardDrawnPayload struct {
	Card         Card     `json:"card"`
	NextCategory Category `json:"nextCardType"`
}

// PlayerDecisionPayload is broadcast for every vote as it is cast, and
// replayed to reconnecting players so their view catches up.
type PlayerDecisionPayload struct {
	PlayerID string   `json:"playerId"`
	Decision Decision `json:"decision"`
}

// AllDecisionsPayload finalizes a turn: every voter has moved, the turn
// pointer has advanced, and the host may draw the next card.
type AllDecisionsPayload struct {
	Players        []*Player `json:"allPlayers"`
	NextCategory   Category  `json:"nextCardType"`
	Winner         *Player   `json:"winner,omitempty"`
	CurrentPlayer  *Player   `json:"currentPlayer"`
	EventProcessed bool      `json:"eventProcessed,omitempty"`
}

// EventChoicePayload is sent only to the card-drawing player who landed
// on an event ring.
type EventChoicePayload struct {
	Player  *Player   `json:"player"`
	Event   RingEvent `json:"event"`
	Choices []Choice  `json:"choices"`
}

// GameEndedPayload carries the terminal winner broadcast.
type GameEndedPayload struct {
	Winner *Player `json:"winner"`
}

// NextCardPayload tells the host the next expected category.
type NextCardPayload struct {
	NextCategory Category `json:"nextCardType"`
}
