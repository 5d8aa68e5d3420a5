package domain

import (
	"strings"
	"time"
)

// Direction is a player's vote on the active card.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// ParseDirection validates a client-supplied vote direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionForward, DirectionBackward:
		return Direction(s), nil
	}
	return "", ErrInvalidVoteDirection
}

// Decision is a recorded vote. Steps is the signed ring delta that will
// be applied at resolution (negative toward the center); CardSteps is
// the unsigned magnitude taken from the card, kept so clients can show
// "stay" distinctly when a card encodes zero for a direction.
type Decision struct {
	Direction Direction `json:"direction"`
	Steps     int       `json:"steps"`
	CardSteps int       `json:"cardSteps"`
}

type pendingEvent struct {
	connID  string
	event   RingEvent
	choices []Choice
}

// Room owns all mutable state for one game session. It is not safe for
// concurrent use; the app layer serializes every command for a room
// through a single goroutine. All mutating operations return the
// outbound events the transition produced, as data, so the transport
// layer decides delivery.
type Room struct {
	Code       string
	HostConnID string

	Started bool
	Level   Level

	players      []*Player // join order, which is also the turn order
	disconnected []*Player // parked for reconnection, keyed by (name, identity)

	currentTurn int
	drawCount   int

	currentCard   *Card
	votes         map[string]Decision
	voteOrder     []string // broadcast order, replayed to reconnecting players
	awaitingVotes bool
	pending       *pendingEvent

	winner     *Player
	minPlayers int

	CreatedAt  time.Time
	LastActive time.Time
}

// NewRoom creates a room owned by the given host connection.
func NewRoom(code, hostConnID string, minPlayers int) *Room {
	if minPlayers < 2 {
		minPlayers = 2
	}
	now := time.Now()
	return &Room{
		Code:       code,
		HostConnID: hostConnID,
		Level:      LevelBasic,
		votes:      make(map[string]Decision),
		minPlayers: minPlayers,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Players returns the roster in join order.
func (r *Room) Players() []*Player {
	out := make([]*Player, len(r.players))
	copy(out, r.players)
	return out
}

// PlayerCount returns the number of active (non-parked) players.
func (r *Room) PlayerCount() int {
	return len(r.players)
}

// ConnectedCount returns the number of connected players, which is the
// vote quorum.
func (r *Room) ConnectedCount() int {
	n := 0
	for _, p := range r.players {
		if p.Connected {
			n++
		}
	}
	return n
}

// CurrentPlayer returns the player whose turn drives card draws and
// ring events, or nil before any player joins.
func (r *Room) CurrentPlayer() *Player {
	if len(r.players) == 0 {
		return nil
	}
	return r.players[r.currentTurn%len(r.players)]
}

// ExpectedCategory returns the category the next drawn card must carry.
func (r *Room) ExpectedCategory() Category {
	return NextCategory(r.Level, r.drawCount)
}

// DrawCount returns the number of completed turns.
func (r *Room) DrawCount() int {
	return r.drawCount
}

// Winner returns the winning player once the game has ended.
func (r *Room) Winner() *Player {
	return r.winner
}

// AwaitingVotes reports whether a card is open for votes or a ring
// event decision is pending.
func (r *Room) AwaitingVotes() bool {
	return r.awaitingVotes
}

func (r *Room) touch() {
	r.LastActive = time.Now()
}

func (r *Room) findPlayer(connID string) (*Player, int) {
	for i, p := range r.players {
		if p.ConnID == connID {
			return p, i
		}
	}
	return nil, -1
}

func (r *Room) nameInUse(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range r.players {
		if strings.ToLower(p.Name) == lower {
			return true
		}
	}
	for _, p := range r.disconnected {
		if strings.ToLower(p.Name) == lower {
			return true
		}
	}
	return false
}

func (r *Room) rosterEvent() GameEvent {
	return roomEvent(EventRoomUpdated, RoomUpdatePayload{
		Players:    r.Players(),
		Identities: Identities(),
		Level:      r.Level,
	})
}

func (r *Room) snapshot() GameStartedPayload {
	return GameStartedPayload{
		Level:         r.Level,
		CurrentPlayer: r.CurrentPlayer(),
		Players:       r.Players(),
		NextCategory:  r.ExpectedCategory(),
		DrawCount:     r.drawCount,
		AwaitingVotes: r.awaitingVotes,
	}
}

// Join admits a connection under (name, identity): a fresh admission
// before the game starts, or a reconnection of a parked player at any
// time. This mirrors the single join command clients send.
func (r *Room) Join(connID, name, identityID string) ([]GameEvent, error) {
	if r.matchLive(name, identityID) != nil {
		return nil, ErrAlreadyConnected
	}
	if r.matchParked(name, identityID) != nil {
		return r.Reconnect(name, identityID, connID)
	}
	if r.Started {
		return nil, ErrGameAlreadyStarted
	}
	return r.AddPlayer(connID, name, identityID)
}

func (r *Room) matchLive(name, identityID string) *Player {
	for _, p := range r.players {
		if p.Name == name && p.Identity == identityID {
			return p
		}
	}
	return nil
}

func (r *Room) matchParked(name, identityID string) *Player {
	for _, p := range r.disconnected {
		if p.Name == name && p.Identity == identityID {
			return p
		}
	}
	return nil
}

// AddPlayer admits a new player at the outer ring. Names are unique
// case-insensitively across both connected and parked players;
// identities may repeat.
func (r *Room) AddPlayer(connID, name, identityID string) ([]GameEvent, error) {
	r.touch()

	if r.Started {
		return nil, ErrGameAlreadyStarted
	}
	if r.nameInUse(name) {
		return nil, ErrDuplicateName
	}
	ident, ok := LookupIdentity(identityID)
	if !ok {
		return nil, ErrInvalidIdentity
	}

	player := NewPlayer(connID, name, ident)
	r.players = append(r.players, player)

	return []GameEvent{
		connEvent(EventJoinedRoom, connID, JoinedRoomPayload{
			RoomCode: r.Code,
			Player:   player,
			Level:    r.Level,
		}),
		r.rosterEvent(),
	}, nil
}

// Reconnect restores a parked player under a new connection id,
// preserving position and progress. If a card is open for votes the new
// connection is replayed the card and every vote cast so far — a
// catch-up, not a fresh draw.
func (r *Room) Reconnect(name, identityID, newConnID string) ([]GameEvent, error) {
	r.touch()

	if r.matchLive(name, identityID) != nil {
		return nil, ErrAlreadyConnected
	}

	player := r.matchParked(name, identityID)
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	for i, p := range r.disconnected {
		if p == player {
			r.disconnected = append(r.disconnected[:i], r.disconnected[i+1:]...)
			break
		}
	}
	oldConnID := player.ConnID
	player.ConnID = newConnID
	player.Connected = true
	r.players = append(r.players, player)

	events := []GameEvent{
		connEvent(EventJoinedRoom, newConnID, JoinedRoomPayload{
			RoomCode:    r.Code,
			Player:      player,
			Level:       r.Level,
			Reconnected: true,
		}),
	}

	if r.Started {
		events = append(events, connEvent(EventGameStarted, newConnID, r.snapshot()))

		if r.currentCard != nil && r.awaitingVotes {
			events = append(events, connEvent(EventCardDrawn, newConnID, CardDrawnPayload{
				Card:         *r.currentCard,
				NextCategory: r.ExpectedCategory(),
			}))
			for _, voterID := range r.voteOrder {
				id := voterID
				if id == oldConnID {
					// the player's own earlier vote follows them
					id = newConnID
					r.votes[newConnID] = r.votes[oldConnID]
					delete(r.votes, oldConnID)
					r.replaceVoteOrder(oldConnID, newConnID)
				}
				events = append(events, connEvent(EventPlayerDecision, newConnID, PlayerDecisionPayload{
					PlayerID: id,
					Decision: r.votes[id],
				}))
			}
		}

		// a ring-event decision owed by this player follows them too,
		// re-offering the stored menu so the turn can still resolve
		if r.pending != nil && r.pending.connID == oldConnID {
			r.pending.connID = newConnID
			events = append(events, connEvent(EventChoiceRequired, newConnID, EventChoicePayload{
				Player:  player,
				Event:   r.pending.event,
				Choices: r.pending.choices,
			}))
		}
	}

	events = append(events, r.rosterEvent())
	return events, nil
}

func (r *Room) replaceVoteOrder(oldID, newID string) {
	for i, id := range r.voteOrder {
		if id == oldID {
			r.voteOrder[i] = newID
		}
	}
}

// Start begins the game at the given level. Host only.
func (r *Room) Start(connID string, level Level) ([]GameEvent, error) {
	r.touch()

	if connID != r.HostConnID {
		return nil, ErrNotHost
	}
	if r.Started {
		return nil, ErrGameAlreadyStarted
	}
	if len(r.players) < r.minPlayers {
		return nil, ErrNotEnoughPlayers
	}

	r.Started = true
	r.Level = level
	r.currentTurn = 0
	r.drawCount = 0

	return []GameEvent{roomEvent(EventGameStarted, r.snapshot())}, nil
}

// DrawCard opens a card for votes. Host only; the category must match
// the deterministic rotation for the current draw count.
func (r *Room) DrawCard(connID string, card Card) ([]GameEvent, error) {
	r.touch()

	if connID != r.HostConnID {
		return nil, ErrNotHost
	}
	if !r.Started {
		return nil, ErrGameNotActive
	}
	if r.winner != nil {
		return nil, ErrGameOver
	}
	if r.awaitingVotes {
		return nil, ErrAwaitingVotes
	}
	if card.Category != r.ExpectedCategory() {
		return nil, ErrCategoryMismatch
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	r.currentCard = &card
	r.votes = make(map[string]Decision)
	r.voteOrder = nil
	r.awaitingVotes = true

	return []GameEvent{roomEvent(EventCardDrawn, CardDrawnPayload{
		Card:         card,
		NextCategory: r.ExpectedCategory(),
	})}, nil
}

// SubmitVote records a player's forward-or-backward choice for the
// active card. The vote that completes the quorum triggers resolution
// synchronously in the same call; awaitingVotes flips before any event
// is delivered, so no further vote can slip in.
func (r *Room) SubmitVote(connID string, direction Direction) ([]GameEvent, error) {
	r.touch()

	if !r.Started {
		return nil, ErrGameNotActive
	}
	if r.winner != nil {
		return nil, ErrGameOver
	}
	if r.currentCard == nil || !r.awaitingVotes || r.pending != nil {
		return nil, ErrNoActiveCard
	}
	if connID == r.HostConnID {
		return nil, ErrHostCannotVote
	}
	player, _ := r.findPlayer(connID)
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	if _, voted := r.votes[connID]; voted {
		return nil, ErrAlreadyVoted
	}

	var decision Decision
	if direction == DirectionForward {
		decision = Decision{
			Direction: DirectionForward,
			Steps:     -r.currentCard.ForwardSteps,
			CardSteps: r.currentCard.ForwardSteps,
		}
	} else {
		decision = Decision{
			Direction: DirectionBackward,
			Steps:     r.currentCard.BackwardSteps,
			CardSteps: r.currentCard.BackwardSteps,
		}
	}

	r.votes[connID] = decision
	r.voteOrder = append(r.voteOrder, connID)

	events := []GameEvent{roomEvent(EventPlayerDecision, PlayerDecisionPayload{
		PlayerID: connID,
		Decision: decision,
	})}

	return append(events, r.maybeResolve()...), nil
}

// quorumMet reports whether every connected player has a recorded vote.
func (r *Room) quorumMet() bool {
	needed := 0
	for _, p := range r.players {
		if !p.Connected {
			continue
		}
		needed++
		if _, ok := r.votes[p.ConnID]; !ok {
			return false
		}
	}
	return needed > 0
}

// maybeResolve applies all recorded votes once the quorum is met. At
// the advanced level, if the card-drawing player newly lands on an
// event ring with a non-empty choice menu, resolution pauses and only
// that player is asked to decide; otherwise the turn finalizes.
func (r *Room) maybeResolve() []GameEvent {
	if !r.awaitingVotes || r.pending != nil || !r.quorumMet() {
		return nil
	}

	drawer := r.CurrentPlayer()
	var drawerBefore int
	if drawer != nil {
		drawerBefore = drawer.Position
	}

	for _, voterID := range r.voteOrder {
		p := r.voterByID(voterID)
		if p == nil {
			continue
		}
		p.Move(r.votes[voterID].Steps)
	}

	if r.Level == LevelAdvanced && drawer != nil && drawer.Position != drawerBefore {
		if ev, ok := EventForRing(drawer.Position); ok {
			choices := r.EventChoices(ev.Type, drawer.ConnID)
			if len(choices) > 0 {
				r.pending = &pendingEvent{connID: drawer.ConnID, event: ev, choices: choices}
				return []GameEvent{connEvent(EventChoiceRequired, drawer.ConnID, EventChoicePayload{
					Player:  drawer,
					Event:   ev,
					Choices: choices,
				})}
			}
		}
	}

	return r.finalizeTurn(false)
}

// voterByID resolves a recorded voter among active and parked players,
// so a player who voted and then dropped still gets their movement.
func (r *Room) voterByID(connID string) *Player {
	if p, _ := r.findPlayer(connID); p != nil {
		return p
	}
	for _, p := range r.disconnected {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// finalizeTurn runs the shared turn-completion path: winner check,
// turn advance, draw count bump, vote state reset, and the closing
// broadcasts. Both normal vote resolution and event decisions rejoin
// the game here.
func (r *Room) finalizeTurn(eventProcessed bool) []GameEvent {
	winner := r.checkWinner()

	if len(r.players) > 0 {
		r.currentTurn = (r.currentTurn + 1) % len(r.players)
	}
	r.drawCount++
	r.currentCard = nil
	r.votes = make(map[string]Decision)
	r.voteOrder = nil
	r.awaitingVotes = false
	r.pending = nil

	events := []GameEvent{roomEvent(EventAllDecisionsMade, AllDecisionsPayload{
		Players:        r.Players(),
		NextCategory:   r.ExpectedCategory(),
		Winner:         winner,
		CurrentPlayer:  r.CurrentPlayer(),
		EventProcessed: eventProcessed,
	})}

	if winner != nil {
		r.winner = winner
		events = append(events, roomEvent(EventGameEnded, GameEndedPayload{Winner: winner}))
	} else {
		events = append(events, hostEvent(EventReadyForNextCard, NextCardPayload{
			NextCategory: r.ExpectedCategory(),
		}))
	}

	return events
}

// checkWinner returns the first player in join order at the center
// ring. Join order is the deterministic tie-break when one resolution
// lands several players on ring 1.
func (r *Room) checkWinner() *Player {
	for _, p := range r.players {
		if p.Position == RingCenter {
			return p
		}
	}
	return nil
}

// ApplyEventDecision resumes a turn paused on a ring event. Only the
// player the event was offered to may decide, and only one of the
// offered choices is accepted.
func (r *Room) ApplyEventDecision(connID string, eventType RingEventType, decisionID, targetID string) ([]GameEvent, error) {
	r.touch()

	if !r.Started {
		return nil, ErrGameNotActive
	}
	if r.winner != nil {
		return nil, ErrGameOver
	}
	if r.pending == nil || r.pending.connID != connID || r.pending.event.Type != eventType {
		return nil, ErrNoActiveEvent
	}

	choice, err := r.pickChoice(decisionID, targetID)
	if err != nil {
		return nil, err
	}

	actor, _ := r.findPlayer(connID)
	if actor == nil {
		return nil, ErrPlayerNotFound
	}

	r.applyEventEffect(eventType, actor, choice)

	return r.finalizeTurn(true), nil
}

func (r *Room) pickChoice(decisionID, targetID string) (Choice, error) {
	idMatched := false
	for _, c := range r.pending.choices {
		if c.ID != decisionID {
			continue
		}
		idMatched = true
		if c.TargetID != "" && c.TargetID != targetID {
			continue
		}
		return c, nil
	}
	if idMatched {
		return Choice{}, ErrInvalidTarget
	}
	return Choice{}, ErrInvalidDecision
}

func (r *Room) applyEventEffect(eventType RingEventType, actor *Player, choice Choice) {
	switch eventType {
	case RingEventWar:
		switch choice.ID {
		case ChoiceSelfRetreat:
			actor.Move(1)
		case ChoiceAllRetreat:
			for _, p := range r.players {
				p.Move(2)
			}
		}

	case RingEventGlobalWarming:
		switch choice.ID {
		case ChoiceRemainHelpBackward:
			if p := r.mostBackward(); p != nil {
				p.Move(-1)
			}
		case ChoiceSelfAdvance:
			actor.Move(-1)
		}

	case RingEventCorruption:
		if choice.ID == ChoiceHelpOther {
			if target, _ := r.findPlayer(choice.TargetID); target != nil {
				target.Move(-1)
			}
		}

	case RingEventCrisis:
		switch choice.ID {
		case ChoiceSelfRetreat:
			actor.Move(1)
		case ChoiceHelpBackward:
			if p := r.mostBackward(); p != nil {
				p.Move(-1)
			}
		}

	case RingEventFascism:
		if choice.ID == ChoiceAdvanceOthersBack {
			actor.Move(-1)
			for _, p := range r.players {
				if p != actor {
					p.Move(1)
				}
			}
		}
	}
}

// EventChoices builds the decision menu offered to the triggering
// player. A nil menu means the event's rule makes this player
// ineligible and the event passes through as a no-op.
func (r *Room) EventChoices(eventType RingEventType, connID string) []Choice {
	switch eventType {
	case RingEventWar:
		return []Choice{
			{ID: ChoiceSelfRetreat, Text: "I retreat 1 ring"},
			{ID: ChoiceAllRetreat, Text: "Everyone retreats 2 rings"},
		}

	case RingEventGlobalWarming:
		backward := r.mostBackward()
		name := ""
		if backward != nil {
			name = backward.Name
		}
		return []Choice{
			{ID: ChoiceRemainHelpBackward, Text: "Stay and help " + name + " advance 1 ring"},
			{ID: ChoiceSelfAdvance, Text: "I advance 1 ring"},
		}

	case RingEventCorruption:
		choices := []Choice{{ID: ChoiceRemain, Text: "Stay in place"}}
		for _, p := range r.players {
			if p.ConnID == connID {
				continue
			}
			choices = append(choices, Choice{
				ID:       ChoiceHelpOther,
				Text:     "Help " + p.Name + " advance 1 ring",
				TargetID: p.ConnID,
			})
		}
		return choices

	case RingEventCrisis:
		advanced := r.mostAdvanced()
		if advanced == nil || advanced.ConnID != connID {
			// only the most advanced player may decide
			return nil
		}
		backward := r.mostBackward()
		name := ""
		if backward != nil {
			name = backward.Name
		}
		return []Choice{
			{ID: ChoiceSelfRetreat, Text: "I retreat 1 ring"},
			{ID: ChoiceHelpBackward, Text: "Help " + name + " advance 1 ring"},
		}

	case RingEventFascism:
		return []Choice{
			{ID: ChoiceRemain, Text: "Stay in place"},
			{ID: ChoiceAdvanceOthersBack, Text: "I advance 1 ring and everyone else retreats 1 ring"},
		}
	}

	return nil
}

func (r *Room) mostAdvanced() *Player {
	var best *Player
	for _, p := range r.players {
		if best == nil || p.Position < best.Position {
			best = p
		}
	}
	return best
}

func (r *Room) mostBackward() *Player {
	var best *Player
	for _, p := range r.players {
		if best == nil || p.Position > best.Position {
			best = p
		}
	}
	return best
}

// Disconnect handles a dropped connection. A host drop terminates the
// room (terminated=true tells the caller to destroy it). A player drop
// parks them for reconnection during an active game, or removes them
// entirely before the start; either way the departure can complete the
// vote quorum, in which case resolution runs here.
func (r *Room) Disconnect(connID string) (events []GameEvent, terminated bool) {
	r.touch()

	if connID == r.HostConnID {
		return []GameEvent{roomEvent(EventHostDisconnected, nil)}, true
	}

	player, idx := r.findPlayer(connID)
	if player == nil {
		return nil, false
	}

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	if idx < r.currentTurn {
		r.currentTurn--
	}
	if len(r.players) > 0 {
		r.currentTurn %= len(r.players)
	} else {
		r.currentTurn = 0
	}

	if r.Started {
		player.Connected = false
		r.disconnected = append(r.disconnected, player)
	}

	events = append(events, r.rosterEvent())
	events = append(events, r.maybeResolve()...)
	return events, false
}
