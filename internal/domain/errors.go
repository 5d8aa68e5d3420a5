package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrGameAlreadyStarted   = errors.New("game already started")
	ErrGameNotActive        = errors.New("game not active")
	ErrGameOver             = errors.New("game already ended")
	ErrNotEnoughPlayers     = errors.New("not enough players to start")
	ErrDuplicateName        = errors.New("name already in use")
	ErrInvalidIdentity      = errors.New("unknown identity")
	ErrInvalidLevel         = errors.New("unknown game level")
	ErrAlreadyConnected     = errors.New("player already connected")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrNotHost              = errors.New("only the host can perform this action")
	ErrHostCannotVote       = errors.New("host cannot vote")
	ErrAlreadyVoted         = errors.New("already voted on this card")
	ErrNoActiveCard         = errors.New("no card is awaiting votes")
	ErrAwaitingVotes        = errors.New("still awaiting votes on the current card")
	ErrCategoryMismatch     = errors.New("card category does not match the expected category")
	ErrMalformedCard        = errors.New("card is missing required step counts")
	ErrNoActiveEvent        = errors.New("no event decision is pending for this player")
	ErrInvalidDecision      = errors.New("invalid event decision")
	ErrInvalidTarget        = errors.New("invalid decision target")
	ErrInvalidVoteDirection = errors.New("vote direction must be forward or backward")
)
