package domain

// RingEventType tags a special-rule interrupt tied to a board ring.
type RingEventType string

const (
	RingEventWar           RingEventType = "war"
	RingEventGlobalWarming RingEventType = "global_warming"
	RingEventCorruption    RingEventType = "corruption"
	RingEventCrisis        RingEventType = "crisis"
	RingEventFascism       RingEventType = "fascism"
)

// RingEvent describes the event attached to one ring. Events fire only
// at the advanced level, and only for the card-drawing player who lands
// exactly on the ring after vote resolution.
type RingEvent struct {
	Ring        int           `json:"ring"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Type        RingEventType `json:"type"`
}

// Choice is one entry in an event decision menu. TargetID is set for
// menu entries that act on another player.
type Choice struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	TargetID string `json:"targetId,omitempty"`
}

var ringEvents = map[int]RingEvent{
	2: {
		Ring:        2,
		Name:        "War",
		Description: "Retreat 1 ring yourself, or everyone retreats 2 rings",
		Type:        RingEventWar,
	},
	6: {
		Ring:        6,
		Name:        "Global Warming",
		Description: "Stay and let the furthest-behind player advance 1 ring, or advance 1 ring yourself",
		Type:        RingEventGlobalWarming,
	},
	10: {
		Ring:        10,
		Name:        "Corruption",
		Description: "Pick another player to advance 1 ring, or stay put",
		Type:        RingEventCorruption,
	},
	14: {
		Ring:        14,
		Name:        "Crisis",
		Description: "The most advanced player retreats, or lets the furthest-behind player advance 1 ring",
		Type:        RingEventCrisis,
	},
	18: {
		Ring:        18,
		Name:        "Fascism",
		Description: "Advance 1 ring while everyone else retreats 1 ring, or stay put",
		Type:        RingEventFascism,
	},
}

// EventForRing returns the event configured for a ring, if any.
func EventForRing(position int) (RingEvent, bool) {
	ev, ok := ringEvents[position]
	return ev, ok
}

// Decision ids used in event choice menus.
const (
	ChoiceSelfRetreat        = "self_retreat"
	ChoiceAllRetreat         = "all_retreat"
	ChoiceRemainHelpBackward = "remain_help_backward"
	ChoiceSelfAdvance        = "self_advance"
	ChoiceRemain             = "remain"
	ChoiceHelpOther          = "help_other"
	ChoiceHelpBackward       = "help_backward"
	ChoiceAdvanceOthersBack  = "advance_others_retreat"
)
