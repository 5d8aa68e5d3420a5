package domain

// Board positions are ring indices: 21 is the outer ring (start),
// 1 is the center (winning).
const (
	RingOuter  = 21
	RingCenter = 1
)

// Player represents one participant on the board. The host is never a
// Player; it only draws cards.
type Player struct {
	ConnID       string `json:"id"`
	Name         string `json:"name"`
	Identity     string `json:"identity"`
	IdentityName string `json:"identityName"`
	Color        string `json:"color"`
	Icon         string `json:"icon"`
	Position     int    `json:"position"`
	Connected    bool   `json:"isConnected"`
}

// NewPlayer creates a player at the outer ring with the given identity.
func NewPlayer(connID, name string, ident Identity) *Player {
	return &Player{
		ConnID:       connID,
		Name:         name,
		Identity:     ident.ID,
		IdentityName: ident.Name,
		Color:        ident.Color,
		Icon:         ident.Icon,
		Position:     RingOuter,
		Connected:    true,
	}
}

// Move shifts the player by delta rings (negative toward the center) and
// returns the new position. Positions always clamp to [1, 21].
func (p *Player) Move(delta int) int {
	p.Position = clampRing(p.Position + delta)
	return p.Position
}

func clampRing(pos int) int {
	if pos < RingCenter {
		return RingCenter
	}
	if pos > RingOuter {
		return RingOuter
	}
	return pos
}
