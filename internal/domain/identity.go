package domain

// Identity is a selectable player identity from the static catalog.
// Identities determine the pawn's color and icon; they are not unique
// within a room (only display names are).
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var identityCatalog = []Identity{
	{ID: "white_man", Name: "White Man", Color: "#3498db", Icon: "👨🏻"},
	{ID: "white_woman", Name: "White Woman", Color: "#e74c3c", Icon: "👩🏻"},
	{ID: "black_man", Name: "Black Man", Color: "#8e44ad", Icon: "👨🏿"},
	{ID: "black_woman", Name: "Black Woman", Color: "#e67e22", Icon: "👩🏿"},
	{ID: "lgbtiqa", Name: "LGBTIQA+", Color: "#f39c12", Icon: "🏳️‍🌈"},
	{ID: "blind", Name: "Blind Person", Color: "#16a085", Icon: "🦯"},
	{ID: "deaf", Name: "Deaf Person", Color: "#2980b9", Icon: "👂"},
	{ID: "disabled", Name: "Physically Disabled Person", Color: "#c0392b", Icon: "♿"},
	{ID: "elderly", Name: "Elderly Person", Color: "#7f8c8d", Icon: "👴"},
	{ID: "neutral", Name: "Neutral", Color: "#34495e", Icon: "👤"},
}

// Identities returns the full identity catalog. Identities may be reused
// by multiple players, so the list never shrinks.
func Identities() []Identity {
	out := make([]Identity, len(identityCatalog))
	copy(out, identityCatalog)
	return out
}

// LookupIdentity returns the catalog entry for the given id.
func LookupIdentity(id string) (Identity, bool) {
	for _, ident := range identityCatalog {
		if ident.ID == id {
			return ident, true
		}
	}
	return Identity{}, false
}
