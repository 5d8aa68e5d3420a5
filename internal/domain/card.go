package domain

// Card is a drawn prompt. ForwardSteps is how many rings a forward vote
// moves the voter toward the center, BackwardSteps how many a backward
// vote moves them toward the rim. Zero is a legal value for either
// direction and means "stay".
type Card struct {
	Category      Category `json:"category"`
	Text          string   `json:"text"`
	ForwardSteps  int      `json:"forwardSteps"`
	BackwardSteps int      `json:"backwardSteps"`
}

// Validate rejects negative step counts. Presence of the step fields is
// checked at the transport boundary, where "missing" and "zero" are
// distinguishable.
func (c Card) Validate() error {
	if c.ForwardSteps < 0 || c.BackwardSteps < 0 {
		return ErrMalformedCard
	}
	return nil
}
