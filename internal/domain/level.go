package domain

// Level controls the card category rotation and whether ring events
// are active.
type Level string

const (
	LevelBasic        Level = "basic"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ParseLevel validates a client-supplied level string.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelBasic, LevelIntermediate, LevelAdvanced:
		return Level(s), nil
	}
	return "", ErrInvalidLevel
}

// String returns the string representation of the level.
func (l Level) String() string {
	return string(l)
}

// Category is a card category in the draw rotation.
type Category string

const (
	CategoryPrivilege Category = "privilege-discrimination"
	CategoryPolicies  Category = "social-policies"
	CategoryBehaviors Category = "behaviors"
)

// NextCategory returns the card category due for the given draw count.
// It is a pure function of (level, drawCount) so the expected category
// is always checkable against whatever the host submits.
func NextCategory(level Level, drawCount int) Category {
	switch level {
	case LevelIntermediate:
		if drawCount%2 == 0 {
			return CategoryPrivilege
		}
		return CategoryPolicies
	case LevelAdvanced:
		rotation := [3]Category{CategoryPrivilege, CategoryPolicies, CategoryBehaviors}
		return rotation[drawCount%3]
	default:
		return CategoryPrivilege
	}
}
