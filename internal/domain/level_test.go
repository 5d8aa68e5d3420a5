package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"basic", "intermediate", "advanced"} {
		level, err := ParseLevel(s)
		assert.NoError(t, err)
		assert.Equal(t, s, level.String())
	}

	_, err := ParseLevel("nightmare")
	assert.ErrorIs(t, err, ErrInvalidLevel)
	_, err = ParseLevel("")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestNextCategory(t *testing.T) {
	tests := []struct {
		level     Level
		drawCount int
		want      Category
	}{
		{LevelBasic, 0, CategoryPrivilege},
		{LevelBasic, 1, CategoryPrivilege},
		{LevelBasic, 17, CategoryPrivilege},
		{LevelIntermediate, 0, CategoryPrivilege},
		{LevelIntermediate, 1, CategoryPolicies},
		{LevelIntermediate, 2, CategoryPrivilege},
		{LevelIntermediate, 3, CategoryPolicies},
		{LevelAdvanced, 0, CategoryPrivilege},
		{LevelAdvanced, 1, CategoryPolicies},
		{LevelAdvanced, 2, CategoryBehaviors},
		{LevelAdvanced, 3, CategoryPrivilege},
		{LevelAdvanced, 7, CategoryPolicies},
	}

	for _, tt := range tests {
		got := NextCategory(tt.level, tt.drawCount)
		assert.Equal(t, tt.want, got, "level=%s drawCount=%d", tt.level, tt.drawCount)
	}
}
