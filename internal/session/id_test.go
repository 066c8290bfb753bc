package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id, err := GenerateID()
		require.NoError(t, err)
		require.Len(t, id, IDLength)
		assert.True(t, ValidID(id), "generated id %q should be valid", id)

		_, dup := seen[id]
		require.False(t, dup, "duplicate id generated")
		seen[id] = struct{}{}
	}
}

func TestValidID(t *testing.T) {
	t.Parallel()

	valid, err := GenerateID()
	require.NoError(t, err)

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"generated", valid, true},
		{"empty", "", false},
		{"too short", valid[:10], false},
		{"too long", valid + "A", false},
		{"padding char", valid[:IDLength-1] + "=", false},
		{"plus sign", valid[:IDLength-1] + "+", false},
		{"space", valid[:IDLength-1] + " ", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ValidID(tt.id))
		})
	}
}
