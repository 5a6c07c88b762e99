package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiffStudentIDs(t *testing.T) {
	tests := []struct {
		name     string
		previous []string
		next     []string
		added    []string
		removed  []string
	}{
		{"first recording", nil, []string{"a", "b"}, []string{"a", "b"}, nil},
		{"unchanged", []string{"a", "b"}, []string{"b", "a"}, nil, nil},
		{"replace one", []string{"a", "b"}, []string{"a", "c"}, []string{"c"}, []string{"b"}},
		{"cleared", []string{"a", "b"}, []string{}, nil, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := DiffStudentIDs(tt.previous, tt.next)
			require.Equal(t, tt.added, added)
			require.Equal(t, tt.removed, removed)
		})
	}
}
