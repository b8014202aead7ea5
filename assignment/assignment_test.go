package assignment_test

import (
	"testing"

	"github.com/xraph/steward/assignment"
)

func TestAccessLevelSatisfies(t *testing.T) {
	tests := []struct {
		have, want assignment.AccessLevel
		ok         bool
	}{
		{assignment.AccessRead, assignment.AccessRead, true},
		{assignment.AccessWrite, assignment.AccessRead, true},
		{assignment.AccessFull, assignment.AccessWrite, true},
		{assignment.AccessRead, assignment.AccessWrite, false},
		{assignment.AccessWrite, assignment.AccessFull, false},
		{"owner", assignment.AccessRead, false},
		{assignment.AccessFull, "owner", false},
	}
	for _, tt := range tests {
		if got := tt.have.Satisfies(tt.want); got != tt.ok {
			t.Errorf("%q.Satisfies(%q) = %v, want %v", tt.have, tt.want, got, tt.ok)
		}
	}
}
