package orchestrator

import "testing"

func TestIsMathProblem(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2x + 3 = 7", true},
		{"What is 15 * 4?", true},
		{"solve for x", true},
		{"Please simplify the expression", true},
		{"how much is a dozen", true},
		{"3x=12", true},
		{"photosynthesis", false},
		{"the french revolution", false},
		{"why is the sky blue", false},
		{"we read chapter 7 yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := isMathProblem(tt.input); got != tt.want {
				t.Errorf("isMathProblem(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
