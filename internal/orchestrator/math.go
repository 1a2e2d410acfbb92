package orchestrator

import (
	"regexp"
	"strings"
)

// The heuristic is intentionally permissive: a false positive routes
// to the more structured solving prompt, which still produces a valid
// explanation.
var (
	// An operator or equals sign adjacent to digits, e.g. "2x + 3 = 7".
	mathExpression = regexp.MustCompile(`\d\s*[=+\-*/^×÷]|[=+\-*/^×÷]\s*\d|\d+\s*[a-z]\s*=`)

	solveKeywords = []string{
		"solve",
		"calculate",
		"simplify",
		"factor",
		"evaluate",
		"equation",
		"how much is",
		"what is the value",
	}
)

// isMathProblem reports whether explain-mode input should route to the
// specialized step-by-step solving prompt.
func isMathProblem(input string) bool {
	if mathExpression.MatchString(input) {
		return true
	}

	lower := strings.ToLower(input)
	for _, kw := range solveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
