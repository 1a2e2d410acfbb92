package processing

import (
	"encoding/json"
	"regexp"
	"strings"
)

// scrapeFields is the fixed allowlist for the regex fallback. It covers
// the semantic fields the mode prompts ask the model to emit; anything
// outside it is lost when scraping, which is the accepted cost of
// recovering partial credit from severely mangled output.
var scrapeFields = []string{
	"conceptual_briefing",
	"simple_explanation",
	"mnemonics",
	"teaching_script",
	"examples",
	"visual_aid",
	"comprehension_check",
	"common_misconceptions",
	"discussion_questions",
	"problem_restatement",
	"solution_steps",
	"final_answer",
	"verification",
	"practice_problems",
	"immediate_action",
	"classroom_script",
	"activities",
	"differentiation",
	"materials",
	"assessment_idea",
	"caution",
	"follow_up",
	"learning_objectives",
	"lesson_outline",
	"warm_up",
	"main_activities",
	"practice",
	"assessment",
	"homework",
	"reflection_questions",
}

var (
	genericStringField = regexp.MustCompile(`(?s)"([A-Za-z_][A-Za-z0-9_]*)"\s*:\s*"(.*?)(?:"|$)`)
	genericNumberField = regexp.MustCompile(`"([A-Za-z_][A-Za-z0-9_]*)"\s*:\s*(-?\d+(?:\.\d+)?)`)
)

// Extract locates and parses a best-effort JSON object inside raw model
// output. It never panics and never returns nil; unrecoverable input
// yields an empty map. Strategies are attempted in order, first success
// wins, and call sites cannot tell which one fired.
func Extract(text string) map[string]any {
	candidate := StripFences(text)

	if m := tryParse(candidate); m != nil {
		return m
	}

	// Leading/trailing prose around the object.
	if slice := braceSlice(candidate); slice != "" {
		if m := tryParse(slice); m != nil {
			return m
		}
		if m := tryParse(Repair(slice)); m != nil {
			return m
		}
		// The tail may be an incomplete token (mid-key, mid-literal).
		// Trim back to the last complete pair and re-balance.
		trimmed := slice
		for i := 0; i < 8; i++ {
			cut := lastCommaOutsideQuotes(trimmed)
			if cut < 0 {
				break
			}
			trimmed = trimmed[:cut]
			if m := tryParse(Repair(trimmed)); m != nil {
				return m
			}
		}
	}

	if m := scrape(candidate); len(m) > 0 {
		return m
	}

	return map[string]any{}
}

// StripFences removes a markdown code fence wrapper if present. Both
// the standard triple-backtick style and the triple-single-quote
// variant some providers emit are handled; a missing closing fence
// means the generation was cut off, so the rest of the text is kept.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)

	for _, fence := range []string{"```", "'''"} {
		start := strings.Index(trimmed, fence)
		if start == -1 {
			continue
		}

		inner := trimmed[start+len(fence):]

		// Optional language tag on the fence line, e.g. ```json
		if nl := strings.IndexByte(inner, '\n'); nl != -1 {
			tag := strings.TrimSpace(inner[:nl])
			if tag == "" || isFenceTag(tag) {
				inner = inner[nl+1:]
			}
		}

		if end := strings.Index(inner, fence); end != -1 {
			inner = inner[:end]
		}

		return strings.TrimSpace(inner)
	}

	return trimmed
}

func isFenceTag(tag string) bool {
	switch strings.ToLower(tag) {
	case "json", "json5", "javascript", "js", "text":
		return true
	}
	return false
}

// Repair completes a truncated JSON fragment into parseable text by
// balancing quotes and brackets. The scan tracks whether it is inside a
// quoted string so that braces appearing in values are never counted;
// running Repair on already-valid JSON returns it unchanged.
func Repair(s string) string {
	var stack []byte
	inQuote := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inQuote {
				escaped = true
			}
		case '"':
			inQuote = !inQuote
		case '{', '[':
			if !inQuote {
				stack = append(stack, c)
			}
		case '}':
			if !inQuote && len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if !inQuote && len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(s)

	if inQuote {
		// A trailing backslash would escape the quote we are about to
		// append, so drop it first.
		if escaped {
			b.Reset()
			b.WriteString(s[:len(s)-1])
		}
		b.WriteByte('"')
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}

	return b.String()
}

func tryParse(s string) map[string]any {
	s = strings.TrimSpace(s)
	if s == "" || s[0] != '{' {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}

// braceSlice cuts the candidate down to the first top-level object. The
// scan tracks quote state the same way Repair does, so a '}' inside a
// value never terminates the slice; an object with no unquoted close
// brace is truncated output and the whole tail is returned for Repair
// to balance.
func braceSlice(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inQuote := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inQuote {
				escaped = true
			}
		case '"':
			inQuote = !inQuote
		case '{':
			if !inQuote {
				depth++
			}
		case '}':
			if !inQuote {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}

	return s[start:]
}

func lastCommaOutsideQuotes(s string) int {
	inQuote := false
	escaped := false
	last := -1

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inQuote {
				escaped = true
			}
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				last = i
			}
		}
	}

	return last
}

// scrape is the last-resort strategy: pull individual fields out of
// text that no amount of balancing will make parseable. Allowlisted
// semantic fields are tried first; if none match, a generic sweep over
// simple "key": value pairs recovers whatever is left.
func scrape(text string) map[string]any {
	out := make(map[string]any)

	for _, field := range scrapeFields {
		re := regexp.MustCompile(`(?s)"` + regexp.QuoteMeta(field) + `"\s*:\s*"(.*?)(?:"|$)`)
		if m := re.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				out[field] = v
			}
		}
	}

	if len(out) > 0 {
		return out
	}

	for _, m := range genericStringField.FindAllStringSubmatch(text, -1) {
		if _, ok := out[m[1]]; ok {
			continue
		}
		if v := m[2]; v != "" {
			out[m[1]] = v
		}
	}
	for _, m := range genericNumberField.FindAllStringSubmatch(text, -1) {
		if _, ok := out[m[1]]; ok {
			continue
		}
		var n float64
		if err := json.Unmarshal([]byte(m[2]), &n); err == nil {
			out[m[1]] = n
		}
	}

	return out
}
