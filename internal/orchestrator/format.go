package orchestrator

import (
	"strings"

	"github.com/chalkline/assistant-api/pkg/api"
)

const rawResponseKey = "raw_response"

// render builds the human-readable answer by concatenating present
// fields with their mode labels, in table order. When extraction found
// nothing and the structured result is only the raw fallback, the raw
// model text passes through verbatim.
func render(mode api.Mode, structured map[string]any) string {
	if raw, ok := structured[rawResponseKey]; ok && len(structured) == 1 {
		return flattenValue(raw)
	}

	var b strings.Builder
	for _, spec := range fieldTables[mode] {
		v, ok := structured[spec.Field]
		if !ok {
			continue
		}
		content := flattenValue(v)
		if content == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(spec.Label)
		b.WriteString("\n")
		b.WriteString(content)
	}

	return b.String()
}
