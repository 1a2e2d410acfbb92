package orchestrator

import "github.com/chalkline/assistant-api/pkg/api"

// Follow-up suggestions are static per mode; no model call is spent on
// them.
var suggestionTables = map[api.Mode][]string{
	api.ModeExplain: {
		"Simplify this for a younger grade",
		"Give me a quick quiz on this topic",
		"Suggest a hands-on activity for this concept",
	},
	api.ModeAssist: {
		"What do I do if this doesn't work?",
		"Adapt this for students who finish early",
		"Give me a calmer variant of this intervention",
	},
	api.ModePlan: {
		"Compress this into a 30-minute lesson",
		"Add a group-work segment",
		"Draft the homework hand-out for this plan",
	},
}

func suggestions(mode api.Mode) []string {
	s := suggestionTables[mode]
	out := make([]string, len(s))
	copy(out, s)
	return out
}
