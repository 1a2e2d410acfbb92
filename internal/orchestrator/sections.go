package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/chalkline/assistant-api/pkg/api"
)

// fieldSpec is one row of a mode's field-order table: which structured
// key feeds the section, how the UI titles it, and how it is typed.
type fieldSpec struct {
	Field string
	Title string
	Type  api.SectionType
	Label string
}

// Field tables are fixed per mode. The mapper walks them in order and
// skips absent keys, so a partial model answer still yields a usable,
// correctly ordered section list. The explain table carries the
// step-by-step solving fields as a trailing block; a math-routed
// answer populates only those.
var fieldTables = map[api.Mode][]fieldSpec{
	api.ModeExplain: {
		{"conceptual_briefing", "Conceptual briefing", api.SectionExplanation, "🧭 Conceptual briefing"},
		{"simple_explanation", "Simple explanation", api.SectionExplanation, "📘 Simple explanation"},
		{"mnemonics", "Mnemonics", api.SectionMnemonic, "🧠 Mnemonics"},
		{"teaching_script", "Teaching script", api.SectionScript, "🎬 Teaching script"},
		{"examples", "Examples", api.SectionExample, "✏️ Examples"},
		{"visual_aid", "Visual aid", api.SectionTip, "🖼️ Visual aid"},
		{"comprehension_check", "Comprehension check", api.SectionAssessment, "✅ Comprehension check"},
		{"common_misconceptions", "Common misconceptions", api.SectionWarning, "⚠️ Common misconceptions"},
		{"discussion_questions", "Discussion questions", api.SectionDiscussion, "💬 Discussion questions"},
		{"problem_restatement", "Problem restatement", api.SectionExplanation, "🧭 Problem restatement"},
		{"solution_steps", "Solution steps", api.SectionScript, "🧮 Solution steps"},
		{"final_answer", "Final answer", api.SectionExplanation, "🎯 Final answer"},
		{"verification", "Verification", api.SectionAssessment, "✅ Verification"},
		{"practice_problems", "Practice problems", api.SectionExample, "✏️ Practice problems"},
	},
	api.ModeAssist: {
		{"immediate_action", "Immediate action", api.SectionTip, "⚡ Immediate action"},
		{"classroom_script", "Classroom script", api.SectionScript, "🎬 Classroom script"},
		{"activities", "Activities", api.SectionActivity, "🎲 Activities"},
		{"differentiation", "Differentiation", api.SectionTip, "🧩 Differentiation"},
		{"materials", "Materials", api.SectionTip, "📦 Materials"},
		{"assessment_idea", "Assessment idea", api.SectionAssessment, "✅ Assessment idea"},
		{"caution", "Caution", api.SectionWarning, "⚠️ Caution"},
		{"follow_up", "Follow-up", api.SectionDiscussion, "💬 Follow-up"},
	},
	api.ModePlan: {
		{"learning_objectives", "Learning objectives", api.SectionExplanation, "🎯 Learning objectives"},
		{"lesson_outline", "Lesson outline", api.SectionExplanation, "🗂️ Lesson outline"},
		{"warm_up", "Warm-up", api.SectionActivity, "🔥 Warm-up"},
		{"main_activities", "Main activities", api.SectionActivity, "🎲 Main activities"},
		{"practice", "Practice", api.SectionExample, "✏️ Practice"},
		{"assessment", "Assessment", api.SectionAssessment, "✅ Assessment"},
		{"differentiation", "Differentiation", api.SectionTip, "🧩 Differentiation"},
		{"homework", "Homework", api.SectionExample, "🏠 Homework"},
		{"reflection_questions", "Reflection questions", api.SectionDiscussion, "💬 Reflection questions"},
	},
}

// mapSections derives the ordered section list for the tutor UI. One
// section per field present in the structured result, in table order;
// missing keys are skipped without error.
func mapSections(mode api.Mode, structured map[string]any) []api.Section {
	table := fieldTables[mode]
	sections := make([]api.Section, 0, len(table))

	for _, spec := range table {
		v, ok := structured[spec.Field]
		if !ok {
			continue
		}
		content := flattenValue(v)
		if content == "" {
			continue
		}

		sections = append(sections, api.Section{
			ID:        uuid.NewString(),
			Title:     spec.Title,
			Type:      spec.Type,
			Content:   content,
			Narration: narration(spec.Title, content),
		})
	}

	return sections
}

// flattenValue renders a structured value as display text. Models are
// asked for strings but routinely answer with arrays or nested
// objects anyway.
func flattenValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		var b strings.Builder
		for _, item := range t {
			line := flattenValue(item)
			if line == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("- ")
			b.WriteString(line)
		}
		return b.String()
	case map[string]any:
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return ""
		}
		return string(data)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

var narrationStripper = strings.NewReplacer(
	"**", "", "*", "", "#", "", "`", "", "- ", "",
)

// narration produces the spoken-style variant a read-aloud UI uses.
func narration(title, content string) string {
	stripped := narrationStripper.Replace(content)
	stripped = strings.Join(strings.Fields(stripped), " ")
	return title + ". " + stripped
}
