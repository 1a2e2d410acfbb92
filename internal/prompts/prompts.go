// Package prompts holds the mode prompt builders: pure functions from
// request context to a prompt string. The text content itself is a
// product concern; the orchestrator depends only on these signatures
// and on the JSON field names each prompt requests.
package prompts

import (
	"fmt"
	"strings"

	"github.com/chalkline/assistant-api/pkg/api"
)

// BuildExplain produces the generic explanation prompt.
func BuildExplain(req *api.AssistantRequest) string {
	var b strings.Builder

	b.WriteString("You are a teaching assistant helping a teacher explain a topic to students.\n")
	writeContext(&b, req)
	fmt.Fprintf(&b, "\nTopic or question to explain:\n%s\n", req.InputText)
	b.WriteString(`
Answer with a single JSON object using these keys (omit keys you have nothing for):
"conceptual_briefing", "simple_explanation", "mnemonics", "teaching_script",
"examples", "visual_aid", "comprehension_check", "common_misconceptions",
"discussion_questions".
Each value is a string written for the teacher to use directly in class.`)

	return b.String()
}

// BuildMathExplain produces the specialized step-by-step solving prompt
// the explain mode switches to for mathematical input.
func BuildMathExplain(req *api.AssistantRequest) string {
	var b strings.Builder

	b.WriteString("You are a teaching assistant solving a mathematical problem for classroom use.\n")
	writeContext(&b, req)
	fmt.Fprintf(&b, "\nProblem:\n%s\n", req.InputText)
	b.WriteString(`
Work the problem step by step, then answer with a single JSON object using
these keys: "problem_restatement", "solution_steps", "final_answer",
"verification", "practice_problems".
Write "solution_steps" so a teacher can narrate it at the board.`)

	return b.String()
}

// BuildAssist produces the in-the-moment classroom help prompt.
func BuildAssist(req *api.AssistantRequest) string {
	var b strings.Builder

	b.WriteString("You are a teaching assistant helping a teacher handle a classroom situation right now.\n")
	writeContext(&b, req)
	fmt.Fprintf(&b, "\nSituation:\n%s\n", req.InputText)
	b.WriteString(`
Answer with a single JSON object using these keys (omit what does not apply):
"immediate_action", "classroom_script", "activities", "differentiation",
"materials", "assessment_idea", "caution", "follow_up".
Be concrete; the teacher is mid-lesson.`)

	return b.String()
}

// BuildPlan produces the lesson-planning prompt.
func BuildPlan(req *api.AssistantRequest) string {
	var b strings.Builder

	b.WriteString("You are a teaching assistant drafting a lesson plan.\n")
	writeContext(&b, req)
	fmt.Fprintf(&b, "\nLesson request:\n%s\n", req.InputText)
	b.WriteString(`
Answer with a single JSON object using these keys (omit what does not apply):
"learning_objectives", "lesson_outline", "warm_up", "main_activities",
"practice", "assessment", "differentiation", "homework", "reflection_questions".`)

	return b.String()
}

// SystemMessage supplies the system turn for chat conversations.
func SystemMessage() string {
	return "You are a helpful assistant for school teachers. Be practical, concrete and classroom-ready. Keep answers appropriate for the stated grade level."
}

func writeContext(b *strings.Builder, req *api.AssistantRequest) {
	if req.Grade != "" {
		fmt.Fprintf(b, "Grade level: %s\n", req.Grade)
	}
	if req.Subject != "" {
		fmt.Fprintf(b, "Subject: %s\n", req.Subject)
	}
	if req.Topic != "" {
		fmt.Fprintf(b, "Unit or topic: %s\n", req.Topic)
	}
	if req.Context != "" {
		fmt.Fprintf(b, "Additional context: %s\n", req.Context)
	}
	if len(req.Constraints) > 0 {
		fmt.Fprintf(b, "Classroom constraints: %s\n", strings.Join(req.Constraints, "; "))
	}
}
