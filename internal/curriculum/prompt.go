package curriculum

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an experienced software engineering placement mentor covering backend, frontend, AI/ML, data and full-stack roles.

Rules:
- Skill based: no day-by-day or week-by-week plans. Organise by mastery.
- Exactly three levels, in order: Beginner (Foundational), Intermediate (Interview-Ready), Advanced (Top-Tier).
- Each level has parallel tracks drawn from: DSA, Core Skills, Projects, Interview Signals.
- Every skill has a unique kebab-case id and one to three of the best free resources with real URLs.
- Content is practical and aligned with what recruiters test. No motivational filler.`

// buildUserMessage describes the learner's target for one roadmap.
func buildUserMessage(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target role: %s\n", req.Role)
	fmt.Fprintf(&b, "Time available: %d days\n", req.Days)
	if len(req.WeakTopics) == 0 {
		b.WriteString("Weak areas: none stated\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Weak areas: %s\n", strings.Join(req.WeakTopics, ", "))
	b.WriteString("\nGive the weak areas a dedicated track or heavy emphasis in the Beginner or Intermediate level, ")
	b.WriteString("and mark those skills with \"Focus Area\" in their description.\n")
	return b.String()
}
