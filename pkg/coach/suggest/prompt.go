package suggest

import (
	"fmt"
	"strings"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/intent"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/retrieve"
)

// buildPrompt renders the coaching request sent to a language model. The
// model is asked for JSON, but parseModelOutput tolerates plain text.
func buildPrompt(question string, label intent.Label, bundle retrieve.ContextBundle) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert interview coach helping job candidates prepare for interviews.\n\n")
	fmt.Fprintf(&b, "Interview Question: %q\n", question)
	fmt.Fprintf(&b, "Question Type: %s\n\n", label)

	if len(bundle.RelevantExperience) > 0 {
		exp := bundle.RelevantExperience
		if len(exp) > 2 {
			exp = exp[:2]
		}
		fmt.Fprintf(&b, "Candidate's Relevant Experience: %s\n", strings.Join(exp, "; "))
	}
	if len(bundle.MatchingSkills) > 0 {
		fmt.Fprintf(&b, "Relevant Skills: %s\n", strings.Join(bundle.MatchingSkills, ", "))
	}
	if len(bundle.CompanyConnection) > 0 {
		fmt.Fprintf(&b, "Job Context: %s\n", strings.Join(bundle.CompanyConnection, "; "))
	}

	b.WriteString(`
Provide interview coaching advice in JSON format:
{
  "bullets": ["specific tip 1", "specific tip 2", "specific tip 3"],
  "follow_up": "good follow-up question the candidate can ask"
}

Focus on:
- Specific, actionable advice
- Professional but conversational tone
- Practical tips that can be immediately applied
- Incorporating the candidate's background when available

JSON response:`)

	return b.String()
}
