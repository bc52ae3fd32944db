// Package intent classifies interview questions into coarse categories
// used to select a coaching strategy.
package intent

import (
	"regexp"
	"strings"
)

// Label is a coarse interview-question category.
type Label string

const (
	Behavioral          Label = "behavioral"
	Technical           Label = "technical"
	Experience          Label = "experience"
	Motivation          Label = "motivation"
	StrengthsWeaknesses Label = "strengths_weaknesses"
	Future              Label = "future"
	Situational         Label = "situational"
	GeneralQuestion     Label = "general_question"
	Unknown             Label = "unknown"
)

type rule struct {
	label    Label
	patterns []*regexp.Regexp
}

func mustRule(label Label, exprs ...string) rule {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(expr))
	}
	return rule{label: label, patterns: patterns}
}

// Table order is significant: the first matching pattern wins.
var rules = []rule{
	mustRule(Behavioral,
		`tell me about a time`,
		`describe a situation`,
		`give me an example`,
		`walk me through`,
		`how did you handle`,
		`what would you do if`,
	),
	mustRule(Technical,
		`how does .* work`,
		`explain .* algorithm`,
		`what is .*`,
		`how would you implement`,
		`design a system`,
		`code`,
		`programming`,
	),
	mustRule(Experience,
		`tell me about yourself`,
		`your background`,
		`your experience`,
		`worked on`,
		`previous role`,
		`career`,
	),
	mustRule(Motivation,
		`why do you want`,
		`why are you interested`,
		`why should we hire`,
		`what motivates you`,
		`why this company`,
	),
	mustRule(StrengthsWeaknesses,
		`greatest strength`,
		`biggest weakness`,
		`what are you good at`,
		`areas for improvement`,
	),
	mustRule(Future,
		`where do you see yourself`,
		`career goals`,
		`five years`,
		`future plans`,
	),
	mustRule(Situational,
		`what would you do`,
		`how would you approach`,
		`if you were`,
		`imagine you`,
	),
}

var interrogatives = []string{"what", "how", "why", "when", "where", "who"}

// Detect maps question text to a Label. It is a pure function of its
// input: identical text always yields an identical label. Empty input
// returns Unknown.
func Detect(text string) Label {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}
	lower := strings.ToLower(text)

	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(lower) {
				return r.label
			}
		}
	}

	for _, word := range interrogatives {
		if strings.Contains(lower, word) {
			return GeneralQuestion
		}
	}
	return Unknown
}

var tipsByLabel = map[Label][]string{
	Behavioral: {
		"Use the STAR method (Situation, Task, Action, Result)",
		"Focus on specific examples from your experience",
		"Quantify your impact with numbers when possible",
	},
	Technical: {
		"Break down complex concepts into simple terms",
		"Use examples to illustrate your points",
		"Mention relevant experience with the technology",
	},
	Experience: {
		"Highlight relevant skills and achievements",
		"Connect your experience to the job requirements",
		"Keep it concise and focused",
	},
	Motivation: {
		"Show genuine enthusiasm for the role",
		"Connect your goals with company values",
		"Be specific about what interests you",
	},
	StrengthsWeaknesses: {
		"Choose strengths relevant to the job",
		"For weaknesses, show how you're improving",
		"Provide concrete examples",
	},
	Future: {
		"Align your goals with the company's direction",
		"Show ambition but be realistic",
		"Demonstrate long-term thinking",
	},
	Situational: {
		"Think through the problem systematically",
		"Consider multiple perspectives",
		"Explain your reasoning clearly",
	},
	GeneralQuestion: {
		"Listen carefully to the full question",
		"Take a moment to organize your thoughts",
		"Provide specific examples when possible",
	},
}

var defaultTips = []string{
	"Stay calm and confident",
	"Be honest and authentic",
	"Ask clarifying questions if needed",
}

// Tips returns general coaching tips for a question category. The returned
// slice is a copy and is never empty.
func Tips(label Label) []string {
	tips, ok := tipsByLabel[label]
	if !ok {
		tips = defaultTips
	}
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}
