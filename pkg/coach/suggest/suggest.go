// Package suggest turns a transcribed interview question into coaching
// advice, using a language model when one is configured and canned
// responses otherwise.
package suggest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/intent"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/retrieve"
)

// CoachingResult is the advice payload sent back over the websocket.
type CoachingResult struct {
	Bullets  []string `json:"bullets"`
	FollowUp string   `json:"follow_up"`
}

// Generator produces a CoachingResult for one question. Implementations
// may fail; the Engine absorbs failures with canned advice.
type Generator interface {
	Generate(ctx context.Context, question string, label intent.Label, bundle retrieve.ContextBundle) (CoachingResult, error)
}

// Engine layers a primary Generator over the canned response table.
// Suggest never returns an empty result: if the primary generator is
// absent or fails, the canned advice for the detected intent is used.
type Engine struct {
	primary Generator
	logger  *slog.Logger
}

func NewEngine(primary Generator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{primary: primary, logger: logger}
}

func (e *Engine) Suggest(ctx context.Context, question string, label intent.Label, bundle retrieve.ContextBundle) CoachingResult {
	if e.primary != nil {
		result, err := e.primary.Generate(ctx, question, label, bundle)
		if err == nil && len(result.Bullets) > 0 {
			if result.FollowUp == "" {
				result.FollowUp = defaultFollowUp
			}
			return result
		}
		if err != nil {
			e.logger.Warn("suggestion generation failed, using canned advice", "error", err, "intent", label)
		}
	}
	return Canned(label, bundle)
}

const defaultFollowUp = "What questions do you have about the role or team?"

var cannedByLabel = map[intent.Label]CoachingResult{
	intent.Experience: {
		Bullets: []string{
			"Highlight your most relevant achievements with specific metrics",
			"Connect your background directly to the job requirements",
			"Show progression and growth in your career",
		},
		FollowUp: "What opportunities for professional development does this role offer?",
	},
	intent.Behavioral: {
		Bullets: []string{
			"Use the STAR method: Situation, Task, Action, Result",
			"Choose an example that shows leadership or problem-solving",
			"Quantify your impact with specific numbers or outcomes",
		},
		FollowUp: "How does the team handle challenging situations like this?",
	},
	intent.Motivation: {
		Bullets: []string{
			"Research the company's mission and values beforehand",
			"Explain how this role aligns with your career goals",
			"Show genuine enthusiasm and specific knowledge about the company",
		},
		FollowUp: "What excites the team most about working here?",
	},
	intent.StrengthsWeaknesses: {
		Bullets: []string{
			"Choose strengths that are directly relevant to the job",
			"For weaknesses, show how you're actively improving",
			"Provide concrete examples to support your points",
		},
		FollowUp: "What qualities do your most successful team members have?",
	},
	intent.Technical: {
		Bullets: []string{
			"Break down complex concepts into clear, simple terms",
			"Use specific examples from your experience",
			"Show your thought process and problem-solving approach",
		},
		FollowUp: "What technical challenges is the team currently facing?",
	},
}

var cannedDefault = CoachingResult{
	Bullets: []string{
		"Take a moment to organize your thoughts before answering",
		"Provide specific examples whenever possible",
		"Keep your answer focused and concise",
	},
	FollowUp: defaultFollowUp,
}

// Canned returns the stock advice for an intent, extended with a skill
// mention when the retrieval bundle surfaced matching skills. The result
// shares no slices with the tables.
func Canned(label intent.Label, bundle retrieve.ContextBundle) CoachingResult {
	base, ok := cannedByLabel[label]
	if !ok {
		base = cannedDefault
	}

	result := CoachingResult{
		Bullets:  make([]string, len(base.Bullets)),
		FollowUp: base.FollowUp,
	}
	copy(result.Bullets, base.Bullets)

	if len(bundle.MatchingSkills) > 0 {
		skills := bundle.MatchingSkills
		if len(skills) > 2 {
			skills = skills[:2]
		}
		result.Bullets = append(result.Bullets, "Mention your experience with "+strings.Join(skills, ", "))
	}
	return result
}
