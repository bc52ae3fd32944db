// Package retrieve assembles coaching context from the stored resume and
// job description using lightweight keyword heuristics.
package retrieve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/intent"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/store"
)

// ContextBundle is the retrieval result handed to the suggestion engine.
// All fields may be empty; retrieval never fails the pipeline.
type ContextBundle struct {
	RelevantExperience []string `json:"relevant_experience"`
	MatchingSkills     []string `json:"matching_skills"`
	SuggestedPoints    []string `json:"suggested_points"`
	CompanyConnection  []string `json:"company_connection"`
}

// Retriever looks up stored documents and scores them against the question.
type Retriever struct {
	docs   store.DocumentStore
	logger *slog.Logger
}

func New(docs store.DocumentStore, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{docs: docs, logger: logger}
}

// Retrieve builds a ContextBundle for the question. Storage errors are
// logged and surface as an emptier bundle, never as a failure.
func (r *Retriever) Retrieve(ctx context.Context, question string, label intent.Label) ContextBundle {
	bundle := ContextBundle{
		RelevantExperience: []string{},
		MatchingSkills:     []string{},
		SuggestedPoints:    suggestedPoints(label),
		CompanyConnection:  []string{},
	}

	resume, ok, err := r.docs.Get(ctx, store.KindResume)
	if err != nil {
		r.logger.Error("retrieve resume", "error", err)
	} else if ok {
		bundle.RelevantExperience = relevantExperience(resume.Text, question)
		bundle.MatchingSkills = matchingSkills(resume.Text, question)
	}

	jd, ok, err := r.docs.Get(ctx, store.KindJobDescription)
	if err != nil {
		r.logger.Error("retrieve job description", "error", err)
	} else if ok && jd.Text != "" {
		bundle.CompanyConnection = companyConnections(question)
	}

	return bundle
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
}

const maxKeywords = 20

// extractKeywords returns up to maxKeywords distinct lowercased terms,
// skipping stopwords and words of three characters or fewer.
func extractKeywords(text string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(word) <= 3 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		word = strings.Trim(word, ".,!?;:")
		if word == "" {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

var skillPatterns = []string{
	"python", "javascript", "java", "go", "react", "node.js", "sql",
	"aws", "docker", "kubernetes", "git", "machine learning",
	"data science", "tensorflow", "project management", "agile",
	"scrum", "leadership", "communication",
}

func extractSkills(resumeText string) []string {
	lower := strings.ToLower(resumeText)
	var found []string
	for _, skill := range skillPatterns {
		if strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}
	return found
}

var experienceMarkers = []string{"year", "month", "led", "developed", "managed", "implemented"}

// extractExperience picks up to five resume lines that look like
// experience highlights.
func extractExperience(resumeText string) []string {
	var highlights []string
	for _, line := range strings.Split(resumeText, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 20 {
			continue
		}
		lower := strings.ToLower(line)
		for _, marker := range experienceMarkers {
			if strings.Contains(lower, marker) {
				highlights = append(highlights, line)
				break
			}
		}
		if len(highlights) == 5 {
			break
		}
	}
	return highlights
}

// relevantExperience keeps highlights sharing at least one keyword with
// the question, capped at three.
func relevantExperience(resumeText, question string) []string {
	questionKeywords := make(map[string]struct{})
	for _, kw := range extractKeywords(question) {
		questionKeywords[kw] = struct{}{}
	}

	var relevant []string
	for _, exp := range extractExperience(resumeText) {
		for _, kw := range extractKeywords(exp) {
			if _, ok := questionKeywords[kw]; ok {
				relevant = append(relevant, exp)
				break
			}
		}
		if len(relevant) == 3 {
			break
		}
	}
	if relevant == nil {
		return []string{}
	}
	return relevant
}

func matchingSkills(resumeText, question string) []string {
	lower := strings.ToLower(question)
	var matching []string
	for _, skill := range extractSkills(resumeText) {
		if strings.Contains(lower, skill) {
			matching = append(matching, skill)
		}
	}
	if matching == nil {
		return []string{}
	}
	return matching
}

func companyConnections(question string) []string {
	lower := strings.ToLower(question)
	connections := []string{}
	if strings.Contains(lower, "why") && strings.Contains(lower, "company") {
		connections = append(connections, "Research shows this aligns with company values")
	}
	if strings.Contains(lower, "experience") {
		connections = append(connections, "This experience directly relates to the job requirements")
	}
	return connections
}

func suggestedPoints(label intent.Label) []string {
	switch label {
	case intent.Experience:
		return []string{
			"Focus on quantifiable achievements",
			"Connect your experience to job requirements",
		}
	case intent.Behavioral:
		return []string{
			"Use the STAR method for structured responses",
			"Choose examples that show leadership or problem-solving",
		}
	case intent.Motivation:
		return []string{
			"Show knowledge of company values and mission",
			"Explain how this role fits your career goals",
		}
	default:
		return []string{}
	}
}
