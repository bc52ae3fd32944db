package suggest

import (
	"encoding/json"
	"strings"
)

// parseModelOutput extracts a CoachingResult from model text. JSON is
// preferred; otherwise bulleted or numbered lines become bullets and the
// first line after a "follow up" marker becomes the follow-up question.
// The result always has bullets and a follow-up.
func parseModelOutput(content string) CoachingResult {
	var result CoachingResult
	if err := json.Unmarshal([]byte(content), &result); err == nil &&
		len(result.Bullets) > 0 && result.FollowUp != "" {
		return result
	}
	return parseTextOutput(content)
}

func parseTextOutput(content string) CoachingResult {
	var bullets []string
	followUp := ""
	inFollowUp := false

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "•"):
			bullets = append(bullets, strings.TrimSpace(strings.TrimPrefix(line, "•")))
		case strings.HasPrefix(line, "-"), strings.HasPrefix(line, "*"):
			bullets = append(bullets, strings.TrimSpace(line[1:]))
		case len(line) > 2 && line[0] >= '0' && line[0] <= '9' && strings.ContainsRune(".):", rune(line[1])):
			bullets = append(bullets, strings.TrimSpace(line[2:]))
		case strings.Contains(strings.ToLower(line), "follow") && strings.Contains(strings.ToLower(line), "up"):
			inFollowUp = true
		case inFollowUp && followUp == "":
			followUp = line
		}
	}

	if len(bullets) == 0 {
		bullets = []string{
			"Focus on specific examples from your experience",
			"Connect your answer to the job requirements",
		}
	}
	if len(bullets) > 3 {
		bullets = bullets[:3]
	}
	if followUp == "" {
		followUp = defaultFollowUp
	}
	return CoachingResult{Bullets: bullets, FollowUp: followUp}
}
