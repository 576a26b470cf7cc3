package classifier

import (
	"encoding/json"
	"strings"

	"github.com/dtnitsch/scholarship-tracker/models"
)

// ParseLabel maps free model text to a status. Matching is by substring on the
// lower-cased text in the order open, closed, ad; anything else is not found.
func ParseLabel(text string) models.Status {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "open"):
		return models.StatusOpen
	case strings.Contains(lower, "closed"):
		return models.StatusClosed
	case strings.Contains(lower, "ad"):
		return models.StatusAd
	default:
		return models.StatusNotFound
	}
}

// FirstCandidateText pulls candidates[0].content.parts[0].text from a
// generateContent response body. The boolean is false for any other shape.
func FirstCandidateText(body []byte) (string, bool) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", false
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if text == nil {
		return "", false
	}
	return *text, true
}
