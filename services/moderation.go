// services/moderation.go - offensive-content detection and triage
package services

import (
	"strings"

	"suggestion-box-api/models"
)

// Moderation is the process-wide moderator, set once from InitModeration
// before the router starts serving. The word list is never mutated afterwards.
var Moderation *Moderator

// InitModeration installs the denylist loaded at startup.
func InitModeration(words []string) {
	Moderation = NewModerator(words)
}

// Moderator scans free text against a fixed, ordered denylist.
type Moderator struct {
	words []string
}

func NewModerator(words []string) *Moderator {
	return &Moderator{words: words}
}

// ScanText returns the denylist terms contained in text, in denylist order.
// Matching is case-insensitive and by substring containment only: a term
// inside a larger word still counts. Pure function, safe to call repeatedly.
func (m *Moderator) ScanText(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, word := range m.words {
		if strings.Contains(lower, word) {
			found = append(found, word)
		}
	}
	return found
}

// CalculateSeverity maps an offensive-word match count to a severity level.
// Total over all counts; callers decide separately that severity is absent
// when the count is zero, so the "leve" branch only matters for count 0.
func CalculateSeverity(matchCount int) string {
	if matchCount >= 3 {
		return models.SeveritySevere
	}
	if matchCount >= 1 {
		return models.SeverityModerate
	}
	return models.SeverityMild
}

// ClientMeta carries optional request provenance, stored as opaque strings.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// BuildSuggestion assembles the entity to persist from an already-validated
// create request. It scans subject and message (in that order), derives
// severity and the initial workflow status, and decides whether the
// submission requires a meeting. Deterministic, no I/O.
func (m *Moderator) BuildSuggestion(req models.SuggestionCreateRequest, meta ClientMeta) models.Suggestion {
	matched := append(m.ScanText(req.Subject), m.ScanText(req.Message)...)
	offensive := len(matched) > 0

	suggestionType := req.Type
	if suggestionType == "" {
		suggestionType = models.TypeSuggestion
	}

	var severity *string
	status := models.StatusPending
	requiresMeeting := false
	if offensive {
		level := CalculateSeverity(len(matched))
		severity = &level
		status = models.StatusInvestigation
		requiresMeeting = level == models.SeveritySevere
	}

	suggestion := models.Suggestion{
		Email:               strings.ToLower(strings.TrimSpace(req.Email)),
		Type:                suggestionType,
		Subject:             req.Subject,
		Message:             req.Message,
		HasOffensiveContent: offensive,
		OffensiveWords:      matched,
		Severity:            severity,
		Status:              status,
		RequiresMeeting:     requiresMeeting,
	}

	if meta.IPAddress != "" {
		ip := meta.IPAddress
		suggestion.IPAddress = &ip
	}
	if meta.UserAgent != "" {
		ua := meta.UserAgent
		suggestion.UserAgent = &ua
	}

	return suggestion
}
