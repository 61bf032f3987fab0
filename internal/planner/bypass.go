package planner

import (
	"regexp"
	"strings"

	"github.com/akhellaf/deskpilot/internal/domain"
)

// DeclineMessage is returned for short negative replies.
const DeclineMessage = "👍 No problem! Let me know if you need anything else."

var agreementWords = map[string]struct{}{
	"yes": {}, "sure": {}, "ok": {}, "okay": {}, "yep": {}, "yeah": {}, "please": {},
}

var negativeWords = map[string]struct{}{
	"no": {}, "nope": {}, "nah": {}, "not": {}, "don't": {}, "cancel": {}, "skip": {},
}

// clarificationExceptions mark short inputs that start negative but carry a
// correction, so they must reach the full planner.
var clarificationExceptions = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bno\s+but\b`),
	regexp.MustCompile(`(?i)\bno\s+instead\b`),
	regexp.MustCompile(`(?i)\bno\s+please\b`),
	regexp.MustCompile(`(?i)\bno\s+wait\b`),
}

// IsAgreement reports whether the input is a short affirmative reply. Inputs
// that open with a negative word ("no please") are corrections, not
// agreements.
func IsAgreement(input string) bool {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 || len(words) > domain.ShortInputMaxWords {
		return false
	}
	if _, ok := negativeWords[strings.Trim(words[0], ".,!?")]; ok {
		return false
	}
	if strings.Join(words, " ") == "do it" {
		return true
	}
	for _, w := range words {
		if _, ok := agreementWords[strings.Trim(w, ".,!?")]; ok {
			return true
		}
	}
	return false
}

// IsNegative reports whether the input is a short decline. Inputs matching a
// clarification exception are never treated as declines.
func IsNegative(input string) bool {
	trimmed := strings.TrimSpace(input)
	for _, re := range clarificationExceptions {
		if re.MatchString(trimmed) {
			return false
		}
	}
	words := strings.Fields(strings.ToLower(trimmed))
	if len(words) == 0 || len(words) > domain.ShortInputMaxWords {
		return false
	}
	if strings.Join(words, " ") == "never mind" {
		return true
	}
	for _, w := range words {
		if _, ok := negativeWords[strings.Trim(w, ".,!?")]; ok {
			return true
		}
	}
	return false
}

// fileCreationMention reports whether a recent exchange discussed creating a
// file, which an agreement reply confirms.
var fileCreationMention = regexp.MustCompile(`(?i)creat\w*\s+(?:a\s+|the\s+)?(?:\w+\s+)?file|\bfile\b.*\bcreat`)

// AgreementPlan resolves a short affirmative reply against recent
// conversation context. When the last exchanges offered to create a file, the
// agreement confirms it; otherwise it yields a plain acknowledgment.
func AgreementPlan(history []domain.ConversationTurn) domain.Plan {
	recent := history
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	for i := len(recent) - 1; i >= 0; i-- {
		turn := recent[i]
		if fileCreationMention.MatchString(turn.UserInput) || fileCreationMention.MatchString(turn.AssistantResponse) {
			return domain.Plan{
				Understanding:     "Confirmation of pending file creation",
				RequiresExecution: true,
				Actions: []domain.PlannedAction{{
					Action: domain.IntentCreateFile,
					Target: "test.txt",
					Reason: "User confirmed the offered file creation",
				}},
				Response: "Creating the file now.",
			}
		}
	}
	return domain.Plan{
		Understanding: "Acknowledgment with no pending action",
		Response:      "Great! What would you like me to do?",
	}
}

// DeclinePlan is the fixed response for short negative replies.
func DeclinePlan() domain.Plan {
	return domain.Plan{
		Understanding: "User declined",
		Response:      DeclineMessage,
	}
}
