package answer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Classification of an accumulated generation, decided exactly once after
// the stream ends.
type Classification string

// Possible classifications.
const (
	ClassificationAnswer    Classification = "answer"
	ClassificationNonAnswer Classification = "non_answer"
)

// MinAnswerLength is the shortest trimmed text, in runes, still considered
// a real answer.
const MinAnswerLength = 30

// noInfoPhrases mark a generation as a non-answer when present anywhere in
// the text, case-insensitively. They cover the generator's known "no
// information", "not configured" and error-relay outputs.
var noInfoPhrases = []string{
	"i don't have information",
	"no information about that",
	"not found in the provided documents",
	"model not configured",
	"not configured. please set",
	"error streaming response",
	"error generating response",
}

// bareGreetingRe matches generations that open with a bare greeting. The
// generator sometimes answers a substantive question with its canned
// greeting; that is only acceptable when the user actually greeted it.
var bareGreetingRe = regexp.MustCompile(`(?i)^(hi|hello|hey)( there)?[\s!,.]`)

// classify decides answer/non-answer for the accumulated text.
//
// Deterministic: identical text and queryWasGreeting always yield the same
// classification.
func classify(accumulated string, queryWasGreeting bool) Classification {
	trimmed := strings.TrimSpace(accumulated)
	if trimmed == "" {
		return ClassificationNonAnswer
	}
	if utf8.RuneCountInString(trimmed) < MinAnswerLength {
		return ClassificationNonAnswer
	}
	lower := strings.ToLower(trimmed)
	for _, phrase := range noInfoPhrases {
		if strings.Contains(lower, phrase) {
			return ClassificationNonAnswer
		}
	}
	if !queryWasGreeting && bareGreetingRe.MatchString(trimmed) && strings.Contains(lower, "how can i help") {
		return ClassificationNonAnswer
	}
	return ClassificationAnswer
}
