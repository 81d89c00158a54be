package inquiro

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// fallbackAnswer is used when the model produced no usable text at all.
const fallbackAnswer = "No output from model"

// ParseStep extracts exactly one ReasoningStep from raw model output. Models
// frequently think out loud through several JSON-shaped drafts before the
// final one, so every balanced top-level object in the text is decoded
// independently and the last one that decodes wins. The function never fails:
// when nothing decodes, a degenerate final-answer step is built from the raw
// text itself.
func ParseStep(raw string) ReasoningStep {
	text := strings.ReplaceAll(raw, "</think>", "")

	var selected *ReasoningStep
	for _, candidate := range scanObjects(text) {
		step, ok := decodeStep(candidate)
		if !ok {
			continue
		}
		selected = &step
	}

	if selected == nil {
		// Salvage pass: models emit almost-JSON (unquoted keys, single
		// quotes, trailing commas) often enough that one repair attempt on
		// the whole text is worth it before giving up on structure.
		if repaired, err := jsonrepair.JSONRepair(strings.TrimSpace(text)); err == nil {
			if step, ok := decodeStep(repaired); ok && stepHasContent(step) {
				selected = &step
			}
		}
	}

	if selected == nil {
		return degenerateStep(text)
	}

	// The model does not get to fabricate tool results or verdicts.
	selected.Observation = ""
	selected.Verification = nil
	return *selected
}

// scanObjects returns every non-overlapping top-level {...} candidate in s,
// tracking nesting depth and string literals so that nested objects and
// arrays (a mapping-typed action_input, say) stay inside their candidate
// instead of terminating it early.
func scanObjects(s string) []string {
	var (
		candidates []string
		depth      int
		start      = -1
		inString   bool
		escaped    bool
	)

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue // stray closer outside any candidate
			}
			depth--
			if depth == 0 && start >= 0 {
				candidates = append(candidates, s[start:i+1])
				start = -1
			}
		}
	}

	return candidates
}

// decodeStep strictly decodes one candidate object into the step schema.
// Unknown fields are tolerated (models decorate their output freely), but a
// recognized field carrying the wrong type rejects the whole candidate.
func decodeStep(candidate string) (ReasoningStep, bool) {
	var step ReasoningStep
	if err := json.Unmarshal([]byte(candidate), &step); err != nil {
		return ReasoningStep{}, false
	}
	if strings.TrimSpace(step.Action) == "" {
		step.Action = ActionNone
	}
	return step, true
}

// stepHasContent reports whether a step says anything at all. Repaired prose
// can decode into an empty object; the raw-text fallback is more useful then.
func stepHasContent(step ReasoningStep) bool {
	return strings.TrimSpace(step.Thought) != "" ||
		strings.TrimSpace(step.FinalAnswer) != "" ||
		step.Action != ActionNone
}

// degenerateStep wraps unstructured model output into a usable final-answer
// step so the loop always has something well-formed to act on.
func degenerateStep(raw string) ReasoningStep {
	answer := trimAnswerText(raw)
	if answer == "" {
		answer = fallbackAnswer
	}
	return ReasoningStep{
		Action:      ActionNone,
		ActionInput: "",
		FinalAnswer: answer,
	}
}

var determiners = map[string]bool{"the": true, "a": true, "an": true}

// trimAnswerText tidies free-form prose into an answer: leading determiner
// words and trailing punctuation carry no content.
func trimAnswerText(s string) string {
	s = strings.TrimSpace(s)

	for {
		first, rest, found := strings.Cut(s, " ")
		if !found || !determiners[strings.ToLower(first)] {
			break
		}
		s = strings.TrimSpace(rest)
	}

	s = strings.TrimRight(s, ".!?,;: \t\n")
	return strings.TrimSpace(s)
}
