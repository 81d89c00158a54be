package inquiro

import (
	"strings"
	"testing"
)

func TestParseStepSingleObject(t *testing.T) {
	raw := `{"thought": "I need to search", "action": "vectorstore_search", "action_input": "capital of France", "final_answer": ""}`
	step := ParseStep(raw)

	if step.Thought != "I need to search" {
		t.Fatalf("unexpected thought: %q", step.Thought)
	}
	if step.Action != "vectorstore_search" {
		t.Fatalf("unexpected action: %q", step.Action)
	}
	if step.ActionInput != "capital of France" {
		t.Fatalf("unexpected action_input: %v", step.ActionInput)
	}
}

func TestParseStepBlanksObservation(t *testing.T) {
	raw := `{"thought": "done", "action": "none", "observation": "fabricated tool output", "final_answer": "42"}`
	step := ParseStep(raw)

	if step.Observation != "" {
		t.Fatalf("model-supplied observation must be discarded, got %q", step.Observation)
	}
	if step.Verification != nil {
		t.Fatal("model-supplied verification must be discarded")
	}
	if step.FinalAnswer != "42" {
		t.Fatalf("unexpected final answer: %q", step.FinalAnswer)
	}
}

func TestParseStepLastObjectWins(t *testing.T) {
	raw := `Here is my first draft:
{"thought": "draft one", "action": "calculator", "action_input": "1 + 1", "final_answer": ""}
Actually, I know the answer:
{"thought": "draft two", "action": "none", "action_input": "", "final_answer": "2"}`
	step := ParseStep(raw)

	if step.Thought != "draft two" {
		t.Fatalf("expected last object to win, got thought %q", step.Thought)
	}
	if step.FinalAnswer != "2" {
		t.Fatalf("unexpected final answer: %q", step.FinalAnswer)
	}
}

func TestParseStepNestedInput(t *testing.T) {
	raw := `{"thought": "t", "action": "search", "action_input": {"query": "x", "filters": ["a", "b"]}, "final_answer": ""}`
	step := ParseStep(raw)

	input, ok := step.ActionInput.(map[string]any)
	if !ok {
		t.Fatalf("expected map input, got %T", step.ActionInput)
	}
	if input["query"] != "x" {
		t.Fatalf("nested object mangled: %v", input)
	}
}

func TestParseStepProseFallback(t *testing.T) {
	step := ParseStep("The answer is Paris.")

	if step.Action != ActionNone {
		t.Fatalf("degenerate step must carry action none, got %q", step.Action)
	}
	if step.FinalAnswer != "answer is Paris" {
		t.Fatalf("unexpected trimmed answer: %q", step.FinalAnswer)
	}
}

func TestParseStepEmptyInput(t *testing.T) {
	step := ParseStep("   \n\t  ")
	if step.FinalAnswer != fallbackAnswer {
		t.Fatalf("expected fallback answer, got %q", step.FinalAnswer)
	}
}

func TestParseStepStripsThinkTag(t *testing.T) {
	raw := "reasoning reasoning</think>\n" + `{"thought": "clean", "action": "none", "final_answer": "ok"}`
	step := ParseStep(raw)
	if step.Thought != "clean" || step.FinalAnswer != "ok" {
		t.Fatalf("unexpected step after think-tag strip: %+v", step)
	}
}

func TestParseStepRepairsAlmostJSON(t *testing.T) {
	raw := `{'thought': 'single quotes', 'action': 'none', 'final_answer': 'fixed',}`
	step := ParseStep(raw)
	if step.FinalAnswer != "fixed" {
		t.Fatalf("expected repaired JSON to decode, got %+v", step)
	}
}

func TestParseStepEmptyActionBecomesNone(t *testing.T) {
	raw := `{"thought": "t", "action": "  ", "final_answer": "done"}`
	step := ParseStep(raw)
	if step.Action != ActionNone {
		t.Fatalf("blank action should normalize to none, got %q", step.Action)
	}
}

func TestScanObjectsBracesInStrings(t *testing.T) {
	raw := `{"thought": "use {curly} braces }", "action": "none", "final_answer": "ok"}`
	candidates := scanObjects(raw)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %v", len(candidates), candidates)
	}
	if !strings.Contains(candidates[0], "{curly}") {
		t.Fatalf("candidate truncated at in-string brace: %q", candidates[0])
	}
}

func TestScanObjectsStrayClosers(t *testing.T) {
	raw := `} } {"a": 1} trailing }`
	candidates := scanObjects(raw)
	if len(candidates) != 1 || candidates[0] != `{"a": 1}` {
		t.Fatalf("unexpected candidates: %v", candidates)
	}
}

func TestTrimAnswerText(t *testing.T) {
	cases := map[string]string{
		"The answer is 4.":  "answer is 4",
		"A dog barked!":     "dog barked",
		"an apple":          "apple",
		"Paris":             "Paris",
		"  the the result ": "result",
	}
	for in, want := range cases {
		if got := trimAnswerText(in); got != want {
			t.Fatalf("trimAnswerText(%q) = %q, want %q", in, got, want)
		}
	}
}
