package main

import "testing"

func TestParseQueryArgsFlagsBeforeQuestion(t *testing.T) {
	question, opts, err := parseQueryArgs([]string{"--verify", "--mode", "advanced", "what is 2+2"})
	if err != nil {
		t.Fatalf("parseQueryArgs returned error: %v", err)
	}
	if question != "what is 2+2" {
		t.Fatalf("unexpected question: %q", question)
	}
	if !opts.verify || opts.mode != "advanced" {
		t.Fatalf("flags not applied: %+v", opts)
	}
}

func TestParseQueryArgsFlagsAfterQuestion(t *testing.T) {
	question, opts, err := parseQueryArgs([]string{"what is 2+2", "--verify", "--memory", "--mode", "plan", "--plan-file", "plan.md"})
	if err != nil {
		t.Fatalf("parseQueryArgs returned error: %v", err)
	}
	if question != "what is 2+2" {
		t.Fatalf("unexpected question: %q", question)
	}
	if !opts.verify || !opts.useMemory || opts.mode != "plan" || opts.planFile != "plan.md" {
		t.Fatalf("trailing flags dropped: %+v", opts)
	}
}

func TestParseQueryArgsMixedFlags(t *testing.T) {
	question, opts, err := parseQueryArgs([]string{"--mode", "base", "q", "--max-iterations", "7"})
	if err != nil {
		t.Fatalf("parseQueryArgs returned error: %v", err)
	}
	if question != "q" || opts.maxIterations != 7 {
		t.Fatalf("mixed flag placement broke parsing: %q %+v", question, opts)
	}
}

func TestParseQueryArgsMissingQuestion(t *testing.T) {
	if _, _, err := parseQueryArgs([]string{"--verify"}); err == nil {
		t.Fatal("expected error for missing question")
	}
}
