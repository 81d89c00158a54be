package models

import (
	"context"
	"strings"
	"testing"
)

func TestDummyLLMEchoesLastLine(t *testing.T) {
	llm := NewDummyLLM("echo:")
	out, err := llm.Generate(context.Background(), "first line\nsecond line\n\n")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if out != "echo: second line" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestDummyLLMEmptyPrompt(t *testing.T) {
	llm := NewDummyLLM("")
	out, err := llm.Generate(context.Background(), "   \n\t\n")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.Contains(out, "<empty prompt>") {
		t.Fatalf("expected empty-prompt marker, got %q", out)
	}
}

func TestNewProviderDummy(t *testing.T) {
	p, err := NewProvider(context.Background(), "dummy", "any", 0)
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	if _, ok := p.(*DummyLLM); !ok {
		t.Fatalf("expected *DummyLLM, got %T", p)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider(context.Background(), "nonexistent", "m", 0); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
