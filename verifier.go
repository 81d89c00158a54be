package inquiro

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inquiro-ai/inquiro/src/models"
)

// Verifier judges a candidate answer or thought with a second model call.
// It is deliberately unable to break the loop: every internal failure,
// from transport errors to unparseable judge output, collapses into an
// uncertain verdict with zero confidence.
type Verifier struct {
	model   models.Provider
	timeout time.Duration
	logger  *slog.Logger
}

// NewVerifier creates a verifier backed by the given model.
func NewVerifier(model models.Provider, timeout time.Duration, logger *slog.Logger) *Verifier {
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{model: model, timeout: timeout, logger: logger}
}

// Verify evaluates candidate against the original query. The observation and
// extra context, when present, are handed to the judge as grounding evidence.
func (v *Verifier) Verify(ctx context.Context, query, candidate, observation, extra string) Verdict {
	if v.model == nil {
		return uncertain("no verifier model configured")
	}

	prompt := buildJudgePrompt(query, candidate, observation, extra)

	cctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	raw, err := v.model.Generate(cctx, prompt)
	if err != nil {
		v.logger.Warn("verifier model call failed", "error", err)
		return uncertain(fmt.Sprintf("verifier call failed: %v", err))
	}

	verdict, ok := decodeVerdict(raw)
	if !ok {
		v.logger.Warn("verifier output not parseable", "output", preview(raw, 150))
		return uncertain("verifier output was not valid JSON")
	}
	return verdict
}

// buildJudgePrompt assembles the evaluation request. The criteria shift with
// the available evidence: a grounded candidate is judged for consistency with
// its observation, an ungrounded one only for plausibility and coherence.
func buildJudgePrompt(query, candidate, observation, extra string) string {
	var sb strings.Builder

	sb.WriteString("You are a strict evaluator of reasoning quality.\n\n")
	sb.WriteString("Question: ")
	sb.WriteString(query)
	sb.WriteString("\n\nCandidate response: ")
	sb.WriteString(candidate)
	sb.WriteString("\n")

	if strings.TrimSpace(observation) != "" {
		sb.WriteString("\nTool observation:\n")
		sb.WriteString(observation)
		sb.WriteString("\n\nEvaluation criteria:\n")
		sb.WriteString("1. Is the response consistent with the tool observation?\n")
		sb.WriteString("2. Does it actually address the question?\n")
		sb.WriteString("3. Is the reasoning sound and free of contradictions?\n")
	} else {
		sb.WriteString("\nEvaluation criteria:\n")
		sb.WriteString("1. Is the response plausible and internally coherent?\n")
		sb.WriteString("2. Does it actually address the question?\n")
		sb.WriteString("3. Does it avoid unsupported claims?\n")
	}

	if strings.TrimSpace(extra) != "" {
		sb.WriteString("\nAdditional context:\n")
		sb.WriteString(extra)
		sb.WriteString("\n")
	}

	sb.WriteString("\nRespond with ONLY a JSON object in this exact format:\n")
	sb.WriteString(`{"verdict": "pass" | "fail" | "uncertain", "reason": "<short explanation>", "suggestion": "<how to improve, empty if none>", "confidence": <0.0 to 1.0>}`)
	sb.WriteString("\n")

	return sb.String()
}

// decodeVerdict extracts the first balanced JSON object from the judge output
// and normalizes it. Judges are models too and drift from the schema; any
// unrecognized verdict string becomes uncertain and confidence is clamped.
func decodeVerdict(raw string) (Verdict, bool) {
	candidates := scanObjects(raw)
	if len(candidates) == 0 {
		return Verdict{}, false
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(candidates[0]), &verdict); err != nil {
		return Verdict{}, false
	}

	switch strings.ToLower(strings.TrimSpace(verdict.Verdict)) {
	case VerdictPass:
		verdict.Verdict = VerdictPass
	case VerdictFail:
		verdict.Verdict = VerdictFail
	default:
		verdict.Verdict = VerdictUncertain
	}

	if verdict.Confidence < 0 {
		verdict.Confidence = 0
	}
	if verdict.Confidence > 1 {
		verdict.Confidence = 1
	}
	return verdict, true
}

func uncertain(reason string) Verdict {
	return Verdict{Verdict: VerdictUncertain, Reason: reason, Confidence: 0}
}
