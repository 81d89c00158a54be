package inquiro

import "time"

// ActionNone is the sentinel action a step carries when the model is not
// requesting a tool call.
const ActionNone = "none"

// Verdict values produced by the Verifier.
const (
	VerdictPass      = "pass"
	VerdictFail      = "fail"
	VerdictUncertain = "uncertain"
)

// ReasoningStep is one thought/action/observation cycle as parsed from model
// output and completed by the loop controller. Observation is authoritative
// only when set by the controller after tool execution; any value the model
// supplies for it is discarded at parse time. The same rule applies to
// Verification, which only the controller fills in.
type ReasoningStep struct {
	Thought      string   `json:"thought"`
	Action       string   `json:"action"`
	ActionInput  any      `json:"action_input"`
	Observation  string   `json:"observation"`
	FinalAnswer  string   `json:"final_answer"`
	Verification *Verdict `json:"verification,omitempty"`
}

// Verdict is the verifier's judgment of a reasoning step.
type Verdict struct {
	Verdict    string  `json:"verdict"`
	Reason     string  `json:"reason"`
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// LoopResult is what Run hands back to the caller.
type LoopResult struct {
	Answer       string          `json:"answer"`
	Steps        []ReasoningStep `json:"steps"`
	Iterations   int             `json:"iterations"`
	Success      bool            `json:"success"`
	Verification *Verdict        `json:"verification,omitempty"`
}

// Config carries the tunables of one agent instance.
type Config struct {
	Model         string
	VerifierModel string
	Temperature   float64
	Timeout       time.Duration
	MaxIterations int

	// Ingestion settings, used by the RAG index rather than the loop itself.
	EmbedModel   string
	ChunkSize    int
	ChunkOverlap int
}

// DefaultConfig mirrors the defaults the CLI ships with.
func DefaultConfig() Config {
	return Config{
		Model:         "qwen2.5:7b",
		VerifierModel: "qwen2.5:7b",
		Temperature:   0.3,
		Timeout:       45 * time.Second,
		MaxIterations: 5,
		EmbedModel:    "nomic-embed-text",
		ChunkSize:     1000,
		ChunkOverlap:  100,
	}
}
