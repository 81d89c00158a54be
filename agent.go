package inquiro

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/inquiro-ai/inquiro/src/memory"
	"github.com/inquiro-ai/inquiro/src/models"
	"github.com/inquiro-ai/inquiro/src/prompts"
)

// exhaustedAnswer is returned when the iteration ceiling is reached without a
// final answer ever being produced.
const exhaustedAnswer = "I couldn't find a complete answer."

// ReactAgent drives the reason/act/observe loop for exactly one query per Run
// call. The verifier and the session log are optional capabilities; when they
// are absent the corresponding phases are skipped.
type ReactAgent struct {
	model    models.Provider
	catalog  ToolCatalog
	composer *prompts.Composer
	verifier *Verifier
	memory   *memory.SessionLog
	config   Config
	logger   *slog.Logger
}

// Options configure a new ReactAgent.
type Options struct {
	Model    models.Provider
	Tools    []Tool
	Catalog  ToolCatalog
	Composer *prompts.Composer
	Verifier *Verifier
	Memory   *memory.SessionLog
	Config   Config
	Logger   *slog.Logger
}

// New creates a ReactAgent with the provided options.
func New(opts Options) (*ReactAgent, error) {
	if opts.Model == nil {
		return nil, errors.New("agent requires a language model")
	}

	cfg := opts.Config
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = NewStaticToolCatalog(nil)
	}
	for _, tool := range opts.Tools {
		if tool == nil {
			continue
		}
		if err := catalog.Register(tool); err != nil {
			return nil, err
		}
	}

	composer := opts.Composer
	if composer == nil {
		composer = prompts.NewComposer(prompts.ModeBase)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ReactAgent{
		model:    opts.Model,
		catalog:  catalog,
		composer: composer,
		verifier: opts.Verifier,
		memory:   opts.Memory,
		config:   cfg,
		logger:   logger,
	}, nil
}

// Run processes a single query through the reasoning loop and always returns
// a well-formed result: every failure mode inside the loop degrades into step
// content rather than an error. The only error case is an empty query.
func (a *ReactAgent) Run(ctx context.Context, query string) (*LoopResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}

	if a.memory != nil {
		a.memory.Start(query)
	}

	prompt := a.composer.Compose(query, a.catalog.Describe())

	var (
		steps        []ReasoningStep
		lastAnswer   string
		verification *Verdict
	)

	for iteration := 1; iteration <= a.config.MaxIterations; iteration++ {
		a.logger.Info("reasoning iteration", "iteration", iteration, "max", a.config.MaxIterations)

		step := a.callModel(ctx, prompt)

		if step.Thought != "" {
			a.logger.Info("thought", "text", preview(step.Thought, 150))
		}

		if step.Action != ActionNone {
			observation := a.dispatch(ctx, step, query)
			step.Observation = observation
			a.logger.Info("observation", "tool", step.Action, "text", preview(observation, 200))

			// Feed the authoritative tool result back so the next model
			// call can incorporate it.
			prompt += "\n\nObservation: " + observation + "\nContinue reasoning and respond in JSON format."
		}

		if a.verifier != nil && (step.Thought != "" || step.FinalAnswer != "") {
			candidate := step.FinalAnswer
			if candidate == "" {
				candidate = step.Thought
			}
			v := a.verifier.Verify(ctx, query, candidate, step.Observation, "")
			step.Verification = &v
			verification = &v

			a.logger.Info("verdict", "verdict", v.Verdict, "confidence", v.Confidence)
			if v.Verdict == VerdictFail && v.Suggestion != "" {
				prompt += "\n\nVerifier Feedback: " + v.Suggestion + "\nPlease refine your reasoning."
			}
		}

		steps = append(steps, step)
		a.record(iteration, step)

		if step.FinalAnswer != "" {
			lastAnswer = step.FinalAnswer
		}

		stop := step.Action == ActionNone && step.FinalAnswer != ""
		if stop && a.verifier != nil {
			// A present answer is not enough: anything short of an explicit
			// pass (including an unreachable verifier) means more work.
			stop = verification != nil && verification.Verdict == VerdictPass
		}

		if stop {
			a.persistSession(ctx)
			a.logger.Info("final answer", "answer", preview(step.FinalAnswer, 200), "iterations", iteration)
			return &LoopResult{
				Answer:       step.FinalAnswer,
				Steps:        steps,
				Iterations:   iteration,
				Success:      true,
				Verification: verification,
			}, nil
		}
	}

	answer := lastAnswer
	if answer == "" {
		answer = exhaustedAnswer
	}
	a.persistSession(ctx)
	a.logger.Warn("iteration ceiling reached", "iterations", a.config.MaxIterations)

	return &LoopResult{
		Answer:       answer,
		Steps:        steps,
		Iterations:   a.config.MaxIterations,
		Success:      false,
		Verification: verification,
	}, nil
}

// callModel performs one reasoning-model call and always returns a usable
// step. A transport failure becomes a step that records the error in its
// thought and leaves the final answer empty, so the loop retries on the next
// iteration instead of surfacing the error text as an answer.
func (a *ReactAgent) callModel(ctx context.Context, prompt string) ReasoningStep {
	cctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	raw, err := a.model.Generate(cctx, prompt)
	if err != nil {
		a.logger.Error("model call failed", "error", err)
		return ReasoningStep{
			Thought:     fmt.Sprintf("model call failed: %v", err),
			Action:      ActionNone,
			ActionInput: "",
		}
	}
	return ParseStep(raw)
}

// dispatch resolves and executes the requested tool. Unknown tools and tool
// failures are non-fatal: both become observation text the loop carries on
// with.
func (a *ReactAgent) dispatch(ctx context.Context, step ReasoningStep, query string) string {
	tool, ok := a.catalog.Resolve(step.Action)
	if !ok {
		a.logger.Warn("unknown tool requested", "tool", step.Action)
		return fmt.Sprintf("Unknown tool: %s", step.Action)
	}

	input := NormalizeInput(step.ActionInput)
	if input == "" {
		a.logger.Warn("empty action input, falling back to original query")
		input = query
	}

	cctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	observation, err := safeExecute(cctx, tool, input)
	if err != nil {
		a.logger.Error("tool execution failed", "tool", step.Action, "error", err)
		return fmt.Sprintf("Tool error: %v", err)
	}
	return observation
}

// safeExecute shields the loop from tools that panic past their boundary.
func safeExecute(ctx context.Context, tool Tool, input string) (observation string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", tool.Name(), r)
		}
	}()
	return tool.Execute(ctx, input)
}

func (a *ReactAgent) record(iteration int, step ReasoningStep) {
	if a.memory == nil {
		return
	}
	rec := memory.StepRecord{
		Step:        iteration,
		Thought:     step.Thought,
		Action:      step.Action,
		ActionInput: step.ActionInput,
		Observation: step.Observation,
		FinalAnswer: step.FinalAnswer,
	}
	if step.Verification != nil {
		rec.Verification = step.Verification
	}
	a.memory.Append(iteration, rec)
}

func (a *ReactAgent) persistSession(ctx context.Context) {
	if a.memory == nil {
		return
	}
	location, err := a.memory.Persist(ctx)
	if err != nil {
		if !errors.Is(err, memory.ErrNoSession) {
			a.logger.Error("session persist failed", "error", err)
		}
		return
	}
	a.logger.Info("session saved", "location", location)
}

// NormalizeInput flattens the polymorphic action_input field into the single
// string a tool accepts. Ordered sequences join with single spaces; mappings
// render as sorted "key: value" pairs; everything else stringifies.
func NormalizeInput(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, strings.TrimSpace(fmt.Sprint(item)))
		}
		return strings.TrimSpace(strings.Join(parts, " "))
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", k, value[k]))
		}
		return strings.TrimSpace(strings.Join(parts, " "))
	default:
		return strings.TrimSpace(fmt.Sprint(value))
	}
}

// preview truncates log output so observations don't flood the terminal.
func preview(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
