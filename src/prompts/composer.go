// Package prompts builds the reasoning prompt handed to the model on the
// first iteration of a loop.
package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Mode selects the prompting strategy.
type Mode string

const (
	// ModeBase is the plain thought/action/answer instruction set.
	ModeBase Mode = "base"
	// ModeAdvanced adds explicit reason-then-act guidance and worked
	// formatting rules for multi-step tool use.
	ModeAdvanced Mode = "advanced"
	// ModePlan asks the model to draft a plan before reasoning; the plan is
	// advisory context only.
	ModePlan Mode = "plan"
)

// ParseMode maps a user-facing string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "base":
		return ModeBase, nil
	case "advanced", "react":
		return ModeAdvanced, nil
	case "plan", "planning":
		return ModePlan, nil
	default:
		return "", fmt.Errorf("unknown prompt mode: %s", s)
	}
}

const baseTemplate = `You are a reasoning assistant that solves questions step by step.

Available tools:
{tools}

Answer the following question:
{query}

Respond with ONLY a JSON object in this exact format:
{"thought": "<your reasoning>", "action": "<tool name or none>", "action_input": "<input for the tool>", "final_answer": "<the answer, empty until you are done>"}

Use action "none" with a non-empty final_answer when you have the answer.
Use a tool when you need information you do not have.`

const advancedTemplate = `You are a reasoning assistant that follows a strict reason-act-observe cycle.

Available tools:
{tools}

Question:
{query}

Rules:
1. Think first. Put your reasoning in "thought".
2. Act second. If a tool would help, name it in "action" and give its input in "action_input". The input may be a string, a list, or an object.
3. Never invent observations. Tool results arrive in later messages as "Observation:" lines; only those are real.
4. Finish with action "none" and a complete "final_answer" once the observations support it.

Respond with ONLY a JSON object in this exact format:
{"thought": "<your reasoning>", "action": "<tool name or none>", "action_input": "<input for the tool>", "final_answer": "<the answer, empty until you are done>"}`

const planTemplate = `You are a reasoning assistant. Before answering, silently draft a short plan of the steps you expect to take, then follow the reason-act-observe cycle.

Available tools:
{tools}

Question:
{query}

Respond with ONLY a JSON object in this exact format:
{"thought": "<your plan and reasoning>", "action": "<tool name or none>", "action_input": "<input for the tool>", "final_answer": "<the answer, empty until you are done>"}

Use action "none" with a non-empty final_answer when you have the answer.`

// Composer renders the initial prompt for a query. Templates can be
// overridden per mode from a directory of <mode>.txt files, and plan-mode
// compositions fence off any installed plan context.
type Composer struct {
	mode        Mode
	overrides   map[Mode]string
	planContext string
}

// NewComposer creates a composer for the given mode. An unrecognized mode
// falls back to ModeBase.
func NewComposer(mode Mode) *Composer {
	switch mode {
	case ModeBase, ModeAdvanced, ModePlan:
	default:
		mode = ModeBase
	}
	return &Composer{mode: mode, overrides: make(map[Mode]string)}
}

// Mode reports the composer's active mode.
func (c *Composer) Mode() Mode { return c.mode }

// LoadOverrides reads <mode>.txt files from dir and installs them as template
// overrides. Missing files are fine; present files must contain the {query}
// placeholder to be usable.
func (c *Composer) LoadOverrides(dir string) error {
	for _, mode := range []Mode{ModeBase, ModeAdvanced, ModePlan} {
		path := filepath.Join(dir, string(mode)+".txt")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("read prompt override %s: %w", path, err)
		}
		text := stripMarkdown(string(data))
		if !strings.Contains(text, "{query}") {
			return fmt.Errorf("prompt override %s lacks a {query} placeholder", path)
		}
		c.overrides[mode] = text
	}
	return nil
}

// SetPlanContext installs advisory plan or domain context. Plan-mode prompts
// carry it fenced between boundary markers; other modes ignore it.
func (c *Composer) SetPlanContext(text string) {
	c.planContext = strings.TrimSpace(text)
}

// LoadPlanContext reads plan context from a file, stripping markdown the same
// way template overrides are stripped.
func (c *Composer) LoadPlanContext(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plan context %s: %w", path, err)
	}
	c.planContext = stripMarkdown(string(data))
	return nil
}

// Compose renders the initial prompt for query with the given tool listing.
func (c *Composer) Compose(query, tools string) string {
	tmpl := c.template(c.mode)
	if strings.TrimSpace(tools) == "" {
		tools = "(no tools available)"
	}
	out := strings.ReplaceAll(tmpl, "{tools}", tools)
	out = strings.ReplaceAll(out, "{query}", query)
	if c.mode == ModePlan {
		out = AttachPlan(out, c.planContext)
	}
	return out
}

// AttachPlan appends a previously drafted plan to prompt, fenced off so the
// model treats it as advice rather than instructions.
func AttachPlan(prompt, plan string) string {
	plan = strings.TrimSpace(plan)
	if plan == "" {
		return prompt
	}
	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\n---\nA draft plan follows. It may be wrong or incomplete; use it only to inform your reasoning.\n\n")
	sb.WriteString(plan)
	sb.WriteString("\n---")
	return sb.String()
}

func (c *Composer) template(mode Mode) string {
	if tmpl, ok := c.overrides[mode]; ok {
		return tmpl
	}
	switch mode {
	case ModeAdvanced:
		return advancedTemplate
	case ModePlan:
		return planTemplate
	default:
		return baseTemplate
	}
}

var (
	mdHeading  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdEmphasis = regexp.MustCompile(`\*{1,2}([^*]+)\*{1,2}`)
	mdCode     = regexp.MustCompile("`([^`]*)`")
)

// stripMarkdown flattens authored markdown templates into plain text so the
// model is not tempted to answer in markdown itself.
func stripMarkdown(s string) string {
	s = mdHeading.ReplaceAllString(s, "")
	s = mdEmphasis.ReplaceAllString(s, "$1")
	s = mdCode.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
