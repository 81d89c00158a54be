package tools

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// CalculatorTool evaluates basic arithmetic expressions in the form "a op b".
type CalculatorTool struct{}

func (c *CalculatorTool) Name() string { return "calculator" }

func (c *CalculatorTool) Description() string {
	return "Evaluates simple math expressions such as '2 + 2' or '5 * 3'."
}

// exprPattern matches "<number> <op> <number>" with optional spacing. Signs
// and scientific notation belong to the operands, so "-5 + 3", "5 - -3" and
// "2e-3 * 4" all parse; a lone number with no operator does not.
var exprPattern = regexp.MustCompile(
	`^([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)\s*([+\-*/xX])\s*([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)$`)

func (c *CalculatorTool) Execute(_ context.Context, input string) (string, error) {
	m := exprPattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return "", fmt.Errorf("expected format '<number> <op> <number>', got %q", input)
	}

	left, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", fmt.Errorf("invalid left operand: %w", err)
	}
	right, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return "", fmt.Errorf("invalid right operand: %w", err)
	}

	var result float64
	switch m[2] {
	case "+":
		result = left + right
	case "-":
		result = left - right
	case "*", "x", "X":
		result = left * right
	case "/":
		if math.Abs(right) < 1e-12 {
			return "", fmt.Errorf("division by zero")
		}
		result = left / right
	default:
		return "", fmt.Errorf("unsupported operator %q", m[2])
	}

	return strconv.FormatFloat(result, 'f', -1, 64), nil
}
