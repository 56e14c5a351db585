package llm

import "fmt"

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost prices one call.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// LookupCost returns the price of modelID, or nil when it is not listed.
func LookupCost(modelID string) *ModelCost {
	c, ok := modelCosts[modelID]
	if !ok {
		return nil
	}
	return &c
}

// FormatCost renders a USD amount for tables; unknown prices print "-".
func FormatCost(c *ModelCost, inputTokens, outputTokens int) string {
	if c == nil {
		return "-"
	}
	return FormatUSD(c.Cost(inputTokens, outputTokens))
}

// FormatUSD keeps four decimals for sub-cent amounts.
func FormatUSD(v float64) string {
	if v < 0.01 {
		return fmt.Sprintf("$%.4f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// Published list prices as of 2026-02.
var modelCosts = map[string]ModelCost{
	// Groq
	"llama-3.3-70b-versatile":                   {0.59, 0.79},
	"llama-3.1-8b-instant":                      {0.05, 0.08},
	"meta-llama/llama-4-scout-17b-16e-instruct": {0.11, 0.34},
	"openai/gpt-oss-120b":                       {0.15, 0.75},
	"openai/gpt-oss-20b":                        {0.1, 0.5},

	// OpenAI
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-5-mini":   {0.25, 2},

	// Anthropic
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},
	"claude-sonnet-4-5":         {3, 15},

	// Gemini
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
