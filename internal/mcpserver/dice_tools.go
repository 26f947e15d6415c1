package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/shawnrushefsky/dmcp/internal/game/dice"
)

// RollDiceInput is the MCP tool input for rolling dice.
type RollDiceInput struct {
	Expression string `json:"expression" jsonschema:"dice expression, e.g. d20, 2d6+3, or 4d6kh3"`
}

// RollDiceResult is the MCP tool output for a dice roll.
type RollDiceResult struct {
	Expression string `json:"expression" jsonschema:"the expression that was rolled"`
	Dice       []int  `json:"dice" jsonschema:"kept individual die results"`
	Modifier   int    `json:"modifier" jsonschema:"flat modifier applied to the sum"`
	Total      int    `json:"total" jsonschema:"final roll total"`
	Text       string `json:"text" jsonschema:"human-readable audit string"`
}

// RollDiceHandler returns the handler for the roll_dice tool.
func RollDiceHandler() mcp.ToolHandlerFor[RollDiceInput, RollDiceResult] {
	src := dice.NewCryptoSource()
	return func(_ context.Context, _ *mcp.CallToolRequest, input RollDiceInput) (*mcp.CallToolResult, RollDiceResult, error) {
		result, err := dice.RollExpr(input.Expression, src)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid dice expression %q: %v", input.Expression, err)), RollDiceResult{}, nil
		}
		return textResult(result.String()), RollDiceResult{
			Expression: result.Expression,
			Dice:       result.Dice,
			Modifier:   result.Modifier,
			Total:      result.Total(),
			Text:       result.String(),
		}, nil
	}
}
