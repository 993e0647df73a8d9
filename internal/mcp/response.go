package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	encerrors "github.com/standardbeagle/openenc/internal/errors"
)

// createJSONResponse wraps data as the single text content of a tool result.
func createJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// createErrorResponse reports a tool failure inside the result with IsError
// set, so the client sees it instead of a protocol error.
func createErrorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	return createSuggestionErrorResponse(operation, err, "")
}

// createSuggestionErrorResponse is createErrorResponse plus a "did you mean".
// Codec errors also carry the offending position and character.
func createSuggestionErrorResponse(operation string, err error, suggestion string) (*mcp.CallToolResult, error) {
	errorData := map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	}
	if suggestion != "" {
		errorData["suggestion"] = suggestion
	}

	var codecErr *encerrors.CodecError
	if errors.As(err, &codecErr) && codecErr.Position != encerrors.NoPosition {
		errorData["position"] = codecErr.Position
		errorData["char"] = fmt.Sprintf("U+%04X", codecErr.Char)
	}

	response, marshalErr := createJSONResponse(errorData)
	if marshalErr != nil {
		return nil, marshalErr
	}
	response.IsError = true
	return response, nil
}
