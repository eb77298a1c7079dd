package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps *ops.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *ops.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// Request types for each tool

// TableRequest represents the arguments for list.
type TableRequest struct {
	Table string `json:"table"`
}

// FetchRequest represents the arguments for fetch.
type FetchRequest struct {
	Table string `json:"table"`
	ID    string `json:"id"`
}

// FindRequest represents the arguments for find.
type FindRequest struct {
	Table     string `json:"table"`
	Field     string `json:"field"`
	Substring string `json:"substring,omitempty"`
}

// AddRequest represents the arguments for add.
type AddRequest struct {
	ID     string            `json:"id"`
	Values map[string]string `json:"values,omitempty"`
}

// UpdateRequest represents the arguments for update.
type UpdateRequest struct {
	ID     string `json:"id"`
	Field  string `json:"field"`
	Action string `json:"action,omitempty"`
	Value  string `json:"value"`
}

// RemoveRequest represents the arguments for remove.
type RemoveRequest struct {
	ID string `json:"id"`
}

// HistoryRequest represents the arguments for history.
type HistoryRequest struct {
	Table    string `json:"table,omitempty"`
	RecordID string `json:"record_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// Handler implementations

// HandleValidate handles the validate tool call.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Validate(h.deps)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFetch handles the fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.deps, ops.FetchInput{Table: input.Table, ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles the list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TableRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.deps, ops.ListInput{Table: input.Table})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFind handles the find tool call.
func (h *Handlers) HandleFind(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FindRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Find(h.deps, ops.FindInput{
		Table:     input.Table,
		Field:     input.Field,
		Substring: input.Substring,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleAdd handles the add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Add(ctx, h.deps, ops.AddInput{ID: input.ID, Values: input.Values})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleUpdate handles the update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(ctx, h.deps, ops.UpdateInput{
		ID:     input.ID,
		Field:  input.Field,
		Action: input.Action,
		Value:  input.Value,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRemove handles the remove tool call.
func (h *Handlers) HandleRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RemoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Remove(ctx, h.deps, ops.RemoveInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleHistory handles the history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.History(ctx, h.deps, ops.HistoryInput{
		Table:    input.Table,
		RecordID: input.RecordID,
		Limit:    input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if rErr, ok := err.(*errors.RosterError); ok {
		errorObj := map[string]any{
			"code":    rErr.Code,
			"message": rErr.Message,
			"status":  rErr.Status,
		}
		// Internal errors may carry SQL text or paths
		if rErr.Code != errors.ErrInternal && rErr.Details != nil {
			errorObj["details"] = rErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
