package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/desktop-fences/internal/ops"
	"github.com/mj1618/desktop-fences/internal/output"
	"github.com/mj1618/desktop-fences/internal/preview"
)

// resultToText serializes a result to YAML for MCP response.
func resultToText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func stepResponse(result ops.StepResult, err error) *mcp.CallToolResult {
	if err != nil {
		result.OK = false
		result.Error = err.Error()
		return mcp.NewToolResultError(resultToText(result))
	}
	result.OK = true
	return mcp.NewToolResultText(resultToText(result))
}

// writeHandler runs an operation that changes fences: locks the App,
// executes, invalidates the listing cache.
func (s *Server) writeHandler(action string) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.appMu.Lock()
		defer s.appMu.Unlock()

		result, err := ops.Execute(s.app, action, request.GetArguments())
		s.cache.Invalidate()
		if err != nil {
			s.log.Debug().Err(err).Str("tool", action).Msg("tool failed")
		}
		return stepResponse(result, err), nil
	}
}

// readHandler runs an operation that leaves fences unchanged.
func (s *Server) readHandler(action string) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.appMu.Lock()
		defer s.appMu.Unlock()

		result, err := ops.Execute(s.app, action, request.GetArguments())
		return stepResponse(result, err), nil
	}
}

func (s *Server) handleList(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.appMu.Lock()
	defer s.appMu.Unlock()

	fences, err := s.cache.Fences(func() ([]output.FenceView, error) {
		result, err := ops.Execute(s.app, "list", nil)
		return result.Fences, err
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resultToText(output.ListResult{
		DataDir: s.app.Config().DataDir,
		Fences:  fences,
	})), nil
}

func (s *Server) handlePreview(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	format := ops.StringParam(params, "format", "png")
	maxWidth := ops.IntParam(params, "max-width", 1024)

	s.appMu.Lock()
	img := preview.Render(s.app.Fences(), preview.Options{MaxWidth: maxWidth})
	s.appMu.Unlock()

	var buf bytes.Buffer
	if err := preview.Encode(&buf, img, format, 80); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mimeType := "image/png"
	if format == "jpg" || format == "jpeg" {
		mimeType = "image/jpeg"
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				MIMEType: mimeType,
			},
		},
	}, nil
}

func (s *Server) handleDo(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	stopOnError := ops.BoolParam(params, "stop-on-error", true)

	arr, ok := params["steps"].([]interface{})
	if !ok {
		return mcp.NewToolResultError("steps must be an array"), nil
	}
	steps, err := ops.StepsFromArgs(arr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.appMu.Lock()
	defer s.appMu.Unlock()

	result := ops.Run(s.app, steps, stopOnError)
	s.cache.Invalidate()
	return mcp.NewToolResultText(resultToText(result)), nil
}
