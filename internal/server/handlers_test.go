package server

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/desktop-fences/internal/app"
	"github.com/mj1618/desktop-fences/internal/config"
	"github.com/mj1618/desktop-fences/internal/ops"
	"github.com/mj1618/desktop-fences/internal/output"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	a, err := app.New(app.Options{Config: cfg, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Load(); err != nil {
		t.Fatal(err)
	}
	return New(a, Config{Transport: "stdio", CacheTTL: time.Minute}, zerolog.Nop())
}

func call(name string, args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestWriteHandler_CreateInvalidatesList(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, _ := s.handleList(ctx, call("list", nil))
	var before output.ListResult
	if err := yaml.Unmarshal([]byte(text(t, res)), &before); err != nil {
		t.Fatal(err)
	}
	if len(before.Fences) != 0 {
		t.Fatalf("expected no fences, got %d", len(before.Fences))
	}

	res, _ = s.writeHandler("create")(ctx, call("create", map[string]interface{}{"name": "Work"}))
	if res.IsError {
		t.Fatalf("create failed: %s", text(t, res))
	}
	var created ops.StepResult
	if err := yaml.Unmarshal([]byte(text(t, res)), &created); err != nil {
		t.Fatal(err)
	}
	if !created.OK || created.Fence == nil || created.Fence.Name != "Work" {
		t.Errorf("unexpected create result: %+v", created)
	}

	res, _ = s.handleList(ctx, call("list", nil))
	var after output.ListResult
	if err := yaml.Unmarshal([]byte(text(t, res)), &after); err != nil {
		t.Fatal(err)
	}
	if len(after.Fences) != 1 {
		t.Errorf("expected the new fence in the listing, got %d", len(after.Fences))
	}
}

func TestWriteHandler_ErrorResult(t *testing.T) {
	s := newTestServer(t)
	res, err := s.writeHandler("remove")(context.Background(), call("remove", map[string]interface{}{"fence": "missing"}))
	if err != nil {
		t.Fatalf("handler errors are reported in the result, got %v", err)
	}
	if !res.IsError {
		t.Error("expected an error result")
	}
	if !strings.Contains(text(t, res), "fence not found") {
		t.Errorf("expected fence not found, got %s", text(t, res))
	}
}

func TestHandleDo(t *testing.T) {
	s := newTestServer(t)
	res, _ := s.handleDo(context.Background(), call("do", map[string]interface{}{
		"steps": []interface{}{
			map[string]interface{}{"action": "create", "name": "A"},
			map[string]interface{}{"action": "create", "name": "B", "bounds": "0,0,50,50"},
		},
	}))
	var out ops.DoResult
	if err := yaml.Unmarshal([]byte(text(t, res)), &out); err != nil {
		t.Fatal(err)
	}
	if !out.OK || out.Completed != 2 {
		t.Errorf("expected 2 completed steps, got %+v", out)
	}

	res, _ = s.handleDo(context.Background(), call("do", map[string]interface{}{"steps": "nope"}))
	if !res.IsError {
		t.Error("expected error for non-array steps")
	}
}

func TestHandlePreview(t *testing.T) {
	s := newTestServer(t)
	res, _ := s.handlePreview(context.Background(), call("preview", map[string]interface{}{"format": "png"}))
	if res.IsError || len(res.Content) != 1 {
		t.Fatalf("expected one image, got %+v", res)
	}
	img, ok := res.Content[0].(mcp.ImageContent)
	if !ok {
		t.Fatalf("expected image content, got %T", res.Content[0])
	}
	if img.MIMEType != "image/png" || img.Data == "" {
		t.Errorf("unexpected image: %s, %d bytes", img.MIMEType, len(img.Data))
	}
}

func TestServe_UnknownTransport(t *testing.T) {
	s := newTestServer(t)
	if err := s.Serve(Config{Transport: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown transport")
	}
}
