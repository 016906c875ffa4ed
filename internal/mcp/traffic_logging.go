package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxPayloadLog bounds logged payloads; image arguments run to megabytes.
const maxPayloadLog = 2048

// trafficLoggingMiddleware logs each MCP exchange at debug level. Tool calls
// also record the tool name, whether the tool reported an error and latency.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			params := safeParams(req)
			attrs := []any{
				"direction", direction,
				"method", method,
				"session_id", safeSessionID(req),
				"user_id", userID(ctx),
			}
			if method == "tools/call" {
				attrs = append(attrs, "tool", toolName(params))
			}
			logger.Debug("mcp request", append(attrs, "params", formatPayload(params))...)

			start := time.Now()
			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}

			attrs = append(attrs, "elapsed", time.Since(start))
			if tr, ok := result.(*sdkmcp.CallToolResult); ok && tr != nil {
				attrs = append(attrs, "tool_error", tr.IsError)
			}
			if err != nil {
				logger.Debug("mcp response", append(attrs, "error", err)...)
			} else {
				logger.Debug("mcp response", append(attrs, "result", formatPayload(result))...)
			}
			return result, err
		}
	}
}

// toolName pulls the tool name out of tools/call params without depending on
// the concrete params type the SDK hands the middleware.
func toolName(params any) string {
	if params == nil {
		return ""
	}
	data, err := json.Marshal(params)
	if err != nil {
		return ""
	}
	var call struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &call); err != nil {
		return ""
	}
	return call.Name
}

func safeSessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if session := req.GetSession(); session != nil {
		return session.ID()
	}
	return ""
}

func safeParams(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxPayloadLog {
		return fmt.Sprintf("%s...(%d bytes)", data[:maxPayloadLog], len(data))
	}
	return string(data)
}
