package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/nutrilog/internal/auth"
)

// userID extracts the signed-in user from context.
func userID(ctx context.Context) string {
	sess, _ := auth.FromContext(ctx)
	return sess.UserID
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(tokens TokenParser) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Protocol handshakes carry no user.
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			header := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			sess, err := tokens.Parse(token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if sess.UserID == "" {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}

			return next(auth.WithSession(ctx, sess), method, req)
		}
	}
}

// staticSessionMiddleware runs every request as sess.
func staticSessionMiddleware(sess auth.Session) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(auth.WithSession(ctx, sess), method, req)
		}
	}
}
