package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/nutrilog/internal/app"
	"github.com/rpggio/nutrilog/internal/auth"
)

// Version is reported to clients during initialize.
const Version = "0.1.0"

// TokenParser turns a bearer token into a session.
type TokenParser interface {
	Parse(token string) (auth.Session, error)
}

// Config contains server configuration.
type Config struct {
	Services *app.Services
	// Tokens authenticates HTTP requests. When nil, every request runs as Session.
	Tokens        TokenParser
	Session       auth.Session
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "nutrilog",
		Version: Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Middleware added later runs first; the session must be resolved
	// before traffic is logged.
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	// Stdio is single-user: the configured session is always used.
	if cfg.TransportMode == "stdio" || cfg.Tokens == nil {
		server.AddReceivingMiddleware(staticSessionMiddleware(cfg.Session))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Tokens))
	}

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}
