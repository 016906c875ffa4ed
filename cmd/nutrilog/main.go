package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/nutrilog/internal/aggregate"
	"github.com/rpggio/nutrilog/internal/app"
	"github.com/rpggio/nutrilog/internal/auth"
	"github.com/rpggio/nutrilog/internal/config"
	"github.com/rpggio/nutrilog/internal/domain/analytics"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/food"
	"github.com/rpggio/nutrilog/internal/mcp"
	"github.com/rpggio/nutrilog/internal/transport"
)

const localUserID = "local"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("NUTRILOG_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx := context.Background()
	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open backend", "kind", cfg.Backend.Kind, "error", err)
		os.Exit(1)
	}
	defer b.close()

	photos, err := newPhotoStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure photo storage", "error", err)
		os.Exit(1)
	}
	recognizer, err := newRecognizer(ctx, cfg, b, logger)
	if err != nil {
		logger.Error("failed to configure recognition", "error", err)
		os.Exit(1)
	}

	book := aggregate.NewBook()
	meals := meal.NewService(b.meals, book, photos, logger)
	workouts := workout.NewService(b.workouts, book, logger)
	svcs := &app.Services{
		Meals:     meals,
		Workouts:  workouts,
		Profiles:  profile.NewService(b.profiles, logger),
		Analytics: analytics.NewService(b.meals, b.workouts, logger),
		Foods: food.NewResolver(nil, newFoodDatabase(cfg, b, logger), recognizer, nil, food.Config{
			MinConfidence: cfg.Recognition.MinConfidence,
			MaxCandidates: cfg.Recognition.MaxCandidates,
		}, logger),
		Book: book,
		Now:  time.Now,
	}
	if b.catalog != nil {
		svcs.Catalog = b.catalog
	}

	if cfg.Transport.Mode == "stdio" {
		sess, err := b.signIn(ctx, cfg)
		if err != nil {
			logger.Error("failed to sign in", "error", err)
			os.Exit(1)
		}
		mcpServer := mcp.NewServer(mcp.Config{
			Services:      svcs,
			Session:       sess,
			TransportMode: cfg.Transport.Mode,
			Logger:        logger,
		})
		runStdioMode(logger, mcpServer, svcs, sess)
		return
	}

	mcpCfg := mcp.Config{
		Services:      svcs,
		Session:       auth.Session{UserID: localUserID},
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	}
	authMiddleware := transport.StaticSession(mcpCfg.Session)
	if b.tokens != nil {
		mcpCfg.Tokens = b.tokens
		authMiddleware = transport.AuthMiddleware(b.tokens)
	}
	runHTTPMode(logger, svcs, authMiddleware, mcp.NewServer(mcpCfg), cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server, svcs *app.Services, sess auth.Session) {
	logger.Info("starting stdio transport", "user_id", sess.UserID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	if _, err := svcs.LoadToday(auth.WithSession(ctx, sess), sess.UserID); err != nil {
		logger.Warn("failed to load today", "error", err)
	}

	// Run blocks until stdin closes or context is canceled
	err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
	svcs.SignOut(sess.UserID)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, svcs *app.Services, authMiddleware func(http.Handler) http.Handler, mcpServer *sdkmcp.Server, host string, port int) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(svcs, authMiddleware, mcpHandler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
