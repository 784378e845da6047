// Package main runs the training history MCP server over stdio for local
// MCP clients. The same tools are mounted on the main backend at /mcp.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/2beens/repcoach/internal"
	"github.com/2beens/repcoach/internal/config"
	"github.com/2beens/repcoach/internal/db"
	"github.com/2beens/repcoach/internal/logging"

	"github.com/getsentry/sentry-go"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled && sentryDSN != "",
		SentryDSN:        sentryDSN,
		SentryServerName: "history-mcp",
	})
	if cfg.LogsPath == "" {
		// stdout carries the MCP protocol
		log.SetOutput(os.Stderr)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("REPCOACH_POSTGRES_PASS"),
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	mcpServer := internal.NewMCPServer(dbPool, cfg, "stdio")
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Errorf("serve stdio: %v", err)
	}
	sentry.Flush(2 * time.Second)
}
