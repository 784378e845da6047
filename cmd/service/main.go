package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/2beens/repcoach/internal"
	"github.com/2beens/repcoach/internal/config"
	"github.com/2beens/repcoach/internal/logging"
	"github.com/2beens/repcoach/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	logJSON := flag.Bool("log-json", false, "write logs as JSON")
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of the given password for config accounts and exit")
	flag.Parse()

	if *hashPassword != "" {
		if err := printPasswordHash(os.Stdout, *hashPassword); err != nil {
			log.Fatalf("hash password: %s", err)
		}
		return
	}

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    *logJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled && sentryDSN != "",
		SentryDSN:        sentryDSN,
		SentryServerName: "main-service",
	})
	if cfg.SentryEnabled && sentryDSN == "" {
		log.Warnln("sentry enabled in config but SENTRY_DSN not set")
	}

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	if len(cfg.Accounts) == 0 {
		log.Warnln("no accounts configured, login disabled")
	}

	postgresPassword := os.Getenv("REPCOACH_POSTGRES_PASS")
	if postgresPassword == "" {
		log.Warnln("postgres password not set. use REPCOACH_POSTGRES_PASS")
	}

	redisPassword := os.Getenv("REPCOACH_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use REPCOACH_REDIS_PASS")
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			RedisPassword:           redisPassword,
			PostgresPassword:        postgresPassword,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// printPasswordHash writes the hash to put into an account's password_hash
func printPasswordHash(w io.Writer, password string) error {
	hash, err := pkg.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hash)
	return err
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
