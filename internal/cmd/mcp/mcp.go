// Package mcp parses bridge command flags and selects stdio or HTTP
// transport.
package mcp

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/classbridge/classbridge/internal/platform/config"
	"github.com/classbridge/classbridge/internal/platform/otel"
	"github.com/classbridge/classbridge/internal/services/mcp/service"
)

// Config holds bridge command configuration.
type Config struct {
	Transport    string `env:"CLASSBRIDGE_MCP_TRANSPORT" envDefault:"stdio"`
	HTTPAddr     string `env:"CLASSBRIDGE_MCP_HTTP_ADDR" envDefault:"localhost:8081"`
	DocumentPath string `env:"CLASSBRIDGE_CONTEXTS_FILE" envDefault:"contexts.xml"`
	URLPrefix    string `env:"CLASSBRIDGE_URL_PREFIX"`
	SnapshotPath string `env:"CLASSBRIDGE_DB_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.DocumentPath, "contexts-file", cfg.DocumentPath, "path to the curriculum context document")
	fs.StringVar(&cfg.URLPrefix, "url-prefix", cfg.URLPrefix, "deep-link URL prefix for materialized contexts")
	fs.StringVar(&cfg.SnapshotPath, "db-path", cfg.SnapshotPath, "sqlite snapshot database path (empty disables persistence)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP bridge.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	return service.Run(ctx, service.Config{
		Transport:    service.TransportKind(cfg.Transport),
		HTTPAddr:     cfg.HTTPAddr,
		DocumentPath: cfg.DocumentPath,
		URLPrefix:    cfg.URLPrefix,
		SnapshotPath: cfg.SnapshotPath,
	})
}
