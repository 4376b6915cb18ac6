package dineflow

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	ordersamqp "github.com/Apurer/dineflow/internal/domains/orders/adapters/messaging/amqp"
	platformobservability "github.com/Apurer/dineflow/internal/platform/observability"
)

// Config carries environment-driven settings for the dineflow process.
type Config struct {
	DataDir       string
	MenuFile      string
	OrdersFile    string
	ReceiptDir    string
	PostgresDSN   string
	AMQPURL       string
	AMQPExchange  string
	LogLevel      slog.Level
	TraceExporter string
}

// LoadConfig reads an optional .env file and the environment, applies
// defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	dataDir := envDefault("DINEFLOW_DATA_DIR", "data")
	cfg := Config{
		DataDir:       dataDir,
		MenuFile:      envDefault("DINEFLOW_MENU_FILE", filepath.Join(dataDir, "menu.json")),
		OrdersFile:    envDefault("DINEFLOW_ORDERS_FILE", filepath.Join(dataDir, "orders.json")),
		ReceiptDir:    envDefault("DINEFLOW_RECEIPT_DIR", filepath.Join(dataDir, "receipts")),
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		AMQPURL:       strings.TrimSpace(os.Getenv("AMQP_URL")),
		AMQPExchange:  envDefault("AMQP_EXCHANGE", ordersamqp.DefaultExchange),
		TraceExporter: strings.ToLower(envDefault("DINEFLOW_TRACE_EXPORTER", platformobservability.ExporterNone)),
	}

	level, err := platformobservability.ParseLevel(envDefault("DINEFLOW_LOG_LEVEL", "warn"))
	if err != nil {
		return Config{}, fmt.Errorf("DINEFLOW_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	switch cfg.TraceExporter {
	case platformobservability.ExporterNone, platformobservability.ExporterStdout, platformobservability.ExporterOTLP:
	default:
		return Config{}, fmt.Errorf("DINEFLOW_TRACE_EXPORTER must be one of none, stdout, otlp")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
