// Package logging holds the process-wide zap logger used by the calculator,
// the HTTP server and the CLI.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName tags every entry written by a logger from Initialize
const ServiceName = "cardprice"

// Common field keys
const (
	FieldRequestID = "request_id"
	FieldComponent = "component"
)

// Logger is the global logger instance
var Logger *zap.Logger

// Config contains logging configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level" toml:"level"`

	// Format is console or json
	Format string `json:"format" toml:"format"`

	// Output is stdout, stderr or a file path
	Output string `json:"output" toml:"output"`

	// Service overrides the "service" field; empty uses ServiceName
	Service string `json:"service,omitempty" toml:"service,omitempty"`

	// Development enables stack traces on errors
	Development bool `json:"development" toml:"development"`
}

// DefaultConfig logs info and above to stderr in console format
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Format:  "console",
		Output:  "stderr",
		Service: ServiceName,
	}
}

// Initialize replaces the global logger according to cfg.
// An unknown level falls back to info.
func Initialize(cfg Config) error {
	sink, err := openSink(cfg.Output)
	if err != nil {
		return err
	}
	Logger = build(cfg, sink)
	return nil
}

func build(cfg Config, sink zapcore.WriteSyncer) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	service := cfg.Service
	if service == "" {
		service = ServiceName
	}

	opts := []zap.Option{zap.AddCaller(), zap.Fields(zap.String("service", service))}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(zapcore.NewCore(encoder, sink, level), opts...)
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr", "":
		return zapcore.AddSync(os.Stderr), nil
	}
	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(file), nil
}

// Replace swaps the global logger and returns a func restoring the previous one
func Replace(l *zap.Logger) func() {
	prev := Logger
	Logger = l
	return func() { Logger = prev }
}

// Sync flushes the logger
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Named returns a component logger, e.g. "pricing" or "http"
func Named(component string) *zap.Logger {
	return Logger.Named(component).With(zap.String(FieldComponent, component))
}

// With returns a logger carrying fields, e.g. a request id
func With(fields ...zap.Field) *zap.Logger {
	return Logger.With(fields...)
}

// Debug logs at debug level
func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

// Info logs at info level
func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func init() {
	Logger = build(DefaultConfig(), zapcore.AddSync(os.Stderr))
}
