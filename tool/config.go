package tool

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/editor-bridge/types"
)

const (
	CompletionExact   = "exact"
	CompletionLenient = "lenient"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

func DefaultConfig() types.AppConfig {
	return types.AppConfig{
		Port:               53318,
		ChunkSize:          100000, // same bound for the editor side, keep both in sync.
		TextChunkSize:      100000,
		MaxUploadSize:      32 << 20,
		MaxImageHeight:     400,
		MaxImagePixels:     40_000_000,
		JpegQuality:        95,
		Completion:         CompletionExact,
		SessionTTLSeconds:  600,
		RateLimitPerSecond: 0,
		RateLimitBurst:     50,
		AllowRemote:        false,
		NotifySocket:       "",
	}
}

// SessionTTL returns the upload session expiry as a duration.
func SessionTTL(cfg *types.AppConfig) time.Duration {
	return time.Duration(cfg.SessionTTLSeconds) * time.Second
}

func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := DefaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %w", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			CurrentConfig = cfg
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return cfg, err
	}

	CurrentConfig = cfg
	return cfg, nil
}

// ValidateConfig rejects values the chunk protocol cannot work with.
func ValidateConfig(cfg *types.AppConfig) error {
	switch {
	case cfg.ChunkSize <= 0:
		return fmt.Errorf("chunkSize must be > 0, got %d", cfg.ChunkSize)
	case cfg.TextChunkSize <= 0:
		return fmt.Errorf("textChunkSize must be > 0, got %d", cfg.TextChunkSize)
	case cfg.MaxUploadSize <= 0:
		return fmt.Errorf("maxUploadSize must be > 0, got %d", cfg.MaxUploadSize)
	case cfg.MaxImagePixels <= 0:
		return fmt.Errorf("maxImagePixels must be > 0, got %d", cfg.MaxImagePixels)
	case cfg.MaxImageHeight <= 0:
		return fmt.Errorf("maxImageHeight must be > 0, got %d", cfg.MaxImageHeight)
	case cfg.JpegQuality < 1 || cfg.JpegQuality > 100:
		return fmt.Errorf("jpegQuality must be within 1-100, got %d", cfg.JpegQuality)
	case cfg.Completion != CompletionExact && cfg.Completion != CompletionLenient:
		return fmt.Errorf("completion must be %q or %q, got %q", CompletionExact, CompletionLenient, cfg.Completion)
	case cfg.SessionTTLSeconds <= 0:
		return fmt.Errorf("sessionTTLSeconds must be > 0, got %d", cfg.SessionTTLSeconds)
	case cfg.RateLimitPerSecond < 0:
		return fmt.Errorf("rateLimitPerSecond must be >= 0, got %d", cfg.RateLimitPerSecond)
	}
	return nil
}

func writeDefaultConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}
