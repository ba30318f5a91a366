package plugin

import (
	"fmt"
	"os"
	"sync"

	"github.com/screwtop/LADSPA-plugins-screwtop/pkg/framework/debug"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLogLevel = "CME_LOG_LEVEL"
	EnvLogFile  = "CME_LOG_FILE"
)

// Config controls library-wide behavior. It is applied by Load.
type Config struct {
	// LogLevel is the minimum level of the default logger.
	LogLevel debug.LogLevel

	// LogFile, when set, redirects logging to this file until Unload.
	LogFile string
}

// DefaultConfig logs at info level to stderr.
func DefaultConfig() Config {
	return Config{LogLevel: debug.LogLevelInfo}
}

var (
	configMu     sync.Mutex
	globalConfig = DefaultConfig()
)

// SetConfig sets the configuration used by the next Load.
func SetConfig(cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()
	globalConfig = cfg
}

func currentConfig() Config {
	configMu.Lock()
	defer configMu.Unlock()
	return globalConfig
}

// ConfigFromEnv reads CME_LOG_LEVEL and CME_LOG_FILE on top of the
// defaults. An unknown level is reported and leaves the default level.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.LogFile = os.Getenv(EnvLogFile)

	if s, ok := os.LookupEnv(EnvLogLevel); ok {
		level, err := debug.ParseLevel(s)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// applyConfig must be called with registryMu held.
func applyConfig(cfg Config) error {
	if cfg.LogFile != "" && logFile == nil {
		l, err := debug.NewFileLogger(cfg.LogFile, "cme", debug.DefaultFlags)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logFile = l
		prevLogger = debug.SetDefault(l)
	}
	debug.SetLevel(cfg.LogLevel)
	return nil
}
