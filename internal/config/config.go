package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the namespace of every environment variable read by Load.
const EnvPrefix = "SLA"

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server" envconfig:"SERVER"`
	Security    SecurityConfig    `yaml:"security" envconfig:"SECURITY"`
	Logging     LoggingConfig     `yaml:"logging" envconfig:"LOGGING"`
	Paths       PathsConfig       `yaml:"paths" envconfig:"PATHS"`
	Upload      UploadConfig      `yaml:"upload" envconfig:"UPLOAD"`
	Analytics   AnalyticsConfig   `yaml:"analytics" envconfig:"ANALYTICS"`
	Persistence PersistenceConfig `yaml:"persistence" envconfig:"PERSISTENCE"`
	WebSocket   WebSocketConfig   `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	UploadsDir string `yaml:"uploads_dir" envconfig:"UPLOADS_DIR" default:"uploads"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// UploadConfig bounds what the upload endpoint accepts.
type UploadConfig struct {
	MaxFileSize       int64    `yaml:"max_file_size" envconfig:"MAX_FILE_SIZE" default:"52428800"`
	AllowedExtensions []string `yaml:"allowed_extensions" envconfig:"ALLOWED_EXTENSIONS" default:".xlsx,.xlsm,.xls"`
}

// AnalyticsConfig holds the dashboard query defaults.
type AnalyticsConfig struct {
	DefaultPageSize int     `yaml:"default_page_size" envconfig:"DEFAULT_PAGE_SIZE" default:"50"`
	MaxPageSize     int     `yaml:"max_page_size" envconfig:"MAX_PAGE_SIZE" default:"500"`
	SLATarget       float64 `yaml:"sla_target" envconfig:"SLA_TARGET" default:"95"`
}

// PersistenceConfig controls the optional sqlite snapshot repository.
type PersistenceConfig struct {
	Enabled      bool   `yaml:"enabled" envconfig:"ENABLED" default:"false"`
	DatabaseFile string `yaml:"database_file" envconfig:"DATABASE_FILE" default:"slapulse.db"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"30s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays the file config on values the environment left unset.
// envconfig applies defaults, so a file value only wins when the env value
// still equals its default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	defaults := Default()

	if fileConfig.Server.Port != 0 && !envSet("SERVER_PORT") {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if fileConfig.Server.ReadTimeout != 0 && !envSet("SERVER_READ_TIMEOUT") {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if fileConfig.Server.WriteTimeout != 0 && !envSet("SERVER_WRITE_TIMEOUT") {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if len(fileConfig.Security.AllowedOrigins) > 0 && !envSet("SECURITY_ALLOWED_ORIGINS") {
		envConfig.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	if fileConfig.Logging.Level != "" && !envSet("LOGGING_LEVEL") {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Output != "" && !envSet("LOGGING_OUTPUT") {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Paths.DataDir != "" && envConfig.Paths.DataDir == defaults.Paths.DataDir {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if fileConfig.Paths.UploadsDir != "" && envConfig.Paths.UploadsDir == defaults.Paths.UploadsDir {
		envConfig.Paths.UploadsDir = fileConfig.Paths.UploadsDir
	}
	if fileConfig.Analytics.DefaultPageSize != 0 && !envSet("ANALYTICS_DEFAULT_PAGE_SIZE") {
		envConfig.Analytics.DefaultPageSize = fileConfig.Analytics.DefaultPageSize
	}
	if fileConfig.Analytics.MaxPageSize != 0 && !envSet("ANALYTICS_MAX_PAGE_SIZE") {
		envConfig.Analytics.MaxPageSize = fileConfig.Analytics.MaxPageSize
	}
	if fileConfig.Persistence.Enabled && !envSet("PERSISTENCE_ENABLED") {
		envConfig.Persistence.Enabled = true
	}
	if fileConfig.Persistence.DatabaseFile != "" && !envSet("PERSISTENCE_DATABASE_FILE") {
		envConfig.Persistence.DatabaseFile = fileConfig.Persistence.DatabaseFile
	}

	return envConfig
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("upload max file size must be positive")
	}

	if c.Analytics.DefaultPageSize <= 0 {
		return fmt.Errorf("default page size must be positive")
	}

	if c.Analytics.MaxPageSize < c.Analytics.DefaultPageSize {
		return fmt.Errorf("max page size %d is below default page size %d",
			c.Analytics.MaxPageSize, c.Analytics.DefaultPageSize)
	}

	// JSON is the only supported log format
	c.Logging.Format = "json"

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			UploadsDir: "uploads",
			LogsDir:    "logs",
		},
		Upload: UploadConfig{
			MaxFileSize:       50 << 20,
			AllowedExtensions: []string{".xlsx", ".xlsm", ".xls"},
		},
		Analytics: AnalyticsConfig{
			DefaultPageSize: 50,
			MaxPageSize:     500,
			SLATarget:       95,
		},
		Persistence: PersistenceConfig{
			Enabled:      false,
			DatabaseFile: "slapulse.db",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
		},
	}
}
